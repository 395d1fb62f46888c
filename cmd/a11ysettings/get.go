package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a11ysettings/internal/a11y"
)

var getOpts struct {
	format string
}

var getCmd = &cobra.Command{
	Use:   "get [option]",
	Short: "Show accessibility settings",
	Long: `Show the current value of accessibility options.

Without arguments, shows every option that takes a value. With an option
name, prints just its value.

Options:
  high-contrast, large-print, cursor-theme, cursor-size,
  screen-reader, onscreen-keyboard

Examples:
  # Show all options
  a11ysettings get

  # Print the cursor size
  a11ysettings get cursor-size

  # Output as JSON
  a11ysettings get --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "plain",
		"Output format (plain, json)")
}

func runGet(cmd *cobra.Command, args []string) error {
	c, err := openContext()
	if err != nil {
		return err
	}
	defer func() { _ = c.Controller.Close() }()

	if len(args) == 1 {
		h, err := a11y.Lookup(a11y.ControlID(args[0]))
		if err != nil {
			return err
		}
		if h.Get == nil {
			return fmt.Errorf("%w: %s", a11y.ErrReadOnly, h.ID)
		}
		value, err := h.Get(c)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", h.ID, err)
		}
		fmt.Println(value)
		return nil
	}

	values := make(map[string]string)
	var order []a11y.ControlID
	for _, id := range a11y.Settable() {
		h, _ := a11y.Lookup(id)
		value, err := h.Get(c)
		if err != nil {
			logger.Warn("failed to read option", "option", id, "error", err)
			continue
		}
		values[string(id)] = value
		order = append(order, id)
	}

	switch getOpts.format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	case "plain", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, id := range order {
			fmt.Fprintf(w, "%s\t%s\n", id, values[string(id)])
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (want plain, json)", getOpts.format)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
	"github.com/jmylchreest/a11ysettings/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal theme picker",
	Long: `Launch a terminal interface for choosing the mouse pointer theme and
toggling the visual accessibility options.

Key bindings:
  j/k, ↑/↓    Navigate themes
  enter       Apply the selected theme
  i, tab      Show theme details and preview
  /           Search themes
  h           Toggle high contrast
  l           Toggle large print
  +/-         Change pointer size
  y           Copy theme name to clipboard
  w           Save assistive technology choices
  r           Rescan theme directories
  ?           Show help
  q           Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	c, err := openContext()
	if err != nil {
		return err
	}
	defer func() { _ = c.Controller.Close() }()

	dirs := cfg.SearchDirs()

	var refresh chan struct{}
	if cfg.Cursor.Watch {
		refresh = make(chan struct{}, 1)
		watcher := catalog.NewWatcher(dirs, logger)
		watcher.SetDebounce(cfg.Cursor.Debounce.Duration())
		watcher.SetChangeCallback(func() {
			select {
			case refresh <- struct{}{}:
			default:
			}
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("failed to watch cursor theme directories", "error", err)
			refresh = nil
		} else {
			defer watcher.Stop()
		}
	}

	return tui.Run(ctx, tui.Options{
		Context: c,
		Builder: catalog.NewBuilder(logger),
		Dirs:    dirs,
		Refresh: refresh,
	})
}

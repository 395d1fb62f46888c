package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/a11ysettings/internal/adapter/output"
	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

var themesOpts struct {
	// Filter options
	search string

	// Output options
	format      string
	field       string
	template    string
	showPath    bool
	noComment   bool
	noIndex     bool
	searchPath  string
	withDefault bool
}

var themesCmd = &cobra.Command{
	Use:   "themes [name]",
	Short: "List installed mouse pointer themes",
	Long: `List the cursor themes installed in the Xcursor search path, in the
order the settings dialog shows them. The active theme is marked.

With a name argument, outputs that theme only.

Examples:
  # List themes with descriptions
  a11ysettings themes

  # Pick a theme with a launcher and apply it
  a11ysettings themes --format dmenu | fuzzel -d | cut -d'|' -f2 | xargs a11ysettings set cursor-theme

  # Print the directory of one theme
  a11ysettings themes Adwaita --field path

  # Output as JSON
  a11ysettings themes --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)

	themesCmd.Flags().StringVarP(&themesOpts.search, "search", "s", "",
		"Only list themes whose name or description contains the text")

	themesCmd.Flags().StringVarP(&themesOpts.format, "format", "f", string(output.FormatPlain),
		fmt.Sprintf("Output format (%s)", joinFormats()))
	themesCmd.Flags().StringVar(&themesOpts.field, "field", "",
		"Output single field of the named theme (name, display_name, comment, path)")
	themesCmd.Flags().StringVar(&themesOpts.template, "template", "",
		"Custom Go template for output formatting")
	themesCmd.Flags().BoolVar(&themesOpts.showPath, "path", false,
		"Show each theme's cursors directory")
	themesCmd.Flags().BoolVar(&themesOpts.noComment, "no-comment", false,
		"Hide theme descriptions")
	themesCmd.Flags().BoolVar(&themesOpts.noIndex, "no-index", false,
		"Hide the index column")
	themesCmd.Flags().StringVar(&themesOpts.searchPath, "search-path", "",
		"Colon-separated theme directories (default: XCURSOR_PATH or the config)")
	themesCmd.Flags().BoolVar(&themesOpts.withDefault, "with-default", true,
		"Include the system default entry")
}

func joinFormats() string {
	var names []string
	for _, f := range output.Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func runThemes(cmd *cobra.Command, args []string) error {
	format := output.FormatType(strings.ToLower(themesOpts.format))
	if !slices.Contains(output.Formats(), format) {
		return fmt.Errorf("unknown format %q (want %s)", themesOpts.format, joinFormats())
	}

	themes := buildThemes()

	selected := ""
	if c, err := openContext(); err != nil {
		logger.Warn("cannot read the active theme", "error", err)
	} else {
		selected, _ = c.Controller.CursorTheme()
		_ = c.Controller.Close()
	}
	if selected == "" {
		selected = catalog.DefaultName
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = themesOpts.template
	opts.ShowPath = themesOpts.showPath
	opts.ShowComment = !themesOpts.noComment
	opts.ShowIndex = !themesOpts.noIndex
	opts.Selected = selected

	if len(args) == 1 {
		e := themes.Lookup(args[0])
		if e == nil {
			return fmt.Errorf("cursor theme %q not installed", args[0])
		}
		if themesOpts.field != "" {
			fmt.Println(output.FormatField(e, themesOpts.field))
			return nil
		}
		if format == output.FormatJSON {
			return output.NewJSONFormatter(opts).FormatSingle(os.Stdout, e)
		}
		return output.NewFormatter(format, opts).Format(os.Stdout, []*catalog.Entry{e})
	}

	var entries []*catalog.Entry
	if themesOpts.search != "" {
		entries = themes.Search(themesOpts.search)
	} else {
		entries = themes.Entries()
	}
	if !themesOpts.withDefault {
		entries = slices.DeleteFunc(slices.Clone(entries), (*catalog.Entry).IsDefault)
	}

	return output.NewFormatter(format, opts).Format(os.Stdout, entries)
}

// buildThemes builds the catalog from --search-path when given.
func buildThemes() *catalog.Catalog {
	if themesOpts.searchPath == "" {
		return buildCatalog()
	}
	themes := catalog.NewBuilder(logger).Build(catalog.SplitSearchPath(themesOpts.searchPath))
	themes.Sort(catalog.NewCollator())
	return themes
}

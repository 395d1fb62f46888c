package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/jmylchreest/a11ysettings/internal/catalog"
)

var previewOpts struct {
	output string
	scale  int
}

var previewCmd = &cobra.Command{
	Use:   "preview <theme>",
	Short: "Render a theme's preview mosaic to PNG",
	Long: `Render the grid of sample cursors the settings dialog shows for a theme
and write it as a PNG image.

Examples:
  # Write Adwaita-preview.png in the current directory
  a11ysettings preview Adwaita

  # Enlarge 4x and write to stdout
  a11ysettings preview DMZ-White --scale 4 -o - | imv -`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewOpts.output, "output", "o", "",
		"Output file, or - for stdout (default: <theme>-preview.png)")
	previewCmd.Flags().IntVar(&previewOpts.scale, "scale", 1,
		"Integer scale factor")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewOpts.scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", previewOpts.scale)
	}

	e := buildCatalog().Lookup(args[0])
	if e == nil {
		return fmt.Errorf("cursor theme %q not installed", args[0])
	}
	if e.IsDefault() {
		return errors.New("the system default entry has no preview")
	}

	mosaic := catalog.NewBuilder(logger).RenderPreviewMosaic(e.Path)
	if mosaic == nil {
		return fmt.Errorf("no preview cursors found in %s", e.Path)
	}

	var img image.Image = mosaic
	if previewOpts.scale > 1 {
		b := mosaic.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*previewOpts.scale, b.Dy()*previewOpts.scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mosaic, b, draw.Src, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	path := previewOpts.output
	if path == "" {
		path = e.Name + "-preview.png"
	}
	if path == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%s)\n", path, humanize.Bytes(uint64(buf.Len())))
	return nil
}

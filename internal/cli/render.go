package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// renderOpts holds the render-only flags.
type renderOpts struct {
	output  string  // output file (single format) or base path
	formats string  // comma-separated output formats
	radius  float64 // corner radius of outer tile corners
	labels  bool    // draw item ids on tiles
	images  bool    // fill tiles with the item files
	bg      string  // background color
	refresh bool    // ignore cached results
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags measureFlags
		ro    renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render an album as SVG, PNG, PDF or JSON",
		Long: `Render an album manifest. Outer corners of the collage are rounded,
inner corners stay square.

PNG and PDF output require rsvg-convert (librsvg) on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd.Flags(), flags)
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("radius") {
				opts.Radius = ro.radius
			}
			opts.Labels = ro.labels
			opts.Images = ro.images
			opts.Background = ro.bg
			opts.Refresh = ro.refresh
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&ro.radius, "radius", 0, "corner radius (default from config)")
	cmd.Flags().BoolVar(&ro.labels, "labels", false, "draw item ids on tiles")
	cmd.Flags().BoolVar(&ro.images, "images", false, "fill tiles with the item images")
	cmd.Flags().StringVar(&ro.bg, "background", "", "background color behind the tiles (e.g. #ffffff)")
	cmd.Flags().BoolVar(&ro.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")

	return cmd
}

// outputPaths maps each format to its file. A single format with -o
// writes exactly there; otherwise -o (or the manifest name) is a base path.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	album, err := manifest.Load(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()
	res, err := runner.Execute(ctx, album, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(ro.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", album.ID)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	fmt.Println(statsLine(res.Layout) + StyleDim.Render(" · ") + cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	if res.Stats.Probed > 0 {
		printDetail("probed %d files in %s", res.Stats.Probed, res.Stats.ProbeTime.Round(time.Millisecond))
	}
	if res.Stats.Degenerate > 0 {
		printWarning("%d items had no usable size", res.Stats.Degenerate)
	}
	printNewline()
	printNextStep("Reorder", appName+" reorder "+input)
	return nil
}

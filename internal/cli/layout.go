package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// layoutCommand creates the layout command for measuring albums.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   measureFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [manifest]...",
		Short: "Measure album manifests and print tile frames",
		Long: `Measure one or more album manifests (.toml or .json) and print the frame
and position flags of every tile.

Photos without a width and height in the manifest are probed from their
image headers. Albums are measured concurrently and results are cached.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd.Flags(), flags)
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args, opts, asJSON, noCache)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print layouts as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, paths []string, opts pipeline.Options, asJSON, noCache bool) error {
	albums := make([]*manifest.Album, len(paths))
	for i, p := range paths {
		a, err := manifest.Load(p)
		if err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		albums[i] = a
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	layouts, err := runner.MeasureAll(ctx, albums, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Measured %d albums", len(albums)))

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(layouts)
	}

	for i, e := range layouts {
		a := albums[i]
		title := a.ID
		if a.Title != "" {
			title = a.Title + " " + StyleDim.Render("("+a.ID+")")
		}
		fmt.Fprintln(w, StyleTitle.Render(title))
		fmt.Fprintln(w, frameTable(e))
		fmt.Fprintln(w, statsLine(e))
		if len(e.Degenerate) > 0 {
			printWarning("%s: items without a usable size were drawn as squares: %s", a.ID, strings.Join(e.Degenerate, ", "))
		}
		fmt.Fprintln(w)
	}
	printNextStep("Render", appName+" render "+paths[0])
	return nil
}

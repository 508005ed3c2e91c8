// Package cli implements the mosaic command-line interface.
//
// # Commands
//
//   - layout: measure album manifests and print the tile frames
//   - render: draw an album as SVG, PNG, PDF or JSON
//   - reorder: drag tiles around in the terminal and save the new order
//   - serve: run the HTTP API
//   - cache: manage the local layout cache
//
// # Configuration
//
// Defaults come from ~/.config/mosaic/config.toml (or MOSAIC_CONFIG, or
// --config). Command flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/cache"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "mosaic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFlag string
}

// New creates a CLI with default configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mosaic packs photo albums into collage layouts",
		Long:         `Mosaic computes grouped-media layouts: it packs up to ten photos, videos or files into a bounding box, preserving aspect ratios where it can, and renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configFlag)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.Logger.Debug("loaded config", "path", configPath(c.configFlag))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFlag, "config", "", "config file (default: ~/.config/mosaic/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.reorderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the local file cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if ttl, err := c.Config.TTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

// newServerRunner prefers Redis when the config names one.
func (c *CLI) newServerRunner(ctx context.Context) (*pipeline.Runner, error) {
	srv := c.Config.Server
	if srv.RedisAddr == "" {
		return c.newRunner(false)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     srv.RedisAddr,
		Password: srv.RedisPassword,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "addr", srv.RedisAddr)
	// Keys are scoped by release so a new packer never reads stale frames.
	r := pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, buildinfo.Version+":"), c.Logger)
	if ttl, err := c.Config.TTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

// newStore opens MongoDB when configured, otherwise a directory store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	srv := c.Config.Server
	if srv.MongoURI != "" {
		s, err := store.NewMongoStore(ctx, store.MongoConfig{URI: srv.MongoURI, Database: srv.MongoDatabase})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using mongo store", "database", srv.MongoDatabase)
		return s, nil
	}
	s, err := store.NewFileStore(srv.AlbumDir)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using file store", "dir", s.Path())
	return s, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mosaic/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// measureFlags are the flags shared by commands that measure albums.
type measureFlags struct {
	width, height, spacing, scale float64
	workers                       int
}

func (f *measureFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.width, "width", 0, "bounding box width in points (default from config)")
	fs.Float64Var(&f.height, "height", 0, "bounding box height in points (default from config)")
	fs.Float64Var(&f.spacing, "spacing", 0, "gap between tiles in points (default from config)")
	fs.Float64Var(&f.scale, "scale", 0, "device pixels per point used for snapping (default from config)")
	fs.IntVar(&f.workers, "workers", 0, "concurrent file probes (default 8)")
}

// options merges the flags that were set over the config.
func (c *CLI) options(fs *pflag.FlagSet, f measureFlags) pipeline.Options {
	opts := c.Config.Options()
	if fs.Changed("width") {
		opts.Width = f.width
	}
	if fs.Changed("height") {
		opts.Height = f.height
	}
	if fs.Changed("spacing") {
		opts.Spacing = f.spacing
		if f.spacing == 0 {
			opts.Spacing = pipeline.NoSpacing
		}
	}
	if fs.Changed("scale") {
		opts.Scale = f.scale
	}
	if fs.Changed("workers") {
		opts.Workers = f.workers
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	formats := strings.Split(s, ",")
	for i := range formats {
		formats[i] = strings.TrimSpace(formats[i])
	}
	return formats
}

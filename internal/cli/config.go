package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/pipeline"
)

// ServerConfig is the [server] table of the config file.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	AlbumDir      string `toml:"album_dir"` // used when mongo_uri is empty
}

// Config is the user configuration read from config.toml.
type Config struct {
	Width    float64      `toml:"width"`
	Height   float64      `toml:"height"`
	Spacing  float64      `toml:"spacing"`
	Scale    float64      `toml:"scale"`
	Radius   float64      `toml:"radius"`
	Workers  int          `toml:"workers"`
	CacheTTL string       `toml:"cache_ttl"`
	Server   ServerConfig `toml:"server"`
}

func defaultConfig() Config {
	return Config{
		Width:    pipeline.DefaultWidth,
		Height:   pipeline.DefaultHeight,
		Spacing:  pipeline.DefaultSpacing,
		Scale:    pipeline.DefaultScale,
		Radius:   pipeline.DefaultRadius,
		CacheTTL: "24h",
		Server: ServerConfig{
			Addr:          ":8080",
			MongoDatabase: "mosaic",
		},
	}
}

func configPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("MOSAIC_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// LoadConfig reads the config file over the defaults. A missing file is
// not an error.
func LoadConfig(flagPath string) (Config, error) {
	cfg := defaultConfig()

	path := configPath(flagPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	def := defaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.Spacing < 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.Radius < 0 {
		cfg.Radius = def.Radius
	}
	if cfg.CacheTTL == "" {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.MongoDatabase == "" {
		cfg.Server.MongoDatabase = def.Server.MongoDatabase
	}
	if _, err := cfg.TTL(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTL parses cache_ttl.
func (c Config) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "cache_ttl %q is not a positive duration", c.CacheTTL)
	}
	return d, nil
}

// Options converts the config to pipeline options. A configured spacing
// of zero means tiles without gaps.
func (c Config) Options() pipeline.Options {
	spacing := c.Spacing
	if spacing == 0 {
		spacing = pipeline.NoSpacing
	}
	return pipeline.Options{
		Width:   c.Width,
		Height:  c.Height,
		Spacing: spacing,
		Scale:   c.Scale,
		Radius:  c.Radius,
		Workers: c.Workers,
	}
}

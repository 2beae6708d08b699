package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/layerview"
)

// Config is the on-disk configuration. Flags override it; it overrides
// the built-in defaults.
//
//	[platform]
//	base_url = "https://api.analyzere.net"
//	username = "me"
//	password = "secret"
//	timeout  = "30s"
//
//	[graph]
//	format  = "svg"
//	rankdir = "LR"
//	colors  = 4
//
//	[cache]
//	ttl        = "24h"
//	redis_addr = "localhost:6379"
//	scope      = "staging"
//
//	[server]
//	addr      = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
type Config struct {
	Platform PlatformConfig `toml:"platform"`
	Graph    GraphConfig    `toml:"graph"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// PlatformConfig locates the Analyze Re API.
type PlatformConfig struct {
	BaseURL  string   `toml:"base_url"`
	Username string   `toml:"username"`
	Password string   `toml:"password"`
	Timeout  Duration `toml:"timeout"`
}

// GraphConfig holds default graph options.
type GraphConfig struct {
	WithTerms  bool   `toml:"with_terms"`
	Compact    bool   `toml:"compact"`
	Warnings   bool   `toml:"warnings"`
	Format     string `toml:"format"`
	Rankdir    string `toml:"rankdir"`
	MaxDepth   int    `toml:"max_depth"`
	MaxSources int    `toml:"max_sources"`
	Colors     int    `toml:"colors"`
	ColorMode  string `toml:"color_mode"`
}

// CacheConfig configures response and artifact caching.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Scope     string   `toml:"scope"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Duration is a time.Duration written as a string ("30s", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	o := layerview.DefaultOptions()
	return Config{
		Platform: PlatformConfig{
			BaseURL: "https://api.analyzere.net",
			Timeout: Duration{30 * time.Second},
		},
		Graph: GraphConfig{
			WithTerms:  o.WithTerms,
			Compact:    o.Compact,
			Warnings:   o.Warnings,
			Format:     o.Format,
			Rankdir:    o.Rankdir,
			MaxDepth:   o.MaxDepth,
			MaxSources: o.MaxSources,
			Colors:     o.Colors,
			ColorMode:  o.ColorMode,
		},
		Cache:  CacheConfig{TTL: Duration{24 * time.Hour}},
		Server: ServerConfig{Addr: ":8080", MongoDatabase: "are_extras"},
	}
}

// LoadConfig reads path over the defaults. An empty path means the default
// location, which may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config file %s", path)
	}
	return cfg, nil
}

// Options converts the graph section to layerview options.
func (g GraphConfig) Options() layerview.Options {
	return layerview.Options{
		WithTerms:  g.WithTerms,
		Compact:    g.Compact,
		Warnings:   g.Warnings,
		Format:     g.Format,
		Rankdir:    g.Rankdir,
		MaxDepth:   g.MaxDepth,
		MaxSources: g.MaxSources,
		Colors:     g.Colors,
		ColorMode:  g.ColorMode,
		Size:       layerview.DefaultOptions().Size,
	}
}

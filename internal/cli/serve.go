package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/analyzere/extras/pkg/cache"
	"github.com/analyzere/extras/pkg/platform"
	"github.com/analyzere/extras/pkg/server"
	"github.com/analyzere/extras/pkg/store"
)

type serveOpts struct {
	addr      string
	redisAddr string
	mongoURI  string
	noCache   bool
}

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph API over HTTP",
		Long: `Serve the graph API over HTTP.

Rendered artifacts are cached in Redis when an address is configured, otherwise
on disk. Render records go to MongoDB when a URI is configured, otherwise to
~/.local/state/are-extras/renders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the artifact cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for render records")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := c.config

	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.redisAddr != "" {
		cfg.Cache.RedisAddr = opts.redisAddr
	}
	if opts.mongoURI != "" {
		cfg.Server.MongoURI = opts.mongoURI
	}

	artifacts, err := c.serverCache(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	records, err := serverStore(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer records.Close()

	var keys cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.Scope != "" {
		keys = cache.NewScopedKeyer(keys, cfg.Cache.Scope+":")
	}

	var client *platform.Client
	if cfg.Platform.BaseURL != "" {
		pw := cfg.Platform.Password
		if env := os.Getenv(passwordEnv); env != "" {
			pw = env
		}
		client, err = platform.NewClient(platform.Config{
			BaseURL:  cfg.Platform.BaseURL,
			Username: cfg.Platform.Username,
			Password: pw,
			Timeout:  cfg.Platform.Timeout.Duration,
		}, platform.WithCache(artifacts, cfg.Cache.TTL.Duration), platform.WithKeyer(keys), platform.WithLogger(logger))
		if err != nil {
			return err
		}
	}

	srv := server.New(server.Config{
		Platform: client,
		Cache:    artifacts,
		CacheTTL: cfg.Cache.TTL.Duration,
		Keyer:    keys,
		Store:    records,
		Defaults: cfg.Graph.Options(),
		Logger:   logger,
	})

	printInfo("Serving graph API")
	printKeyValue("Address", cfg.Server.Addr)
	if cfg.Cache.Scope != "" {
		printKeyValue("Cache scope", cfg.Cache.Scope)
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func (c *CLI) serverCache(ctx context.Context, cfg CacheConfig, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv("ARE_EXTRAS_REDIS_PASSWORD"),
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		printKeyValue("Cache", "redis "+cfg.RedisAddr)
		return rc, nil
	}
	return c.newCache(false), nil
}

func serverStore(ctx context.Context, cfg ServerConfig) (store.Store, error) {
	if cfg.MongoURI != "" {
		s, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, err
		}
		printKeyValue("Records", "mongo "+cfg.MongoDatabase)
		return s, nil
	}
	return store.NewFileStore("")
}

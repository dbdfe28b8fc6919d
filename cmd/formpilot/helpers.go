package main

import (
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/formpilot/formpilot"
	"github.com/formpilot/formpilot/internal/config"
	"github.com/formpilot/formpilot/internal/logging"
	"github.com/formpilot/formpilot/pkg/adapters/redis"
	"github.com/formpilot/formpilot/pkg/catalog"
)

// loadConfig reads the configuration file named by the persistent flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// buildAssistant assembles the Assistant from configuration: catalog
// source, session backend and engine tuning.
func buildAssistant(cfg *config.Config, logger *slog.Logger) (*formpilot.Assistant, error) {
	opts := []formpilot.Option{formpilot.WithLogger(logger)}

	if cfg.CatalogPath != "" {
		cat, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", cfg.CatalogPath, err)
		}
		opts = append(opts, formpilot.WithCatalog(cat))
	}
	if cfg.DefaultSuggestion != "" {
		opts = append(opts, formpilot.WithDefaultSuggestion(cfg.DefaultSuggestion))
	}
	if cfg.DateLayout != "" {
		opts = append(opts, formpilot.WithDateLayout(cfg.DateLayout))
	}

	if cfg.Redis.Enabled {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redis.NewFromClient(client, redis.WithTTL(cfg.SessionTTL.Std()))
		locker := redis.NewLocker(client, "formpilot:")
		opts = append(opts, formpilot.WithStore(store), formpilot.WithLocker(locker))
		logger.Info("using redis session backend", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	}

	return formpilot.New(opts...)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.LogLevel))
}

package cmd

import (
	"context"
	"fmt"

	"github.com/dbsmedya/objectgraph/internal/config"
	"github.com/dbsmedya/objectgraph/internal/database"
	"github.com/dbsmedya/objectgraph/internal/discovery"
	"github.com/dbsmedya/objectgraph/internal/logger"
	"github.com/dbsmedya/objectgraph/internal/schema"
	"github.com/dbsmedya/objectgraph/internal/store"
)

// loadConfig loads the configuration file, applies CLI overrides and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.Strategy, overrides.ObjectLimit, overrides.DepthLimit, overrides.DepthLimitSet)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// app holds the components a store-backed command works with.
type app struct {
	log     *logger.Logger
	db      *database.Manager
	store   *store.SQLStore
	schema  *schema.Graph
	builder *discovery.Builder
}

// openApp connects to the store and builds the discovery engine.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	g, err := schema.Load(cfg.Schema.EdgeFile)
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded schema: %d types, %d edges", len(g.Types()), g.EdgeCount())

	dbManager := database.NewManager(&cfg.Store)
	if err := dbManager.Connect(ctx); err != nil {
		return nil, err
	}

	st, err := dbManager.Store()
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	builder, err := discovery.NewBuilder(g, schema.NewFieldResolver(cfg.Schema.IrregularTypes), st)
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to create discovery engine: %w", err)
	}
	builder.SetLogger(log)
	builder.SetLookupTimeout(cfg.Traversal.LookupTimeout)

	return &app{
		log:     log,
		db:      dbManager,
		store:   st,
		schema:  g,
		builder: builder,
	}, nil
}

// Close releases the store connection and flushes the logger.
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warnf("Failed to close store connection: %v", err)
	}
	_ = a.log.Sync()
}

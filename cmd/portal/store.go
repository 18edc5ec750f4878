package main

import (
	"context"
	"fmt"

	"github.com/portalcliente/portal-api/internal/core/ports"
	"github.com/portalcliente/portal-api/internal/infrastructure/config"
	"github.com/portalcliente/portal-api/internal/infrastructure/db/mongo"
	"github.com/portalcliente/portal-api/internal/infrastructure/db/postgres"
	"github.com/portalcliente/portal-api/internal/infrastructure/http/handlers"
)

// store is the persistence backend selected by STORE_DRIVER.
type store struct {
	name     string
	users    ports.UserRepository
	requests ports.RequestRepository
	audit    ports.AuditRepository
	pinger   handlers.Pinger
	// prepare creates indexes or applies migrations.
	prepare func(ctx context.Context) error
	close   func(ctx context.Context)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, err
		}
		s := postgres.NewStore(pool)
		return &store{
			name:     "postgres",
			users:    s.Users,
			requests: s.Requests,
			audit:    s.Audit,
			pinger:   s,
			prepare:  func(context.Context) error { return s.Migrate() },
			close:    func(context.Context) { s.Close() },
		}, nil

	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDB})
		if err != nil {
			return nil, err
		}
		s := mongo.NewStore(db)
		return &store{
			name:     "mongodb",
			users:    s.Users,
			requests: s.Requests,
			audit:    s.Audit,
			pinger:   s,
			prepare:  s.EnsureIndexes,
			close:    func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

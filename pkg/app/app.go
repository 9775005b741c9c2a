// Package app assembles the storefront dependencies from a Config. Both
// binaries start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/address"
	"storefront/pkg/api"
	"storefront/pkg/config"
	"storefront/pkg/events"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
	"storefront/pkg/storage"
	"storefront/pkg/storage/memory"
	"storefront/pkg/storage/redis"
	"storefront/pkg/storage/sqldb"
)

// App holds the long-lived dependencies.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Tracer    trace.Tracer
	API       *api.Client
	Store     storage.Store
	Address   *address.Client
	Publisher events.Publisher

	closers []func(context.Context) error
}

// New wires everything cfg describes. Logs go to w. On error, whatever was
// already opened is closed.
func New(ctx context.Context, cfg *config.Config, w io.Writer) (_ *App, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			a.Close(ctx)
		}
	}()

	a.Log = logger.New(w, logger.ParseLevel(cfg.LogLevel), cfg.ServiceName, otel.GetTraceID)
	a.closers = append(a.closers, func(context.Context) error {
		a.Log.Sync()
		return nil
	})

	tp, shutdown, err := otel.InitTracing(a.Log, otel.Config{
		ServiceName: cfg.ServiceName,
		Host:        cfg.Tracing.Host,
		Probability: cfg.Tracing.Probability,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.closers = append(a.closers, shutdown)
	a.Tracer = tp.Tracer(cfg.ServiceName)

	a.API = api.New(cfg.API.BaseURL, api.WithTimeout(cfg.APITimeout()), api.WithLogger(a.Log))
	a.Address = address.New(cfg.AddressURL, nil)

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, func(context.Context) error { return closeStore() })

	a.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		k, err := events.DialKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, a.Log)
		if err != nil {
			return nil, err
		}
		a.Publisher = k
		a.closers = append(a.closers, func(context.Context) error { return k.Close() })
	}

	a.Log.Info(ctx, "storefront configured",
		"api", a.API.BaseURL(),
		"storage", cfg.Storage.Driver,
		"kafka", len(cfg.Kafka.Brokers) > 0,
		"tracing", cfg.Tracing.Host != "",
	)
	return a, nil
}

// OpenStore opens the configured storage backend and returns its close
// function.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.New(), func() error { return nil }, nil
	case config.StorageRedis:
		s, err := redis.Dial(ctx, cfg.Storage.RedisAddr,
			redis.WithNamespace(cfg.ServiceName+":"),
			redis.WithTTL(cfg.SessionTTL()),
		)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoragePostgres:
		s, err := sqldb.Open(ctx, sqldb.DriverPostgres, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorageSQLite:
		s, err := sqldb.Open(ctx, sqldb.DriverSQLite, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Close releases everything in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

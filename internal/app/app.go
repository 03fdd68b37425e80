package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/expense"
	"github.com/MrJamesThe3rd/tally/internal/export"
	"github.com/MrJamesThe3rd/tally/internal/kv"
	"github.com/MrJamesThe3rd/tally/internal/kv/file"
	"github.com/MrJamesThe3rd/tally/internal/kv/memcache"
	"github.com/MrJamesThe3rd/tally/internal/kv/memory"
	kvStore "github.com/MrJamesThe3rd/tally/internal/kv/store"
	"github.com/MrJamesThe3rd/tally/internal/settings"
	"github.com/MrJamesThe3rd/tally/internal/sink"
	"github.com/MrJamesThe3rd/tally/internal/tracker"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// App owns the storage backend and the services built on it.
type App struct {
	Tracker *tracker.Service

	closers []func() error
}

// New opens the configured storage backend, builds the services and hydrates
// them. A ledger or settings read failure is logged and does not prevent
// startup.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	store, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		ledger      = expense.NewLedger(store, expense.WithLogger(logger))
		settingsSvc = settings.NewService(store, logger)
		sinkClient  = sink.NewClient(cfg.Sync.Timeout, logger)
		exportSvc   = export.NewService(ledger)
	)

	a.Tracker = tracker.NewService(ledger, settingsSvc, sinkClient, exportSvc, logger)

	if err := a.Tracker.Load(ctx); err != nil {
		logger.Warn("starting with partial state", "error", err)
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kv.Store, error) {
	logger.Info("opening storage", "backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case kv.BackendFile:
		s, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("opening file storage: %w", err)
		}

		return s, nil
	case kv.BackendPostgres:
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("opening postgres storage: %w", err)
		}

		a.closers = append(a.closers, db.Close)

		s := kvStore.New(db)
		if err := s.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating postgres storage: %w", err)
		}

		return s, nil
	case kv.BackendMemcache:
		s, err := memcache.New(cfg.Memcache.Hosts...)
		if err != nil {
			return nil, fmt.Errorf("opening memcache storage: %w", err)
		}

		return s, nil
	case kv.BackendMemory:
		logger.Warn("memory storage does not survive restarts")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
}

// Close waits for pending work and releases the storage backend.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.Tracker != nil {
		if err := a.Tracker.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

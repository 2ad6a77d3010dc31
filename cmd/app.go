package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Tiliavir/work-tracker/internal/backup"
	"github.com/Tiliavir/work-tracker/internal/config"
	"github.com/Tiliavir/work-tracker/internal/logging"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/queue"
	"github.com/Tiliavir/work-tracker/internal/records"
	"github.com/Tiliavir/work-tracker/internal/render"
	"github.com/Tiliavir/work-tracker/internal/storage"
)

// nowFunc is the wall clock used by every command.
var nowFunc = time.Now

// App holds the services shared by all commands for one invocation.
type App struct {
	Config  config.Config
	Store   storage.Store
	Records *records.Service
	Queue   *queue.Queue
	Mirror  *backup.Mirror
}

// storageError marks failures of the local store. They exit with code 2.
type storageError struct{ err error }

func (e *storageError) Error() string { return e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

// newApp opens the store selected by cfg and wires the services on top.
func newApp(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := storage.Open(cfg.Storage.Backend, cfg.Home, cfg.Storage.Path)
	if err != nil {
		return nil, &storageError{fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)}
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Mirror: backup.NewMirror(cfg.Backup.MirrorDir),
	}
	a.Queue = queue.New(store, a.Mirror, a.Mirror.Online)
	if err := a.Queue.Load(ctx); err != nil {
		slog.Warn("Could not restore offline queue", "error", err)
	}

	a.Records = records.New(storage.NewRepository(store),
		records.WithClock(nowFunc),
		records.OnChange(a.snapshot),
	)
	a.Records.Refresh(ctx)

	a.Reconnect(ctx)
	return a, nil
}

// snapshot runs after every successful write: it refreshes the automatic
// backup and queues a copy for the mirror directory.
func (a *App) snapshot(ctx context.Context, recs []model.WorkRecord) {
	if err := backup.AutoBackup(ctx, a.Store, recs, nowFunc()); err != nil {
		slog.Warn("Auto backup failed", "error", err)
	}
	if a.Config.Backup.MirrorDir == "" {
		return
	}
	if _, err := a.Queue.Add(ctx, backup.ActionSnapshot, recs); err != nil {
		slog.Warn("Could not queue snapshot", "error", err)
	}
}

// Reconnect drains the offline queue if the mirror is reachable.
func (a *App) Reconnect(ctx context.Context) {
	if a.Queue.Size() == 0 || !a.Mirror.Online() {
		return
	}
	n, err := a.Queue.Drain(ctx)
	if err != nil {
		slog.Warn("Offline queue drain stopped", "processed", n, "pending", a.Queue.Size(), "error", err)
		return
	}
	slog.Info("Offline queue drained", "processed", n)
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// setup loads config, installs the logger and builds the App.
func setup(ctx context.Context, forcePlain bool) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &storageError{err}
	}
	if _, err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		slog.Warn("Falling back to info logging", "error", err)
	}
	render.SetPlain(forcePlain || render.DetectPlain(os.Stdout))
	slog.Debug("Config loaded", "home", cfg.Home, "backend", cfg.Storage.Backend)
	return newApp(ctx, cfg)
}

// exitCode maps an error to the process exit status: 2 for storage
// failures, 1 for everything else.
func exitCode(err error) int {
	var serr *storageError
	if errors.As(err, &serr) || errors.Is(err, records.ErrStorage) {
		return 2
	}
	return 1
}

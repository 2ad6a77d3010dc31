package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Tiliavir/work-tracker/internal/model"
)

// RecordsKey is the store key holding the JSON array of work records.
const RecordsKey = "work-records"

// Repository reads and writes the whole record collection.
type Repository struct {
	store Store
	key   string
}

// NewRepository returns a Repository over store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store, key: RecordsKey}
}

// Store returns the underlying store.
func (r *Repository) Store() Store { return r.store }

// Load returns the stored collection. Read and decode failures are logged
// and yield an empty collection. Records saved before work types existed
// are migrated to "work" and written back once.
func (r *Repository) Load(ctx context.Context) []model.WorkRecord {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return []model.WorkRecord{}
	}
	if err != nil {
		slog.Error("Failed to load work records", "key", r.key, "error", err)
		return []model.WorkRecord{}
	}

	var records []model.WorkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		backupKey := r.key + ".corrupt"
		slog.Error("Corrupt work records, starting empty", "key", r.key, "backup", backupKey, "error", err)
		if setErr := r.store.Set(ctx, backupKey, data); setErr != nil {
			slog.Warn("Could not keep corrupt work records", "key", backupKey, "error", setErr)
		}
		return []model.WorkRecord{}
	}
	if records == nil {
		records = []model.WorkRecord{}
	}

	migrated, changed := Migrate(records)
	if changed {
		if err := r.Save(ctx, migrated); err != nil {
			slog.Warn("Could not write migrated work records", "error", err)
		} else {
			slog.Info("Migrated work records without a work type", "count", len(migrated))
		}
	}
	return migrated
}

// Save replaces the stored collection.
func (r *Repository) Save(ctx context.Context, records []model.WorkRecord) error {
	if records == nil {
		records = []model.WorkRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving work records: %w", err)
	}
	return nil
}

// Migrate fills in the work type of legacy records. It reports whether
// anything changed; running it twice changes nothing the second time.
func Migrate(records []model.WorkRecord) ([]model.WorkRecord, bool) {
	changed := false
	out := make([]model.WorkRecord, len(records))
	for i, rec := range records {
		if rec.WorkType == "" {
			rec.WorkType = model.WorkTypeWork
			changed = true
		}
		out[i] = rec
	}
	return out, changed
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the Store for backend. dir is the data directory; path,
// when set, overrides the SQLite database file.
func Open(backend, dir, path string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		if path == "" {
			path = filepath.Join(dir, "wtt.db")
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

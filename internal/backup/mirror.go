package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/queue"
)

// ActionSnapshot is the queue action carrying a full record collection.
const ActionSnapshot = "snapshot"

// Mirror copies snapshots into a directory outside the data dir, such as
// a synced folder or a mounted share. One file is kept per day.
type Mirror struct {
	Dir string
}

// NewMirror returns a Mirror writing into dir.
func NewMirror(dir string) *Mirror {
	return &Mirror{Dir: dir}
}

// Online reports whether the mirror directory is reachable.
func (m *Mirror) Online() bool {
	if m == nil || m.Dir == "" {
		return false
	}
	info, err := os.Stat(m.Dir)
	return err == nil && info.IsDir()
}

// Process writes the snapshot carried by a. It implements queue.Processor.
func (m *Mirror) Process(_ context.Context, a queue.Action) error {
	if a.Type != ActionSnapshot {
		slog.Warn("Skipping unknown queue action", "type", a.Type, "id", a.ID)
		return nil
	}
	var records []model.WorkRecord
	if err := json.Unmarshal(a.Data, &records); err != nil {
		return fmt.Errorf("decoding snapshot %s: %w", a.ID, err)
	}

	path := filepath.Join(m.Dir, FileName(a.Timestamp))
	data, err := json.MarshalIndent(New(records, a.Timestamp), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot %s: %w", a.ID, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing mirror file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming mirror file: %w", err)
	}
	slog.Debug("Mirrored snapshot", "path", path, "records", len(records))
	return nil
}

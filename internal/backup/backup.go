// Package backup reads and writes the portable backup document and keeps
// automatic snapshots of the record collection.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/storage"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

const (
	// Version is written into every backup document.
	Version = "1.0.0"
	// AppName is written into every backup document.
	AppName = "Work Tracker"
	// DateLayout formats backupDate.
	DateLayout = "2006. 01. 02. 15:04:05"

	AutoBackupKey = storage.RecordsKey + "_auto_backup"
	LastBackupKey = storage.RecordsKey + "_last_backup"
)

// ValidationError rejects a whole backup document.
type ValidationError struct {
	// Record is the index of the offending record, or -1 for the document.
	Record  int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Record < 0 {
		return "invalid backup: " + e.Message
	}
	return fmt.Sprintf("invalid backup: record %d: %s", e.Record, e.Message)
}

func docError(format string, args ...any) error {
	return &ValidationError{Record: -1, Message: fmt.Sprintf(format, args...)}
}

func recordError(i int, format string, args ...any) error {
	return &ValidationError{Record: i, Message: fmt.Sprintf(format, args...)}
}

// New builds a backup document for records taken at now.
func New(records []model.WorkRecord, now time.Time) model.Backup {
	return model.Backup{
		Records:    model.CloneRecords(records),
		BackupDate: now.In(timecalc.Location).Format(DateLayout),
		Version:    Version,
		AppName:    AppName,
	}
}

// FileName returns the conventional file name for a backup taken at now.
func FileName(now time.Time) string {
	return "work-tracker-backup-" + timecalc.FormatDate(now) + ".json"
}

// Validate decodes data and checks every record. Any failure rejects the
// whole document.
func Validate(data []byte) (*model.Backup, error) {
	var doc struct {
		Records    json.RawMessage `json:"records"`
		BackupDate string          `json:"backupDate"`
		Version    string          `json:"version"`
		AppName    string          `json:"appName"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, docError("not a JSON backup document: %v", err)
	}
	raw := bytes.TrimSpace(doc.Records)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, docError("records field is missing")
	}
	if raw[0] != '[' {
		return nil, docError("records field is not an array")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, docError("records field is malformed: %v", err)
	}

	out := &model.Backup{
		Records:    make([]model.WorkRecord, 0, len(elems)),
		BackupDate: doc.BackupDate,
		Version:    doc.Version,
		AppName:    doc.AppName,
	}
	seen := make(map[string]int, len(elems))
	for i, elem := range elems {
		var rec model.WorkRecord
		if err := json.Unmarshal(elem, &rec); err != nil {
			return nil, recordError(i, "malformed record: %v", err)
		}
		if err := validateRecord(rec); err != nil {
			return nil, recordError(i, "%s", err)
		}
		if j, dup := seen[rec.Date]; dup {
			return nil, recordError(i, "date %s already used by record %d", rec.Date, j)
		}
		seen[rec.Date] = i
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func validateRecord(rec model.WorkRecord) error {
	if rec.ID == "" {
		return errors.New("missing id")
	}
	if rec.Date == "" {
		return errors.New("missing date")
	}
	if rec.WorkType != "" && !rec.WorkType.Valid() {
		return fmt.Errorf("unknown work type %q", rec.WorkType)
	}
	if rec.ClockIn != nil && *rec.ClockIn != "" && !timecalc.IsValidClock(*rec.ClockIn) {
		return fmt.Errorf("clockIn %q is not HH:MM", *rec.ClockIn)
	}
	if rec.ClockOut != nil && *rec.ClockOut != "" && !timecalc.IsValidClock(*rec.ClockOut) {
		return fmt.Errorf("clockOut %q is not HH:MM", *rec.ClockOut)
	}
	return nil
}

// Export writes a backup document of records to w.
func Export(w io.Writer, records []model.WorkRecord, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(New(records, now)); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// Replacer swaps the whole record collection.
type Replacer interface {
	Replace(ctx context.Context, records []model.WorkRecord) error
}

// Import validates the document read from r and, only if it is valid,
// replaces the collection held by dst with its records. Derived fields
// are recomputed, so a hand-edited totalHours does not survive.
func Import(ctx context.Context, r io.Reader, dst Replacer) ([]model.WorkRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}
	doc, err := Validate(data)
	if err != nil {
		return nil, err
	}
	for i := range doc.Records {
		hours.Normalize(&doc.Records[i])
	}
	if err := dst.Replace(ctx, doc.Records); err != nil {
		return nil, fmt.Errorf("restoring backup: %w", err)
	}
	return doc.Records, nil
}

// AutoBackup stores a snapshot of records and the time it was taken.
func AutoBackup(ctx context.Context, store storage.Store, records []model.WorkRecord, now time.Time) error {
	doc := New(records, now)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding auto backup: %w", err)
	}
	if err := store.Set(ctx, AutoBackupKey, data); err != nil {
		return fmt.Errorf("writing auto backup: %w", err)
	}
	if err := store.Set(ctx, LastBackupKey, []byte(doc.BackupDate)); err != nil {
		return fmt.Errorf("writing auto backup time: %w", err)
	}
	return nil
}

// LastAutoBackup returns when the last automatic snapshot was taken.
// ok is false if none exists.
func LastAutoBackup(ctx context.Context, store storage.Store) (at time.Time, ok bool, err error) {
	data, err := store.Get(ctx, LastBackupKey)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	at, err = time.ParseInLocation(DateLayout, string(data), timecalc.Location)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unreadable auto backup time %q: %w", data, err)
	}
	return at, true, nil
}

// LoadAutoBackup returns the last automatic snapshot.
func LoadAutoBackup(ctx context.Context, store storage.Store) (*model.Backup, error) {
	data, err := store.Get(ctx, AutoBackupKey)
	if err != nil {
		return nil, err
	}
	return Validate(data)
}

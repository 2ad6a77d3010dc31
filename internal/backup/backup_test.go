package backup_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-tracker/internal/backup"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/queue"
	"github.com/Tiliavir/work-tracker/internal/storage"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

var now = time.Date(2026, 10, 16, 15, 4, 5, 0, timecalc.Location)

func sampleRecords() []model.WorkRecord {
	return []model.WorkRecord{
		{ID: "1", Date: "2026-10-12", WorkType: model.WorkTypeWork, ClockIn: model.StringPtr("09:00"), ClockOut: model.StringPtr("18:00"), TotalHours: model.FloatPtr(8)},
		{ID: "2", Date: "2026-10-13", WorkType: model.WorkTypeAnnualLeave, TotalHours: model.FloatPtr(8)},
		{ID: "3", Date: "2026-10-14", WorkType: model.WorkTypeMorningHalf, ClockIn: model.StringPtr("13:00"), ClockOut: model.StringPtr("18:00"), TotalHours: model.FloatPtr(8)},
		{ID: "4", Date: "2026-10-15", WorkType: model.WorkTypeAfternoonHalf, TotalHours: model.FloatPtr(4)},
		{ID: "5", Date: "2026-10-16", WorkType: model.WorkTypeWork, ClockIn: model.StringPtr("08:30")},
	}
}

type sink struct {
	records []model.WorkRecord
	err     error
	calls   int
}

func (s *sink) Replace(_ context.Context, records []model.WorkRecord) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.records = records
	return nil
}

func TestNew(t *testing.T) {
	doc := backup.New(nil, now)
	assert.Equal(t, "2026. 10. 16. 15:04:05", doc.BackupDate)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.Equal(t, "Work Tracker", doc.AppName)
	assert.NotNil(t, doc.Records)
	assert.Equal(t, "work-tracker-backup-2026-10-16.json", backup.FileName(now))
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, backup.Export(&buf, sampleRecords(), now))

	dst := &sink{}
	got, err := backup.Import(context.Background(), &buf, dst)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
	assert.Equal(t, sampleRecords(), dst.records)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "empty records", doc: `{"records":[]}`},
		{name: "legacy record without work type", doc: `{"records":[{"id":"1","date":"2026-10-12","clockIn":"09:00"}]}`},
		{name: "empty clock is treated as absent", doc: `{"records":[{"id":"1","date":"2026-10-12","clockIn":""}]}`},
		{name: "not json", doc: `hello`, wantErr: "not a JSON backup document"},
		{name: "records missing", doc: `{"version":"1.0.0"}`, wantErr: "records field is missing"},
		{name: "records null", doc: `{"records":null}`, wantErr: "records field is missing"},
		{name: "records not an array", doc: `{"records":{"id":"1"}}`, wantErr: "not an array"},
		{name: "missing id", doc: `{"records":[{"date":"2026-10-12"}]}`, wantErr: "record 0: missing id"},
		{name: "missing date", doc: `{"records":[{"id":"1","date":"2026-10-12"},{"id":"2"}]}`, wantErr: "record 1: missing date"},
		{name: "bad clock in", doc: `{"records":[{"id":"1","date":"2026-10-12","clockIn":"9:00"}]}`, wantErr: "clockIn"},
		{name: "bad clock out", doc: `{"records":[{"id":"1","date":"2026-10-12","clockOut":"18h"}]}`, wantErr: "clockOut"},
		{name: "unknown work type", doc: `{"records":[{"id":"1","date":"2026-10-12","workType":"sick"}]}`, wantErr: "unknown work type"},
		{name: "wrong field type", doc: `{"records":[{"id":1,"date":"2026-10-12"}]}`, wantErr: "malformed record"},
		{name: "duplicate date", doc: `{"records":[{"id":"1","date":"2026-10-12"},{"id":"2","date":"2026-10-12"}]}`, wantErr: "already used by record 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := backup.Validate([]byte(tt.doc))
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotNil(t, doc.Records)
				return
			}
			var verr *backup.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportRejectsWithoutReplacing(t *testing.T) {
	dst := &sink{}
	_, err := backup.Import(context.Background(), strings.NewReader(`{"records":[{"id":"1"}]}`), dst)
	require.Error(t, err)
	assert.Equal(t, 0, dst.calls)
}

func TestImportRecomputesDerivedFields(t *testing.T) {
	doc := `{"records":[
		{"id":"1","date":"2026-10-12","workType":"annual_leave","clockIn":"09:00"},
		{"id":"2","date":"2026-10-13","workType":"work","clockIn":"09:00","clockOut":"18:00","totalHours":2},
		{"id":"3","date":"2026-10-14","workType":"afternoon_half","clockIn":"","clockOut":""}
	]}`
	dst := &sink{}
	got, err := backup.Import(context.Background(), strings.NewReader(doc), dst)
	require.NoError(t, err)
	require.Len(t, dst.records, 3)
	assert.Equal(t, got, dst.records)

	leave := dst.records[0]
	assert.Nil(t, leave.ClockIn)
	require.NotNil(t, leave.TotalHours)
	assert.Equal(t, 8.0, *leave.TotalHours)

	work := dst.records[1]
	require.NotNil(t, work.TotalHours)
	assert.Equal(t, 8.0, *work.TotalHours)

	half := dst.records[2]
	assert.Nil(t, half.ClockIn)
	assert.Nil(t, half.ClockOut)
	require.NotNil(t, half.TotalHours)
	assert.Equal(t, 4.0, *half.TotalHours)
}

func TestImportReplaceFailure(t *testing.T) {
	dst := &sink{err: errors.New("disk full")}
	_, err := backup.Import(context.Background(), strings.NewReader(`{"records":[]}`), dst)
	assert.ErrorContains(t, err, "disk full")
}

func TestAutoBackup(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	_, ok, err := backup.LastAutoBackup(ctx, store)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backup.AutoBackup(ctx, store, sampleRecords(), now))

	at, ok, err := backup.LastAutoBackup(ctx, store)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(now))

	doc, err := backup.LoadAutoBackup(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), doc.Records)
}

func TestMirrorAsQueueProcessor(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mirrorDir := filepath.Join(dir, "sync")
	m := backup.NewMirror(mirrorDir)
	assert.False(t, m.Online())

	q := queue.New(storage.NewMemoryStore(), m, m.Online)
	_, err := q.Add(ctx, backup.ActionSnapshot, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 1, q.Size(), "mirror directory does not exist yet")

	require.NoError(t, os.MkdirAll(mirrorDir, 0o700))
	assert.True(t, m.Online())
	n, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	files, err := filepath.Glob(filepath.Join(mirrorDir, "work-tracker-backup-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	doc, err := backup.Validate(data)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), doc.Records)
}

func TestMirrorSkipsUnknownActions(t *testing.T) {
	m := backup.NewMirror(t.TempDir())
	err := m.Process(context.Background(), queue.Action{Type: "other"})
	assert.NoError(t, err)
}

func TestNilMirrorIsOffline(t *testing.T) {
	var m *backup.Mirror
	assert.False(t, m.Online())
}

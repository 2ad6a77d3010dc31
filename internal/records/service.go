// Package records owns the in-memory view of the work record collection
// and every mutation applied to it.
//
// Each mutation computes the next collection, writes it in full through
// the repository and only then swaps the cached view, so a failed write
// leaves the view untouched.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/work-tracker/internal/hours"
	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/progress"
	"github.com/Tiliavir/work-tracker/internal/storage"
	"github.com/Tiliavir/work-tracker/internal/timecalc"
)

// ChangeFunc is called after every successful write with a copy of the
// new collection.
type ChangeFunc func(ctx context.Context, records []model.WorkRecord)

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides record id generation.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// OnChange registers fn to run after each successful write.
func OnChange(fn ChangeFunc) Option {
	return func(s *Service) { s.onChange = append(s.onChange, fn) }
}

// Service is the materialized view of the record collection.
type Service struct {
	repo     *storage.Repository
	now      func() time.Time
	newID    func() string
	onChange []ChangeFunc

	mu      sync.RWMutex
	records []model.WorkRecord
}

// New returns a Service backed by repo. Call Refresh to populate it.
func New(repo *storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		now:     time.Now,
		newID:   uuid.NewString,
		records: []model.WorkRecord{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the view from the store.
func (s *Service) Refresh(ctx context.Context) {
	loaded := s.repo.Load(ctx)
	s.mu.Lock()
	s.records = loaded
	s.mu.Unlock()
}

// Now returns the current time in the tracker's fixed zone.
func (s *Service) Now() time.Time {
	return s.now().In(timecalc.Location)
}

// Records returns a copy of the collection sorted by date.
func (s *Service) Records() []model.WorkRecord {
	s.mu.RLock()
	out := model.CloneRecords(s.records)
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Lookup returns the record for date.
func (s *Service) Lookup(date string) (model.WorkRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByDate(s.records, date); i >= 0 {
		return s.records[i].Clone(), true
	}
	return model.WorkRecord{}, false
}

// Get returns the record with id.
func (s *Service) Get(id string) (model.WorkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexByID(s.records, id); i >= 0 {
		return s.records[i].Clone(), nil
	}
	return model.WorkRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Today returns today's record, if any.
func (s *Service) Today() (model.WorkRecord, bool) {
	return s.Lookup(timecalc.FormatDate(s.Now()))
}

// ClockIn records the current time as today's clock-in. An existing
// record for today keeps its id and type; its clock-out is cleared.
func (s *Service) ClockIn(ctx context.Context) (model.WorkRecord, error) {
	now := s.Now()
	date := timecalc.FormatDate(now)
	clock := timecalc.FormatClock(now)

	return s.mutate(ctx, func(records []model.WorkRecord) ([]model.WorkRecord, int, error) {
		i := indexByDate(records, date)
		if i < 0 {
			records = append(records, model.WorkRecord{
				ID:       s.newID(),
				Date:     date,
				WorkType: model.WorkTypeWork,
			})
			i = len(records) - 1
		}
		rec := &records[i]
		if rec.WorkType == model.WorkTypeAnnualLeave {
			return nil, 0, ErrAnnualLeaveDay
		}
		rec.ClockIn = model.StringPtr(clock)
		rec.ClockOut = nil
		hours.Apply(rec)
		return records, i, nil
	})
}

// ClockOut records the current time as today's clock-out.
func (s *Service) ClockOut(ctx context.Context) (model.WorkRecord, error) {
	now := s.Now()
	date := timecalc.FormatDate(now)
	clock := timecalc.FormatClock(now)

	return s.mutate(ctx, func(records []model.WorkRecord) ([]model.WorkRecord, int, error) {
		i := indexByDate(records, date)
		if i < 0 || records[i].ClockIn == nil {
			return nil, 0, ErrNotClockedIn
		}
		rec := &records[i]
		if rec.ClockOut != nil {
			return nil, 0, ErrAlreadyClockedOut
		}
		rec.ClockOut = model.StringPtr(clock)
		hours.Apply(rec)
		return records, i, nil
	})
}

// SetWorkType classifies date as wt. An existing record for date is
// overwritten in place and keeps its id.
func (s *Service) SetWorkType(ctx context.Context, date string, wt model.WorkType) (model.WorkRecord, error) {
	if _, err := timecalc.ParseDate(date); err != nil {
		return model.WorkRecord{}, &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", date)}
	}
	if !wt.Valid() {
		return model.WorkRecord{}, &ValidationError{Field: "workType", Message: fmt.Sprintf("unknown work type %q", wt)}
	}

	return s.mutate(ctx, func(records []model.WorkRecord) ([]model.WorkRecord, int, error) {
		i := indexByDate(records, date)
		if i < 0 {
			records = append(records, model.WorkRecord{ID: s.newID(), Date: date})
			i = len(records) - 1
		}
		records[i].WorkType = wt
		hours.Apply(&records[i])
		return records, i, nil
	})
}

// RecordUpdate holds the editable fields of a record. Nil fields are left
// unchanged; an empty clock string clears that clock.
type RecordUpdate struct {
	ClockIn  *string
	ClockOut *string
	WorkType *model.WorkType
}

// Update edits the record with id. Clock-out must be later than clock-in.
func (s *Service) Update(ctx context.Context, id string, u RecordUpdate) (model.WorkRecord, error) {
	clocks := []struct {
		field string
		value *string
	}{
		{"clockIn", u.ClockIn},
		{"clockOut", u.ClockOut},
	}
	for _, c := range clocks {
		if c.value == nil || *c.value == "" {
			continue
		}
		if _, err := timecalc.ToMinutes(*c.value); err != nil {
			return model.WorkRecord{}, &ValidationError{Field: c.field, Message: fmt.Sprintf("%q is not an HH:MM time", *c.value)}
		}
	}
	if u.WorkType != nil && !u.WorkType.Valid() {
		return model.WorkRecord{}, &ValidationError{Field: "workType", Message: fmt.Sprintf("unknown work type %q", *u.WorkType)}
	}

	return s.mutate(ctx, func(records []model.WorkRecord) ([]model.WorkRecord, int, error) {
		i := indexByID(records, id)
		if i < 0 {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		rec := &records[i]
		if u.WorkType != nil {
			rec.WorkType = *u.WorkType
		}
		rec.ClockIn = merge(rec.ClockIn, u.ClockIn)
		rec.ClockOut = merge(rec.ClockOut, u.ClockOut)
		if rec.WorkType != model.WorkTypeAnnualLeave && rec.ClockIn != nil && rec.ClockOut != nil {
			in, _ := timecalc.ToMinutes(*rec.ClockIn)
			out, _ := timecalc.ToMinutes(*rec.ClockOut)
			if out <= in {
				return nil, 0, &ValidationError{Field: "clockOut", Message: "clock-out must be later than clock-in"}
			}
		}
		hours.Apply(rec)
		return records, i, nil
	})
}

func merge(current, update *string) *string {
	switch {
	case update == nil:
		return current
	case *update == "":
		return nil
	default:
		return model.StringPtr(*update)
	}
}

// Delete removes the record with id.
func (s *Service) Delete(ctx context.Context, id string) (model.WorkRecord, error) {
	s.mu.Lock()
	i := indexByID(s.records, id)
	if i < 0 {
		s.mu.Unlock()
		return model.WorkRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	removed := s.records[i].Clone()
	next := make([]model.WorkRecord, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return model.WorkRecord{}, err
	}
	s.notify(ctx)
	return removed, nil
}

// Replace swaps the whole collection, as done by a backup import. Each
// record is normalized first so TotalHours always matches its clock
// times and type.
func (s *Service) Replace(ctx context.Context, records []model.WorkRecord) error {
	next := model.CloneRecords(records)
	for i := range next {
		hours.Normalize(&next[i])
	}
	s.mu.Lock()
	err := s.commitLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

// Week summarizes the week at offset from today against target hours.
func (s *Service) Week(offset int, target float64) progress.Week {
	return progress.Summarize(s.Records(), s.Now(), offset, target)
}

// CurrentElapsed returns the break-adjusted hours worked so far on the
// open record for the day of now. ok is false when no record is open.
func (s *Service) CurrentElapsed(now time.Time) (worked float64, ok bool) {
	now = now.In(timecalc.Location)
	rec, found := s.Lookup(timecalc.FormatDate(now))
	if !found || !rec.IsOpen() {
		return 0, false
	}
	return hours.Worked(*rec.ClockIn, timecalc.FormatClock(now)), true
}

// mutate runs fn on a copy of the collection and commits the result. fn
// returns the next collection and the index of the record it touched.
func (s *Service) mutate(ctx context.Context, fn func([]model.WorkRecord) ([]model.WorkRecord, int, error)) (model.WorkRecord, error) {
	s.mu.Lock()
	next, i, err := fn(model.CloneRecords(s.records))
	if err != nil {
		s.mu.Unlock()
		return model.WorkRecord{}, err
	}
	if err := s.commitLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return model.WorkRecord{}, err
	}
	rec := next[i].Clone()
	s.mu.Unlock()

	s.notify(ctx)
	return rec, nil
}

func (s *Service) commitLocked(ctx context.Context, next []model.WorkRecord) error {
	if err := s.repo.Save(ctx, next); err != nil {
		slog.Error("Failed to save work records", "error", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.records = next
	return nil
}

func (s *Service) notify(ctx context.Context) {
	if len(s.onChange) == 0 {
		return
	}
	snapshot := s.Records()
	for _, fn := range s.onChange {
		fn(ctx, snapshot)
	}
}

func indexByDate(records []model.WorkRecord, date string) int {
	for i := range records {
		if records[i].Date == date {
			return i
		}
	}
	return -1
}

func indexByID(records []model.WorkRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

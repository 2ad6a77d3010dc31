// Package queue persists actions that must reach an external target and
// replays them in order once the target is reachable.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/work-tracker/internal/storage"
)

// StoreKey holds the pending actions.
const StoreKey = "offline-queue"

// Action is one pending unit of work.
type Action struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Processor delivers a single action.
type Processor interface {
	Process(ctx context.Context, a Action) error
}

// Queue is a FIFO of actions persisted in a Store. Create one per process.
type Queue struct {
	store  storage.Store
	proc   Processor
	online func() bool
	now    func() time.Time

	mu       sync.Mutex
	actions  []Action
	draining bool
}

// New returns an empty Queue. online reports whether proc can currently
// be reached; nil means always.
func New(store storage.Store, proc Processor, online func() bool) *Queue {
	if online == nil {
		online = func() bool { return true }
	}
	return &Queue{
		store:  store,
		proc:   proc,
		online: online,
		now:    time.Now,
	}
}

// Load restores pending actions saved by a previous process.
func (q *Queue) Load(ctx context.Context) error {
	data, err := q.store.Get(ctx, StoreKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading queue: %w", err)
	}
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return fmt.Errorf("decoding queue: %w", err)
	}
	q.mu.Lock()
	q.actions = actions
	q.mu.Unlock()
	return nil
}

// Add appends an action carrying data and drains if the target is online.
// A failed drain leaves the action queued and is only logged.
func (q *Queue) Add(ctx context.Context, typ string, data any) (Action, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Action{}, fmt.Errorf("encoding %s action: %w", typ, err)
	}
	a := Action{
		ID:        uuid.NewString(),
		Type:      typ,
		Data:      raw,
		Timestamp: q.now(),
	}

	q.mu.Lock()
	q.actions = append(q.actions, a)
	err = q.saveLocked(ctx)
	q.mu.Unlock()
	if err != nil {
		return Action{}, err
	}

	if q.online() {
		if _, err := q.Drain(ctx); err != nil {
			slog.Warn("Queue drain failed, will retry", "pending", q.Size(), "error", err)
		}
	}
	return a, nil
}

// Drain processes actions in order until the queue is empty, the target
// goes offline or an action fails. A failed action stays at the head.
// Only one drain runs at a time; a concurrent call returns immediately.
func (q *Queue) Drain(ctx context.Context) (int, error) {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return 0, nil
	}
	q.draining = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	processed := 0
	for q.online() {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		q.mu.Lock()
		if len(q.actions) == 0 {
			q.mu.Unlock()
			break
		}
		head := q.actions[0]
		q.mu.Unlock()

		if err := q.proc.Process(ctx, head); err != nil {
			return processed, fmt.Errorf("processing %s action %s: %w", head.Type, head.ID, err)
		}

		q.mu.Lock()
		q.actions = q.actions[1:]
		err := q.saveLocked(ctx)
		q.mu.Unlock()
		if err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// Size returns the number of pending actions.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Pending returns a copy of the pending actions, oldest first.
func (q *Queue) Pending() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Action(nil), q.actions...)
}

// Clear drops every pending action.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.actions = nil
	return q.saveLocked(ctx)
}

func (q *Queue) saveLocked(ctx context.Context) error {
	actions := q.actions
	if actions == nil {
		actions = []Action{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return fmt.Errorf("encoding queue: %w", err)
	}
	if err := q.store.Set(ctx, StoreKey, data); err != nil {
		return fmt.Errorf("saving queue: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/omer-studio/backend/internal/events"
	"github.com/omer-studio/backend/internal/models"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// RunManager tracks every in-flight and recently finished batch run.
// Finished runs stay queryable for the retention window and then expire from
// the cache. Every status or progress change is published on the generation
// stream so the websocket hub can forward it.
type RunManager struct {
	runs      *cache.Cache
	retention time.Duration
	publisher events.Publisher
	log       *zap.Logger
}

func NewRunManager(publisher events.Publisher, retention time.Duration, log *zap.Logger) *RunManager {
	if retention <= 0 {
		retention = time.Hour
	}
	return &RunManager{
		runs:      cache.New(retention, 10*time.Minute),
		retention: retention,
		publisher: publisher,
		log:       log,
	}
}

// Begin registers a new run and returns its handle together with the
// cancellable context every gateway call of that run must use.
func (m *RunManager) Begin(kind string) (*RunHandle, context.Context) {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()
	h := &RunHandle{
		m: m,
		run: models.Run{
			ID:        uuid.New(),
			Kind:      kind,
			Status:    models.RunStatusQueued,
			CreatedAt: now,
			UpdatedAt: now,
		},
		cancel: cancel,
	}
	m.runs.Set(h.run.ID.String(), h, cache.NoExpiration)
	return h, ctx
}

func (m *RunManager) handle(id string) (*RunHandle, bool) {
	v, ok := m.runs.Get(id)
	if !ok {
		return nil, false
	}
	h, ok := v.(*RunHandle)
	return h, ok
}

// Get returns a deep snapshot of the run state.
func (m *RunManager) Get(id string) (models.Run, bool) {
	h, ok := m.handle(id)
	if !ok {
		return models.Run{}, false
	}
	return h.Snapshot(), true
}

// Cancel signals the run's context. The orchestrator observes the
// cancellation at its next sequential step boundary and transitions the run
// to cancelled; a run that already finished is not cancellable.
func (m *RunManager) Cancel(id string) error {
	h, ok := m.handle(id)
	if !ok {
		return ErrRunNotFound
	}
	h.mu.Lock()
	terminal := models.IsTerminalRunStatus(h.run.Status)
	h.mu.Unlock()
	if terminal {
		return ErrRunFinished
	}
	h.cancel()
	return nil
}

func (m *RunManager) publish(event events.Event) {
	if m.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.publisher.Publish(ctx, events.StreamGeneration, event); err != nil {
		m.log.Warn("failed to publish run event", zap.Error(err))
	}
}

// RunHandle is the orchestrator's exclusive view of one run. All mutation
// goes through the handle so snapshots never observe torn state.
type RunHandle struct {
	m      *RunManager
	mu     sync.Mutex
	run    models.Run
	cancel context.CancelFunc
}

func (h *RunHandle) ID() string { return h.run.ID.String() }

// Snapshot returns a deep copy of the run, detached from the live result
// the orchestrator is still mutating.
func (h *RunHandle) Snapshot() models.Run {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.run
	out.Campaign = h.run.Campaign.Clone()
	out.Shots = models.CloneShots(h.run.Shots)
	return out
}

// SetStatus applies a lifecycle transition. Invalid transitions are dropped
// and logged; terminal transitions start the retention clock and emit the
// finished event.
func (h *RunHandle) SetStatus(to string) {
	h.mu.Lock()
	from := h.run.Status
	if !models.IsValidRunTransition(from, to) {
		h.mu.Unlock()
		h.m.log.Error("invalid run transition",
			zap.String("run_id", h.ID()),
			zap.String("from", from),
			zap.String("to", to),
		)
		return
	}
	h.run.Status = to
	h.run.UpdatedAt = time.Now()
	terminal := models.IsTerminalRunStatus(to)
	snapshot := h.progressEvent()
	h.mu.Unlock()

	if terminal {
		h.m.runs.Set(h.ID(), h, h.m.retention)
		snapshot.Type = events.EventRunFinished
	}
	h.m.publish(snapshot)
}

// SetProgress advances the progress indicator. Progress is monotonic: a
// lower value than the current one is ignored.
func (h *RunHandle) SetProgress(p int) {
	if p > 100 {
		p = 100
	}
	h.mu.Lock()
	if p <= h.run.Progress {
		h.mu.Unlock()
		return
	}
	h.run.Progress = p
	h.run.UpdatedAt = time.Now()
	snapshot := h.progressEvent()
	h.mu.Unlock()

	h.m.publish(snapshot)
}

// Fail finishes the run with a user-facing error message.
func (h *RunHandle) Fail(message string) {
	h.mu.Lock()
	h.run.Error = message
	h.mu.Unlock()
	h.SetStatus(models.RunStatusFailed)
}

// Mutate gives the orchestrator write access to the run's result fields.
func (h *RunHandle) Mutate(fn func(run *models.Run)) {
	h.mu.Lock()
	fn(&h.run)
	h.run.UpdatedAt = time.Now()
	h.mu.Unlock()
}

// progressEvent builds the event payload; callers hold h.mu.
func (h *RunHandle) progressEvent() events.Event {
	return events.Event{
		Type:  events.EventRunProgress,
		RunID: h.run.ID.String(),
		Payload: map[string]any{
			"kind":     h.run.Kind,
			"status":   h.run.Status,
			"progress": h.run.Progress,
			"error":    h.run.Error,
		},
	}
}

package services

import (
	"testing"
	"time"

	"github.com/omer-studio/backend/internal/events"
	"github.com/omer-studio/backend/internal/models"
	"go.uber.org/zap"
)

func TestRunManagerLifecycle(t *testing.T) {
	runs := newTestRunManager()
	h, ctx := runs.Begin(models.RunKindCampaign)

	run, ok := runs.Get(h.ID())
	if !ok {
		t.Fatal("run not registered")
	}
	if run.Status != models.RunStatusQueued {
		t.Errorf("status = %s, want queued", run.Status)
	}
	if ctx.Err() != nil {
		t.Error("fresh run context already cancelled")
	}

	h.SetStatus(models.RunStatusRunning)
	h.SetStatus(models.RunStatusSucceeded)

	run, _ = runs.Get(h.ID())
	if run.Status != models.RunStatusSucceeded {
		t.Errorf("status = %s, want succeeded", run.Status)
	}
}

func TestRunManagerInvalidTransitionDropped(t *testing.T) {
	runs := newTestRunManager()
	h, _ := runs.Begin(models.RunKindCampaign)

	h.SetStatus(models.RunStatusRunning)
	h.SetStatus(models.RunStatusSucceeded)
	h.SetStatus(models.RunStatusFailed) // terminal, must be ignored

	run, _ := runs.Get(h.ID())
	if run.Status != models.RunStatusSucceeded {
		t.Errorf("status = %s, want succeeded preserved", run.Status)
	}
}

func TestRunManagerProgressMonotonic(t *testing.T) {
	runs := newTestRunManager()
	h, _ := runs.Begin(models.RunKindPhotoshoot)

	h.SetProgress(40)
	h.SetProgress(20)
	h.SetProgress(150)

	run, _ := runs.Get(h.ID())
	if run.Progress != 100 {
		t.Errorf("progress = %d, want clamped 100 after regressions ignored", run.Progress)
	}
}

func TestRunManagerCancel(t *testing.T) {
	runs := newTestRunManager()
	h, ctx := runs.Begin(models.RunKindVideo)

	if err := runs.Cancel(h.ID()); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("run context not cancelled")
	}

	h.SetStatus(models.RunStatusCancelled)
	if err := runs.Cancel(h.ID()); err != ErrRunFinished {
		t.Errorf("cancel finished run: err = %v, want ErrRunFinished", err)
	}
	if err := runs.Cancel("no-such-run"); err != ErrRunNotFound {
		t.Errorf("cancel unknown run: err = %v, want ErrRunNotFound", err)
	}
}

func TestRunManagerPublishesEvents(t *testing.T) {
	pub := &memPublisher{}
	runs := NewRunManager(pub, time.Minute, zap.NewNop())
	h, _ := runs.Begin(models.RunKindCampaign)

	h.SetStatus(models.RunStatusRunning)
	h.SetProgress(50)
	h.SetStatus(models.RunStatusSucceeded)

	got := pub.all()
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[0].Type != events.EventRunProgress || got[1].Type != events.EventRunProgress {
		t.Errorf("intermediate events = %s, %s, want progress", got[0].Type, got[1].Type)
	}
	if got[2].Type != events.EventRunFinished {
		t.Errorf("final event = %s, want finished", got[2].Type)
	}
	for _, ev := range got {
		if ev.RunID != h.ID() {
			t.Errorf("event run id = %s, want %s", ev.RunID, h.ID())
		}
	}
}

func TestRunSnapshotDetached(t *testing.T) {
	runs := newTestRunManager()
	h, _ := runs.Begin(models.RunKindCampaign)
	h.Mutate(func(run *models.Run) { run.Campaign = testPlan() })

	snap, _ := runs.Get(h.ID())
	snap.Campaign.Posts[0].Title = "mutated"

	fresh, _ := runs.Get(h.ID())
	if fresh.Campaign.Posts[0].Title == "mutated" {
		t.Error("snapshot shares post storage with the live run")
	}
}

package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"recroute/internal/graph"
	"recroute/internal/journal"
	"recroute/internal/routing"
	"recroute/internal/session"
	"recroute/internal/teardown"
	"recroute/internal/testsupport"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func doneResult(id string, started time.Time) *session.Result {
	return &session.Result{
		RunID:    id,
		Template: "multichannel",
		State:    session.StateDone,
		Slots:    teardown.Slots{"reaper_in1": graph.PlaybackPort("REC", "in1")},
		Installed: []routing.Installed{{
			Route:  "analog-left",
			Output: graph.CapturePort("HW", "capture_FL"),
			Input:  graph.PlaybackPort("REC", "in1"),
		}},
		Skipped:    []routing.Skipped{{Route: "voice-left-effects", Reason: "slot unset: voice_output_left"}},
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Record(ctx, doneResult("run-a", base), journal.TriggerManual); err != nil {
		t.Fatalf("Record: %v", err)
	}
	failed := &session.Result{
		RunID:      "run-b",
		Template:   "analog",
		State:      session.StateFailed,
		FailedFrom: session.StateTornDown,
		Err:        &teardown.DeviceError{Device: "REC", Side: graph.Playback},
		StartedAt:  base.Add(time.Minute),
		FinishedAt: base.Add(time.Minute),
	}
	if err := store.Record(ctx, failed, journal.TriggerHotplug); err != nil {
		t.Fatalf("Record failed run: %v", err)
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-b" || runs[0].Succeeded() {
		t.Fatalf("expected newest failed run first, got %+v", runs[0])
	}
	if runs[0].FailedFrom != "torn_down" || runs[0].Trigger != journal.TriggerHotplug || runs[0].ErrorMessage == "" {
		t.Fatalf("unexpected failed run %+v", runs[0])
	}
	if !runs[1].Succeeded() || runs[1].RoutesInstalled != 1 || runs[1].RoutesSkipped != 1 || runs[1].SlotsCaptured != 1 {
		t.Fatalf("unexpected done run %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("unexpected start time %v", runs[1].StartedAt)
	}

	latest, err := store.Latest(ctx)
	if err != nil || latest == nil || latest.ID != "run-b" {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}
}

func TestOutcomesInOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	if err := store.Record(ctx, doneResult("run-a", time.Now()), journal.TriggerLaunch); err != nil {
		t.Fatalf("Record: %v", err)
	}
	outcomes, err := store.Outcomes(ctx, "run-a")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Outcome != journal.OutcomeInstalled || outcomes[0].Output != "HW:capture_FL" || outcomes[0].Input != "REC:in1" {
		t.Fatalf("unexpected installed outcome %+v", outcomes[0])
	}
	if outcomes[1].Outcome != journal.OutcomeSkipped || outcomes[1].Reason == "" {
		t.Fatalf("unexpected skipped outcome %+v", outcomes[1])
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"one", "two", "three"} {
		if err := store.Record(ctx, doneResult(id, base.Add(time.Duration(i)*time.Hour)), journal.TriggerManual); err != nil {
			t.Fatalf("Record %s: %v", id, err)
		}
	}
	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	runs, _ := store.Recent(ctx, 10)
	if len(runs) != 1 || runs[0].ID != "three" {
		t.Fatalf("unexpected remaining runs %+v", runs)
	}
	outcomes, _ := store.Outcomes(ctx, "one")
	if len(outcomes) != 0 {
		t.Fatalf("expected pruned outcomes removed, got %+v", outcomes)
	}
}

func TestRecordNilResult(t *testing.T) {
	if err := openStore(t).Record(context.Background(), nil, journal.TriggerManual); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	if err := store.Record(context.Background(), doneResult("run-a", time.Now()), journal.TriggerManual); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := journal.OpenPath(cfg.JournalPath())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Recent(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %+v, %v", runs, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", cfg.JournalPath())
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := journal.OpenPath(cfg.JournalPath()); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

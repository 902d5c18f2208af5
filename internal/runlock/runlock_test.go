package runlock_test

import (
	"errors"
	"path/filepath"
	"testing"

	"recroute/internal/runlock"
)

func TestTryAcquireExcludesSecondHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recroute.lock")
	first := runlock.New(path)
	if err := first.TryAcquire(); err != nil {
		t.Fatalf("first TryAcquire: %v", err)
	}
	if !first.Held() {
		t.Fatal("expected first handle to hold the lock")
	}

	second := runlock.New(path)
	if err := second.TryAcquire(); !errors.Is(err, runlock.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	busy, err := runlock.Busy(path)
	if err != nil || !busy {
		t.Fatalf("Busy = %v, %v; want true", busy, err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := second.TryAcquire(); err != nil {
		t.Fatalf("expected lock free after release, got %v", err)
	}
	_ = second.Release()
}

func TestReleaseUnheldIsNoop(t *testing.T) {
	lock := runlock.New(filepath.Join(t.TempDir(), "recroute.lock"))
	if err := lock.Release(); err != nil {
		t.Fatalf("Release on unheld lock: %v", err)
	}
}

func TestBusyOnFreeLock(t *testing.T) {
	busy, err := runlock.Busy(filepath.Join(t.TempDir(), "recroute.lock"))
	if err != nil {
		t.Fatalf("Busy: %v", err)
	}
	if busy {
		t.Fatal("expected free lock")
	}
}

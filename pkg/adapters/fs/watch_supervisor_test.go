package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/animio/pkg/core"
)

func testWatcher(t *testing.T, paths ...string) *Watcher {
	t.Helper()
	w, err := NewWatcher(WatchConfig{
		Paths:    paths,
		Debounce: 10 * time.Millisecond,
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
	})
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	return w
}

// watchDir returns a temp dir with symlinks resolved, so fsnotify reports the
// same paths the watcher was configured with.
func watchDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	owner := testWatcher(t, filepath.Join(watchDir(t), "walk.json"))
	events := make(chan core.Event)
	created := make(chan *watchWorker, 2)

	spec := supervisor.Spec{
		Name: "document-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := newWatchWorker(owner, events)
			created <- w
			return w, nil
		},
		Backoff:       owner.config.Backoff,
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("failed to start supervisor: %v", err)
	}

	first := waitForWorker(t, created, "first")
	waitForWatcher(t, owner, true)

	waitForWatcherInit(t, first)
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	if first == second {
		t.Fatalf("expected supervisor to restart watcher with a new instance")
	}
	waitForWatcher(t, owner, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	if err := sup.Stop(stopCtx); err != nil {
		t.Fatalf("failed to stop supervisor: %v", err)
	}
}

func TestWatcher_ReportsDocumentChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	dir := watchDir(t)
	target := filepath.Join(dir, "walk.json")
	w := testWatcher(t, target, target)

	events, err := w.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	waitForWatcher(t, w, true)

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.Path != target {
			t.Errorf("expected event for %s, got %v", target, e)
		}
		if e.Type != core.EventCreate && e.Type != core.EventModify {
			t.Errorf("unexpected event type %s", e.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for document event")
	}

	state := w.State().(WatcherState)
	if len(state.Paths) != 1 || state.Starts != 1 {
		t.Errorf("unexpected watcher state %+v", state)
	}

	if _, err := w.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel was not closed after cancel")
		}
	}
}

func TestNewWatcher_RequiresPaths(t *testing.T) {
	if _, err := NewWatcher(WatchConfig{}); err == nil {
		t.Error("expected an error without paths")
	}
}

func waitForWorker(t *testing.T, ch <-chan *watchWorker, label string) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcherInit(t *testing.T, w *watchWorker) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if w.watcher != nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher initialization")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func waitForWatcher(t *testing.T, owner *Watcher, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := owner.State().(WatcherState)
		if ok && state.Active == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/animio/pkg/core"
)

// DefaultDebounce is the quiet period before a document change is reported.
const DefaultDebounce = 50 * time.Millisecond

// WatchConfig holds the configuration for a Watcher.
type WatchConfig struct {
	// Paths are the document files to watch. They do not need to exist yet.
	Paths    []string
	Debounce time.Duration
	Logger   *slog.Logger
	// ErrorHandler receives watcher errors that do not stop the watch.
	ErrorHandler func(error)
	// Backoff controls restarts of a failed watch worker.
	Backoff supervisor.Backoff
}

// DefaultWatchBackoff restarts a failed watcher quickly a few times before giving up.
var DefaultWatchBackoff = supervisor.Backoff{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     2 * time.Second,
	Multiplier:      2,
	ResetDuration:   30 * time.Second,
	MaxRestarts:     5,
	MaxDuration:     time.Minute,
}

// Watcher reports changes to a set of document files. The underlying worker
// runs under a supervisor that restarts it on failure.
type Watcher struct {
	config  WatchConfig
	logger  *slog.Logger
	targets map[string]struct{}

	mu        sync.RWMutex
	started   bool
	active    bool
	starts    int
	delivered int
	lastEvent *core.Event
}

// NewWatcher creates a Watcher for the configured documents.
func NewWatcher(config WatchConfig) (*Watcher, error) {
	if len(config.Paths) == 0 {
		return nil, fmt.Errorf("no documents to watch")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Backoff.InitialInterval == 0 {
		config.Backoff = DefaultWatchBackoff
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	targets := make(map[string]struct{}, len(config.Paths))
	paths := make([]string, 0, len(config.Paths))
	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		if _, dup := targets[abs]; dup {
			continue
		}
		targets[abs] = struct{}{}
		paths = append(paths, abs)
	}
	config.Paths = paths

	return &Watcher{config: config, logger: logger, targets: targets}, nil
}

// Start begins watching. The returned channel is closed once ctx is done and
// the worker has shut down. A Watcher can be started once.
func (w *Watcher) Start(ctx context.Context) (<-chan core.Event, error) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil, fmt.Errorf("watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	events := make(chan core.Event)
	spec := supervisor.Spec{
		Name: "document-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w.mu.Lock()
			w.starts++
			w.mu.Unlock()
			return newWatchWorker(w, events), nil
		},
		Backoff:       w.config.Backoff,
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("animio-watch", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		defer close(events)
		return sup.Stop(stopCtx)
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("watcher shutdown failed", "error", err)
	}))

	w.logger.Debug("watching documents", "paths", w.config.Paths, "debounce", w.config.Debounce)
	return events, nil
}

func (w *Watcher) dirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range w.config.Paths {
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}

func (w *Watcher) watches(path string) bool {
	_, ok := w.targets[path]
	return ok
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

func (w *Watcher) recordEvent(e core.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delivered++
	w.lastEvent = &e
}

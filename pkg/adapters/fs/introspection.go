package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// DocumentStoreState exposes the document store configuration.
type DocumentStoreState struct {
	Strict      bool     `json:"strict"`
	Serializers []string `json:"serializers"`
}

// State implements introspection.Introspectable.
func (s *DocumentStore) State() any {
	exts := s.Extensions()
	sort.Strings(exts)
	return DocumentStoreState{Strict: s.strict, Serializers: exts}
}

// ComponentType implements introspection.Component.
func (s *DocumentStore) ComponentType() string {
	return "document_store"
}

// SceneStoreState exposes the scene file and its last activity.
type SceneStoreState struct {
	Path     string     `json:"path"`
	LastLoad *time.Time `json:"last_load,omitempty"`
	LastSave *time.Time `json:"last_save,omitempty"`
}

// State implements introspection.Introspectable.
func (s *SceneStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SceneStoreState{Path: s.path, LastLoad: s.lastLoad, LastSave: s.lastSave}
}

// ComponentType implements introspection.Component.
func (s *SceneStore) ComponentType() string {
	return "scene_store"
}

// WatcherState exposes the watcher activity.
type WatcherState struct {
	Paths     []string `json:"paths"`
	Active    bool     `json:"active"`
	Starts    int      `json:"starts"`
	Delivered int      `json:"delivered"`
	LastEvent string   `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()
	state := WatcherState{
		Paths:     w.config.Paths,
		Active:    w.active,
		Starts:    w.starts,
		Delivered: w.delivered,
	}
	if w.lastEvent != nil {
		state.LastEvent = w.lastEvent.String()
	}
	return state
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "watcher"
}

var (
	_ introspection.Introspectable = (*DocumentStore)(nil)
	_ introspection.Component      = (*DocumentStore)(nil)
	_ introspection.Introspectable = (*SceneStore)(nil)
	_ introspection.Component      = (*SceneStore)(nil)
	_ introspection.Introspectable = (*Watcher)(nil)
	_ introspection.Component      = (*Watcher)(nil)
)

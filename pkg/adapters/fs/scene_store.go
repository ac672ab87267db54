package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

// SceneConfig holds the configuration for a SceneStore.
type SceneConfig struct {
	// Path is the scene file. The extension selects YAML or JSON.
	Path   string
	Fs     afero.Fs
	Logger *slog.Logger
	Indent string
}

// SceneStore keeps a whole scene in one YAML or JSON file.
type SceneStore struct {
	path       string
	fs         afero.Fs
	logger     *slog.Logger
	serializer Serializer

	mu       sync.RWMutex
	lastLoad *time.Time
	lastSave *time.Time
}

var _ scene.Store = (*SceneStore)(nil)

// NewSceneStore creates a SceneStore for the given file.
func NewSceneStore(config SceneConfig) (*SceneStore, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("scene path cannot be empty")
	}
	ext := strings.ToLower(filepath.Ext(config.Path))
	serializer, ok := DefaultSerializers(config.Indent)[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported scene format %q: %s", ext, config.Path)
	}
	fsys := config.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SceneStore{
		path:       config.Path,
		fs:         fsys,
		logger:     logger,
		serializer: serializer,
	}, nil
}

// Path returns the scene file path.
func (s *SceneStore) Path() string { return s.path }

// Load implements scene.Store. A missing file loads as an empty scene.
func (s *SceneStore) Load(ctx context.Context) (*scene.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("scene file not found, starting empty", "path", s.path)
		return scene.New(), nil
	}
	if err != nil {
		return nil, core.IOError("read", s.path, err)
	}

	var snap scene.Snapshot
	switch s.serializer.(type) {
	case *YAMLSerializer:
		err = yaml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", s.path, err)
	}

	sc, err := scene.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", s.path, err)
	}

	s.touch(&s.lastLoad)
	s.logger.Debug("scene loaded", "path", s.path, "objects", len(snap.Objects), "actions", len(snap.Actions))
	return sc, nil
}

// Save implements scene.Store. The file is replaced atomically.
func (s *SceneStore) Save(ctx context.Context, sc *scene.Scene) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := sc.Snapshot()
	data, err := s.serializer.Serialize(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize scene: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return core.IOError("mkdir", dir, err)
		}
	}
	if err := writeFileAtomic(s.fs, s.path, data, 0644); err != nil {
		return core.IOError("write", s.path, err)
	}

	s.touch(&s.lastSave)
	s.logger.Debug("scene saved", "path", s.path, "objects", len(snap.Objects), "actions", len(snap.Actions))
	return nil
}

func (s *SceneStore) touch(field **time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	*field = &now
}

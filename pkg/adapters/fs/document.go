package fs

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/aretw0/animio/pkg/core"
)

// DocumentConfig holds the configuration for a DocumentStore.
type DocumentConfig struct {
	// Fs is the filesystem documents live on. Defaults to the OS filesystem.
	Fs     afero.Fs
	Logger *slog.Logger
	// Strict rejects numbers written as strings.
	Strict bool
	// Indent is the JSON indentation. Empty writes compact JSON.
	Indent string
	// Serializers overrides or extends the serializers keyed by extension.
	Serializers map[string]Serializer
}

// DocumentStore reads and writes action documents, choosing the format from
// the file extension. It implements core.DocumentCodec.
type DocumentStore struct {
	fs          afero.Fs
	logger      *slog.Logger
	strict      bool
	serializers map[string]Serializer
	validator   *recordValidator
}

var _ core.DocumentCodec = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(config DocumentConfig) *DocumentStore {
	fsys := config.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	serializers := DefaultSerializers(config.Indent)
	for ext, s := range config.Serializers {
		serializers[strings.ToLower(ext)] = s
	}
	return &DocumentStore{
		fs:          fsys,
		logger:      logger,
		strict:      config.Strict,
		serializers: serializers,
		validator:   newRecordValidator(),
	}
}

// ReadDocument implements core.DocumentCodec. The whole document is checked
// before it is returned, so callers never act on a partially valid one.
func (s *DocumentStore) ReadDocument(path string) (*core.ActionDocument, error) {
	serializer, err := s.serializerFor(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, core.IOError("read", path, err)
	}

	payload, err := serializer.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &core.ValidationError{Path: path, Problems: []core.Problem{{Message: err.Error()}}}
	}
	return s.decode(path, payload)
}

func (s *DocumentStore) decode(path string, payload any) (*core.ActionDocument, error) {
	problems, err := validateStructure(payload, s.strict)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	if len(problems) > 0 {
		return nil, &core.ValidationError{Path: path, Problems: problems}
	}

	doc, problems := decodeDocument(payload)
	problems = append(problems, s.validator.problems(doc)...)
	if doc.Version > core.SchemaVersion {
		problems = append(problems, core.Problem{
			Location: "version",
			Message:  fmt.Sprintf("unsupported document version %d (newest supported is %d)", doc.Version, core.SchemaVersion),
		})
	}
	if len(problems) > 0 {
		return nil, &core.ValidationError{Path: path, Problems: problems}
	}

	s.logger.Debug("document read", "path", path, "name", doc.Name, "version", doc.Version, "keyframes", len(doc.Keyframes))
	return doc, nil
}

// WriteDocument implements core.DocumentCodec. The file is replaced atomically.
func (s *DocumentStore) WriteDocument(path string, doc *core.ActionDocument) error {
	serializer, err := s.serializerFor(path)
	if err != nil {
		return err
	}
	out := *doc
	if out.Version == 0 {
		out.Version = core.SchemaVersion
	}
	if out.Keyframes == nil {
		out.Keyframes = []core.KeyframeRecord{}
	}

	data, err := serializer.Serialize(&out)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := writeFileAtomic(s.fs, path, data, 0644); err != nil {
		return core.IOError("write", path, err)
	}

	s.logger.Debug("document written", "path", path, "bytes", len(data))
	return nil
}

// Extensions lists the supported file extensions.
func (s *DocumentStore) Extensions() []string {
	exts := make([]string, 0, len(s.serializers))
	for ext := range s.serializers {
		exts = append(exts, ext)
	}
	return exts
}

func (s *DocumentStore) serializerFor(path string) (Serializer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = ".json"
	}
	serializer, ok := s.serializers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported document format %q: %s", ext, path)
	}
	return serializer, nil
}

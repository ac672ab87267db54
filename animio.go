package animio

import (
	"context"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/aretw0/animio/internal/platform"
	"github.com/aretw0/animio/pkg/core"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Service is the export/import service.
type Service = core.Service

// SceneStore is a scene store opened by OpenScene.
type SceneStore = platform.SceneStore

// --- Configuration ---

// Option defines a functional option for configuring animio.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the service and the stores.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithReporter sets the host reporter that receives user-facing messages.
func WithReporter(r core.Reporter) Option {
	return platform.WithReporter(r)
}

// WithCodec allows injecting a custom document codec.
func WithCodec(codec core.DocumentCodec) Option {
	return platform.WithCodec(codec)
}

// WithAdapter selects the scene storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFilesystem sets the filesystem used for documents and file scenes.
func WithFilesystem(fsys afero.Fs) Option {
	return platform.WithFilesystem(fsys)
}

// WithStrict rejects numbers written as strings when reading documents.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithIndent sets the JSON indentation for written documents.
func WithIndent(indent string) Option {
	return platform.WithIndent(indent)
}

// --- Factory ---

// New creates a new animio Service.
func New(opts ...Option) (*Service, error) {
	return platform.New(opts...)
}

// OpenScene opens the scene stored at uri.
func OpenScene(ctx context.Context, uri string, opts ...Option) (SceneStore, error) {
	return platform.OpenScene(ctx, uri, opts...)
}

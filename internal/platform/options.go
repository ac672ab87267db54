package platform

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/aretw0/animio/pkg/core"
)

// options holds the internal configuration for the animio service.
type options struct {
	codec    core.DocumentCodec
	logger   *slog.Logger
	reporter core.Reporter
	adapter  string
	fs       afero.Fs
	strict   bool
	indent   string
}

// Option defines a functional option for configuring animio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		indent:  "  ",
	}
}

func buildOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	return o
}

// WithLogger sets the logger for the service and the stores.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReporter sets the host reporter that receives user-facing messages.
func WithReporter(r core.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithCodec allows injecting a custom document codec.
// If provided, the default file codec will be skipped.
func WithCodec(codec core.DocumentCodec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// WithAdapter selects the scene storage adapter by name ("fs" or "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFilesystem sets the filesystem used for documents and file scenes.
// Defaults to the OS filesystem.
func WithFilesystem(fsys afero.Fs) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithStrict enables strict mode for document reads.
// When enabled, numbers written as strings are rejected instead of coerced.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithIndent sets the JSON indentation for written documents.
// An empty string writes compact JSON.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}

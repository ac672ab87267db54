package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/animio/pkg/adapters/fs"
	"github.com/aretw0/animio/pkg/adapters/sqlite"
	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// New wires a document codec into a core.Service.
//
//	svc, err := animio.New(animio.WithStrict(true), animio.WithLogger(logger))
func New(opts ...Option) (*core.Service, error) {
	o := buildOptions(opts)

	codec := o.codec
	if codec == nil {
		codec = fs.NewDocumentStore(fs.DocumentConfig{
			Fs:     o.fs,
			Logger: o.logger,
			Strict: o.strict,
			Indent: o.indent,
		})
	}

	return core.NewService(codec, o.logger, o.reporter), nil
}

// SceneStore is a scene.Store that may hold resources.
type SceneStore interface {
	scene.Store
	Close() error
}

// OpenScene opens the scene store at uri with the configured adapter.
// The URI is adapter-specific: a .yaml/.json file for "fs", a database file
// for "sqlite".
func OpenScene(ctx context.Context, uri string, opts ...Option) (SceneStore, error) {
	o := buildOptions(opts)

	switch o.adapter {
	case AdapterFS:
		store, err := fs.NewSceneStore(fs.SceneConfig{
			Path:   uri,
			Fs:     o.fs,
			Logger: o.logger,
			Indent: o.indent,
		})
		if err != nil {
			return nil, err
		}
		return nopCloser{store}, nil
	case AdapterSQLite:
		store, err := sqlite.Open(ctx, uri, o.logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported adapter: %s", o.adapter)
	}
}

type nopCloser struct {
	*fs.SceneStore
}

func (nopCloser) Close() error { return nil }

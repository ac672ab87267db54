package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aretw0/animio"
	"github.com/aretw0/animio/internal/config"
	"github.com/aretw0/animio/internal/platform"
	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

// project is the loaded working set of a command: configuration, scene and service.
type project struct {
	cfg   config.Config
	root  string
	store animio.SceneStore
	scene *scene.Scene
	svc   *animio.Service
}

// loadConfig reads animio.yaml (if any) and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("getting working directory: %w", err)
	}
	cfg, root, err := platform.LoadProject(afero.NewOsFs(), wd)
	if err != nil {
		return cfg, root, err
	}

	if applyFlags(cmd, &cfg) {
		// A scene given on the command line is relative to the working directory.
		root = ""
	}
	return cfg, root, cfg.Validate()
}

// applyFlags overrides cfg with the persistent flags set on the command line.
// It reports whether the scene location was overridden.
func applyFlags(cmd *cobra.Command, cfg *config.Config) (sceneSet bool) {
	flags := cmd.Flags()
	if flags.Changed("scene") {
		cfg.Scene = sceneFlag
		sceneSet = true
	}
	if flags.Changed("adapter") {
		cfg.Adapter = adapterFlag
	}
	if flags.Changed("object") {
		cfg.Object = objectFlag
	}
	if flags.Changed("strict") {
		cfg.Strict = strictFlag
	}
	return sceneSet
}

func openProject(ctx context.Context, cmd *cobra.Command) (*project, error) {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	opts := []animio.Option{
		animio.WithLogger(logger),
		animio.WithReporter(core.ReporterFunc(report)),
		animio.WithAdapter(cfg.Adapter),
		animio.WithStrict(cfg.Strict),
		animio.WithIndent(cfg.IndentString()),
	}

	svc, err := animio.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing service: %w", err)
	}

	store, err := animio.OpenScene(ctx, cfg.ScenePath(root), opts...)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}

	sc, err := store.Load(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading scene: %w", err)
	}

	return &project{cfg: cfg, root: root, store: store, scene: sc, svc: svc}, nil
}

// target returns the object named by --object or the configured default.
func (p *project) target() (*scene.Object, error) {
	name := p.cfg.Object
	if name == "" {
		objects := p.scene.Objects()
		if len(objects) != 1 {
			return nil, fmt.Errorf("no object selected: pass --object or set object in %s", config.FileName)
		}
		return objects[0], nil
	}
	obj, ok := p.scene.Object(name)
	if !ok {
		return nil, fmt.Errorf("object %q not found in scene", name)
	}
	return obj, nil
}

func (p *project) save(ctx context.Context) error {
	if err := p.store.Save(ctx, p.scene); err != nil {
		return fmt.Errorf("saving scene: %w", err)
	}
	return nil
}

func (p *project) close() {
	if err := p.store.Close(); err != nil {
		slog.Warn("closing scene store", "error", err)
	}
}

// report prints user-facing messages from the service. Errors are printed
// by fatal when the command exits.
func report(level core.Level, msg string) {
	switch level {
	case core.LevelInfo:
		fmt.Println(msg)
	case core.LevelWarning:
		fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
	}
}

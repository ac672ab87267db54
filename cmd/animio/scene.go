package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aretw0/animio"
	"github.com/aretw0/animio/internal/config"
	"github.com/aretw0/animio/pkg/scene"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage the scene",
}

var sceneInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create animio.yaml and an empty scene in the current directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSceneInit(cmd.Context(), cmd); err != nil {
			fatal("init failed", err)
		}
	},
}

var sceneAddCmd = &cobra.Command{
	Use:   "add [object...]",
	Short: "Add objects to the scene",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSceneAdd(cmd.Context(), cmd, args); err != nil {
			fatal("add failed", err)
		}
	},
}

func runSceneInit(ctx context.Context, cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg := config.Default()
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Write(afero.NewOsFs(), filepath.Join(wd, config.FileName), cfg); err != nil {
		return err
	}

	store, err := animio.OpenScene(ctx, cfg.ScenePath(wd), animio.WithAdapter(cfg.Adapter))
	if err != nil {
		return err
	}
	defer store.Close()

	sc := scene.New()
	if cfg.Object != "" {
		if _, err := sc.AddObject(cfg.Object); err != nil {
			return err
		}
	}
	if err := store.Save(ctx, sc); err != nil {
		return err
	}

	fmt.Printf("Initialized %s with %s scene %s\n", config.FileName, cfg.Adapter, cfg.Scene)
	return nil
}

func runSceneAdd(ctx context.Context, cmd *cobra.Command, names []string) error {
	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	for _, name := range names {
		if _, err := p.scene.AddObject(name); err != nil {
			return err
		}
	}
	if err := p.save(ctx); err != nil {
		return err
	}
	fmt.Printf("Added %d objects\n", len(names))
	return nil
}

func init() {
	sceneCmd.AddCommand(sceneInitCmd, sceneAddCmd)
	rootCmd.AddCommand(sceneCmd)
}

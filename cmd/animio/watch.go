package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/animio/pkg/adapters/fs"
	lcadapter "github.com/aretw0/animio/pkg/adapters/lifecycle"
	"github.com/aretw0/animio/pkg/core"
)

var (
	watchMode     string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-import a document every time it changes",
	Long: `Watch keeps the scene open and re-imports the document (replace or merge)
each time another tool writes it. Invalid intermediate saves are reported and
skipped. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWatch(cmd.Context(), cmd, args[0]); err != nil {
			fatal("watch failed", err)
		}
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	modeName := p.cfg.Watch.Mode
	if cmd.Flags().Changed("mode") {
		modeName = watchMode
	}
	mode, err := core.ParseImportMode(modeName)
	if err != nil {
		return err
	}
	if mode == core.ImportAction {
		return fmt.Errorf("watch supports replace and merge only")
	}

	debounce := p.cfg.Watch.Debounce
	if cmd.Flags().Changed("debounce") {
		debounce = watchDebounce
	}

	filter, err := buildFilter(onlyKeys, includePatterns, p.cfg.Include)
	if err != nil {
		return err
	}
	obj, err := p.target()
	if err != nil {
		return err
	}

	watcher, err := fs.NewWatcher(fs.WatchConfig{
		Paths:    []string{path},
		Debounce: debounce,
		Logger:   slog.Default(),
		ErrorHandler: func(err error) {
			slog.Warn("watcher error", "error", err)
		},
	})
	if err != nil {
		return err
	}
	events, err := watcher.Start(ctx)
	if err != nil {
		return err
	}

	source := lcadapter.NewSource(events, core.EventCreate, core.EventModify)
	if err := source.Start(ctx); err != nil {
		return err
	}

	fmt.Printf("Watching %s (%s into %q), press Ctrl+C to stop\n", path, mode, obj.Name())
	for ev := range source.Events() {
		e, ok := ev.(core.Event)
		if !ok {
			continue
		}
		if _, err := p.svc.Import(ctx, p.scene, obj, e.Path, mode, filter); err != nil {
			// The document may be half written; the next save triggers another pass.
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", e.Path, err)
			continue
		}
		if err := p.save(ctx); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchMode, "mode", "replace", "Import mode: replace or merge")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", fs.DefaultDebounce, "Quiet period before a change is imported")
	watchCmd.Flags().StringSliceVar(&onlyKeys, "only", nil, "Only touch these channels (data_path:index, repeatable)")
	watchCmd.Flags().StringSliceVar(&includePatterns, "include", nil, "Only touch channels whose data path matches these globs (pattern[:index])")
	rootCmd.AddCommand(watchCmd)
}

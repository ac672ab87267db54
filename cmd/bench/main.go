package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/animio"
	"github.com/aretw0/animio/pkg/core"
	"github.com/aretw0/animio/pkg/scene"
)

func main() {
	channels := flag.Int("channels", 200, "Number of channels in the generated action")
	keys := flag.Int("keys", 250, "Number of keyframes per channel")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	verbose := flag.Bool("verbose", false, "Log service activity")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "animio_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	handler := slog.DiscardHandler
	if *verbose {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	logger := slog.New(handler)
	ctx := context.TODO()

	fmt.Printf("Generating %d channels x %d keyframes...\n", *channels, *keys)
	startGen := time.Now()
	sc, obj := generate(*channels, *keys)
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	svc, err := animio.New(animio.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	results := make(map[string]time.Duration)
	measure := func(label string, fn func() error) {
		start := time.Now()
		if err := fn(); err != nil {
			panic(fmt.Errorf("%s: %w", label, err))
		}
		results[label] = time.Since(start)
		fmt.Printf("%-16s %v\n", label, results[label])
	}

	for _, ext := range []string{".json", ".yaml"} {
		doc := filepath.Join(benchDir, "bench"+ext)
		measure("export "+ext, func() error { return svc.Export(ctx, obj, doc) })
		measure("import "+ext, func() error {
			_, err := svc.ImportAction(ctx, sc, obj, doc)
			return err
		})
		measure("replace "+ext, func() error {
			_, err := svc.ReplaceCurves(ctx, obj, doc, nil)
			return err
		})
		measure("merge "+ext, func() error {
			_, err := svc.MergeCurves(ctx, obj, doc, nil)
			return err
		})
	}

	for _, store := range []struct{ adapter, file string }{
		{animio.AdapterFS, "scene.yaml"},
		{animio.AdapterSQLite, "scene.db"},
	} {
		s, err := animio.OpenScene(ctx, filepath.Join(benchDir, store.file),
			animio.WithAdapter(store.adapter), animio.WithLogger(logger))
		if err != nil {
			panic(err)
		}
		measure("save "+store.adapter, func() error { return s.Save(ctx, sc) })
		measure("load "+store.adapter, func() error {
			_, err := s.Load(ctx)
			return err
		})
		s.Close()
	}

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d keyframes):\n", *channels*(*keys))
	fmt.Printf("  Export JSON: %v\n", results["export .json"])
	fmt.Printf("  Import JSON: %v\n", results["import .json"])
	fmt.Printf("  Merge JSON:  %v\n", results["merge .json"])
	fmt.Printf("--------------------------------------------------\n")
}

// generate builds one object with an action of n channels, each keyed every frame.
func generate(n, keys int) (*scene.Scene, *scene.Object) {
	sc := scene.New()
	obj, _ := sc.AddObject("Bench")
	action, _ := sc.NewAction("BenchAction")
	obj.CreateAnimationData().SetAction(action)

	for c := 0; c < n; c++ {
		key := core.Key{DataPath: fmt.Sprintf(`pose.bones["Bone.%03d"].location`, c/3), ArrayIndex: c % 3}
		ch, err := action.NewChannel(key, fmt.Sprintf("Bone.%03d", c/3))
		if err != nil {
			panic(err)
		}
		for k := 0; k < keys; k++ {
			frame := float64(k + 1)
			value := float64((c+1)*k) / 100
			if err := ch.Insert(core.ControlPoint{
				Co:              core.Vec2{frame, value},
				HandleLeft:      core.Vec2{frame - 0.3, value},
				HandleLeftType:  core.HandleAutoClamped,
				HandleRight:     core.Vec2{frame + 0.3, value},
				HandleRightType: core.HandleAutoClamped,
				Interpolation:   core.InterpolationBezier,
				Easing:          core.EasingAuto,
				Amplitude:       core.DefaultAmplitude,
				Back:            core.DefaultBack,
				Period:          core.DefaultPeriod,
				Type:            core.KeyframeNormal,
			}); err != nil {
				panic(err)
			}
		}
	}
	return sc, obj
}

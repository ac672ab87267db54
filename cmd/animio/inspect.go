package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/aretw0/animio/pkg/core"
)

var (
	inspectJSON  bool
	inspectState bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [glob...]",
	Short: "Summarise documents or the scene",
	Long: `Inspect validates and summarises the documents matching the given globs
(e.g. "shots/**/*.json"). Without arguments it summarises the scene. With
--state it prints the internal state of the service and the scene store.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(cmd.Context(), cmd, args); err != nil {
			fatal("inspect failed", err)
		}
	},
}

type channelSummary struct {
	Channel   string  `json:"channel"`
	Group     string  `json:"group,omitempty"`
	Keyframes int     `json:"keyframes"`
	Sampled   bool    `json:"sampled,omitempty"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

type documentSummary struct {
	Path     string           `json:"path"`
	Name     string           `json:"name"`
	Version  int              `json:"version"`
	Channels []channelSummary `json:"channels"`
	Error    string           `json:"error,omitempty"`
}

type objectSummary struct {
	Name     string           `json:"name"`
	Action   string           `json:"action,omitempty"`
	Channels []channelSummary `json:"channels,omitempty"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, args []string) error {
	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	if inspectState {
		return printJSON(map[string]any{
			p.svc.ComponentType(): p.svc.State(),
			"scene":               componentState(p.store),
		})
	}

	if len(args) == 0 {
		return inspectScene(p)
	}

	var summaries []documentSummary
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// A literal path reports its own read error.
			matches = []string{pattern}
		}
		for _, path := range matches {
			summaries = append(summaries, summarizeDocument(ctx, p, path))
		}
	}

	if inspectJSON {
		return printJSON(summaries)
	}
	for _, s := range summaries {
		if s.Error != "" {
			fmt.Printf("%s: INVALID\n  %s\n", s.Path, s.Error)
			continue
		}
		fmt.Printf("%s: %q (version %d)\n", s.Path, s.Name, s.Version)
		printChannels(s.Channels)
	}
	return nil
}

func summarizeDocument(ctx context.Context, p *project, path string) documentSummary {
	s := documentSummary{Path: path}
	doc, err := p.svc.ReadDocument(ctx, path)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Name, s.Version = doc.Name, doc.Version

	index := make(map[core.Key]int)
	for _, rec := range doc.Keyframes {
		key := rec.Key()
		i, ok := index[key]
		if !ok {
			i = len(s.Channels)
			index[key] = i
			s.Channels = append(s.Channels, channelSummary{
				Channel: key.String(),
				Group:   rec.Group,
				Start:   rec.Co[0],
				End:     rec.Co[0],
			})
		}
		ch := &s.Channels[i]
		ch.Keyframes++
		ch.Start = min(ch.Start, rec.Co[0])
		ch.End = max(ch.End, rec.Co[0])
	}
	return s
}

func inspectScene(p *project) error {
	var objects []objectSummary
	for _, obj := range p.scene.Objects() {
		o := objectSummary{Name: obj.Name()}
		if action := obj.ActiveAction(); action != nil {
			o.Action = action.Name()
			for _, f := range action.FCurves() {
				start, end := f.Range()
				o.Channels = append(o.Channels, channelSummary{
					Channel:   f.Key().String(),
					Group:     f.Group(),
					Keyframes: len(f.Points()),
					Sampled:   f.Sampled(),
					Start:     start,
					End:       end,
				})
			}
		}
		objects = append(objects, o)
	}

	if inspectJSON {
		return printJSON(objects)
	}
	if len(objects) == 0 {
		fmt.Println("Scene is empty")
		return nil
	}
	for _, o := range objects {
		if o.Action == "" {
			fmt.Printf("%s: no active action\n", o.Name)
			continue
		}
		fmt.Printf("%s: %q\n", o.Name, o.Action)
		printChannels(o.Channels)
	}
	return nil
}

func printChannels(channels []channelSummary) {
	for _, c := range channels {
		kind := fmt.Sprintf("%d keys", c.Keyframes)
		if c.Sampled {
			kind = "sampled"
		}
		group := c.Group
		if group == "" {
			group = "-"
		}
		fmt.Printf("  %-32s %-20s %-10s [%g, %g]\n", c.Channel, group, kind, c.Start, c.End)
	}
}

func componentState(v any) any {
	if intro, ok := v.(introspection.Introspectable); ok {
		return intro.State()
	}
	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output in JSON format")
	inspectCmd.Flags().BoolVar(&inspectState, "state", false, "Print internal component state")
	rootCmd.AddCommand(inspectCmd)
}

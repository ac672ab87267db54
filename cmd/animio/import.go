package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/animio/pkg/core"
)

var (
	onlyKeys        []string
	includePatterns []string
)

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import a document as a new action",
	Long: `Import clears the animation data of the target object and assigns a new
action built from the document. The action is named after the document; a taken
name gets a numeric suffix.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd.Context(), cmd, args[0], core.ImportAction); err != nil {
			fatal("import failed", err)
		}
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace [path]",
	Short: "Replace the channels named by a document",
	Long: `Replace empties each channel of the active action that the document mentions,
then fills it with the document's keyframes. Channels the document does not
mention are left alone; channels missing from the action are created.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd.Context(), cmd, args[0], core.ImportReplace); err != nil {
			fatal("replace failed", err)
		}
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge [path]",
	Short: "Merge a document into the active action",
	Long: `Merge inserts the document's keyframes into the matching channels of the
active action, keeping the keyframes already there. A keyframe on the same
frame as an existing one replaces it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd.Context(), cmd, args[0], core.ImportMerge); err != nil {
			fatal("merge failed", err)
		}
	},
}

func runImport(ctx context.Context, cmd *cobra.Command, path string, mode core.ImportMode) error {
	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	filter, err := buildFilter(onlyKeys, includePatterns, p.cfg.Include)
	if err != nil {
		return err
	}

	obj, err := p.target()
	if err != nil {
		return err
	}

	res, err := p.svc.Import(ctx, p.scene, obj, path, mode, filter)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		fmt.Printf("%d keyframes skipped by the channel filter\n", res.Skipped)
	}
	return p.save(ctx)
}

// buildFilter combines --only keys and --include patterns. Without either the
// configured include patterns apply; without those every channel is allowed.
func buildFilter(only, include, configured []string) (core.Filter, error) {
	var filters core.AnyOf

	if len(only) > 0 {
		keys := make([]core.Key, 0, len(only))
		for _, s := range only {
			key, err := core.ParseKey(s)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		filters = append(filters, core.NewKeySet(keys...))
	}

	if len(include) == 0 && len(only) == 0 {
		include = configured
	}
	if len(include) > 0 {
		patterns := core.PathPatterns(include)
		if err := patterns.Validate(); err != nil {
			return nil, err
		}
		filters = append(filters, patterns)
	}

	if len(filters) == 0 {
		return nil, nil
	}
	return filters, nil
}

func init() {
	for _, cmd := range []*cobra.Command{replaceCmd, mergeCmd} {
		cmd.Flags().StringSliceVar(&onlyKeys, "only", nil, "Only touch these channels (data_path:index, repeatable)")
		cmd.Flags().StringSliceVar(&includePatterns, "include", nil, "Only touch channels whose data path matches these globs (pattern[:index])")
	}
	rootCmd.AddCommand(importCmd, replaceCmd, mergeCmd)
}

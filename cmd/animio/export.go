package main

import (
	"context"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export the active action of an object",
	Long: `Export writes every keyframe of the target object's active action to a JSON
(or .yaml) document. Sampled channels are exported as keyframes and stay sampled
in the scene.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExport(cmd.Context(), cmd, args[0]); err != nil {
			fatal("export failed", err)
		}
	},
}

func runExport(ctx context.Context, cmd *cobra.Command, path string) error {
	p, err := openProject(ctx, cmd)
	if err != nil {
		return err
	}
	defer p.close()

	obj, err := p.target()
	if err != nil {
		return err
	}
	// Export converts sampled channels back on return, the scene is unchanged.
	return p.svc.Export(ctx, obj, path)
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

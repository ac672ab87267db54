package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	sceneFlag   string
	adapterFlag string
	objectFlag  string
	strictFlag  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "animio",
	Short: "Exchange keyframe animation curves as JSON documents",
	Long: `animio exports the active action of a scene object as a flat JSON (or YAML)
document and imports edited documents back, as a new action or by replacing or
merging the channels they mention.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&sceneFlag, "scene", "", "Scene file or database (overrides animio.yaml)")
	rootCmd.PersistentFlags().StringVar(&adapterFlag, "adapter", "", "Scene storage adapter: fs or sqlite (overrides animio.yaml)")
	rootCmd.PersistentFlags().StringVarP(&objectFlag, "object", "o", "", "Target object (overrides animio.yaml)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Reject numbers written as strings")
}

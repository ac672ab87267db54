package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/animio"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of animio",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("animio version %s\n", strings.TrimSpace(animio.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

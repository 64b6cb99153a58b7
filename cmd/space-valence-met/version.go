package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of space-valence-met",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("space-valence-met %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

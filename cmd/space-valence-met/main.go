// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the space-valence-met CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarabartl/space-valence-met/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds dataset-host tokens loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the space-valence-met CLI.
var rootCmd = &cobra.Command{
	Use:   "space-valence-met",
	Short: "Join, normalize, and analyze lexical rating and embedding tables",
	Long: `space-valence-met builds a joined word-level table from affective rating
datasets and embedding-projection tables, normalizes scores within each
source, filters to frequent words, fits regressions between score pairs,
and samples representative words for plot labels.

Each pipeline stage is a subcommand: fetch, join, filter, sample, fit,
plot, and norms. Stages read and write TSV snapshots under the analysis
directory, so any stage can be rerun in isolation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./space-valence-met.yaml or ~/.config/space-valence-met/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("space-valence-met")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "space-valence-met"))
		}
	}

	viper.SetEnvPrefix("SPACE_VALENCE_MET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

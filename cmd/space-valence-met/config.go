// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultDelay     = 1 * time.Second
	defaultUserAgent = "space-valence-met/0.1"

	defaultDataDir     = "data"
	defaultAnalysisDir = "analysis"
)

// pipelineConfig loads the full pipeline configuration from the viper
// config file and fills in defaults for unset fields. Stage commands
// layer their own flags on top of the returned values.
func pipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Fetch.Timeout == 0 {
		cfg.Fetch.Timeout = defaultTimeout
	}
	if cfg.Fetch.UserAgent == "" {
		cfg.Fetch.UserAgent = defaultUserAgent
	}
	if cfg.Fetch.DownloadDelay == 0 {
		cfg.Fetch.DownloadDelay = defaultDelay
	}
	if cfg.Fetch.DataDir == "" {
		cfg.Fetch.DataDir = defaultDataDir
	}
	if cfg.Store.AnalysisDir == "" {
		cfg.Store.AnalysisDir = defaultAnalysisDir
	}
	if cfg.Plot.PlotsDir == "" {
		cfg.Plot.PlotsDir = filepath.Join(cfg.Store.AnalysisDir, "plots")
	}
	if cfg.Sample.NEdge == 0 {
		cfg.Sample.NEdge = 10
	}
	if cfg.Sample.NMid == 0 {
		cfg.Sample.NMid = 5
	}

	return cfg, nil
}

// analysisDirFromFlags resolves the analysis directory, letting the
// --analysis-dir flag override the config file.
func analysisDirFromFlags(cmd *cobra.Command, cfg types.PipelineConfig) string {
	dir, _ := cmd.Flags().GetString("analysis-dir")
	if dir != "" {
		return dir
	}
	return cfg.Store.AnalysisDir
}

// joinedTablePath is where the join stage writes its snapshot.
func joinedTablePath(analysisDir string) string {
	return filepath.Join(analysisDir, "joined.tsv")
}

// filteredTablePath is where the filter stage writes its snapshot.
func filteredTablePath(analysisDir string) string {
	return filepath.Join(analysisDir, "filtered.tsv")
}

// stageInputTable resolves the table a downstream stage should read:
// the filtered snapshot when it exists in config terms (--input
// overrides), otherwise the joined snapshot.
func stageInputTable(cmd *cobra.Command, analysisDir string) string {
	if input, _ := cmd.Flags().GetString("input"); input != "" {
		return input
	}
	return filteredTablePath(analysisDir)
}

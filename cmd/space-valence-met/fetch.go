// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/fetch"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [source names...]",
	Short: "Download configured source datasets",
	Long: `Fetch downloads the raw dataset files for sources that declare a URL
and records provenance metadata (checksum, size, retrieval time) next to
them. Files already on disk are skipped. With no arguments every
configured source is fetched; otherwise only the named ones.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")
	fetchCmd.Flags().String("data-dir", "", "base directory for datasets (default data)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout != 0 {
		cfg.Fetch.Timeout = timeout
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay != 0 {
		cfg.Fetch.DownloadDelay = delay
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.Fetch.DataDir = dataDir
	}

	sources, err := selectSources(cfg, args)
	if err != nil {
		return err
	}

	client := &http.Client{
		Timeout: cfg.Fetch.Timeout,
	}

	result := fetch.FetchAll(context.Background(), client, sources, cfg.Fetch, loadedSecrets, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d source(s) failed to download", result.Failed)
	}
	return nil
}

// selectSources returns every configured source (frequency reference
// included) or, when names are given, only those.
func selectSources(cfg types.PipelineConfig, names []string) ([]types.SourceConfig, error) {
	all := cfg.Sources
	if cfg.Frequency.Name != "" {
		all = append(all, cfg.Frequency)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no sources configured: add a sources section to the config file")
	}
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]types.SourceConfig, len(all))
	for _, src := range all {
		byName[src.Name] = src
	}

	selected := make([]types.SourceConfig, 0, len(names))
	for _, name := range names {
		src, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		selected = append(selected, src)
	}
	return selected, nil
}

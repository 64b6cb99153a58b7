// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Select representative words across the quartiles of a score pair",
	Long: `Sample draws words from the quartile bins of two score columns so plot
labels cover the full range of both dimensions. Outer bins contribute
n-edge words each and inner bins n-mid; draws from both columns are
unioned. The same seed over the same table always yields the same words.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().String("analysis-dir", "", "directory holding derived tables (default analysis)")
	sampleCmd.Flags().String("input", "", "table to sample from (default analysis/filtered.tsv)")
	sampleCmd.Flags().String("x", "", "first score column (required)")
	sampleCmd.Flags().String("y", "", "second score column (required)")
	sampleCmd.Flags().Int64("seed", 0, "random seed (0 = use config value)")
	sampleCmd.Flags().Int("n-edge", 0, "words per outer quartile bin (default 10)")
	sampleCmd.Flags().Int("n-mid", 0, "words per inner quartile bin (default 5)")
	sampleCmd.Flags().Bool("strict-bins", false, "fail when a bin has fewer words than requested")
	sampleCmd.Flags().Bool("json", false, "output the sample as JSON")

	sampleCmd.MarkFlagRequired("x")
	sampleCmd.MarkFlagRequired("y")

	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	analysisDir := analysisDirFromFlags(cmd, cfg)
	inPath := stageInputTable(cmd, analysisDir)

	xCol, _ := cmd.Flags().GetString("x")
	yCol, _ := cmd.Flags().GetString("y")

	params := sample.Params{
		Seed:       cfg.Sample.Seed,
		NEdge:      cfg.Sample.NEdge,
		NMid:       cfg.Sample.NMid,
		StrictBins: cfg.Sample.StrictBins,
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		params.Seed = seed
	}
	if nEdge, _ := cmd.Flags().GetInt("n-edge"); nEdge != 0 {
		params.NEdge = nEdge
	}
	if nMid, _ := cmd.Flags().GetInt("n-mid"); nMid != 0 {
		params.NMid = nMid
	}
	if strict, _ := cmd.Flags().GetBool("strict-bins"); strict {
		params.StrictBins = true
	}

	t, err := dataset.ReadTable(inPath, "input")
	if err != nil {
		return err
	}

	words, err := sample.Quartile(t, xCol, yCol, params)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(words)
	}

	for _, w := range words {
		fmt.Println(w)
	}
	fmt.Fprintf(os.Stderr, "\n%d words sampled (seed %d)\n", len(words), params.Seed)
	return nil
}

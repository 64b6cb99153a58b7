// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/internal/wordfilter"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Restrict the joined table to words in the frequency reference",
	Long: `Filter reads the joined table and keeps only the words present in the
configured frequency reference list. Words from sources marked
always_keep survive regardless of reference membership. The result is
written to analysis/filtered.tsv.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("analysis-dir", "", "directory holding derived tables (default analysis)")
	filterCmd.Flags().String("input", "", "table to filter (default analysis/joined.tsv)")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if cfg.Frequency.Name == "" {
		return fmt.Errorf("no frequency reference configured: add a frequency section to the config file")
	}

	analysisDir := analysisDirFromFlags(cmd, cfg)
	inPath, _ := cmd.Flags().GetString("input")
	if inPath == "" {
		inPath = joinedTablePath(analysisDir)
	}

	joined, err := dataset.ReadTable(inPath, "joined")
	if err != nil {
		return err
	}

	refWords, err := dataset.LoadWordList(cfg.Frequency)
	if err != nil {
		return fmt.Errorf("loading frequency reference %s: %w", cfg.Frequency.Name, err)
	}
	ref := wordfilter.NewWordSet(refWords...)

	// Words from always-keep sources bypass the reference check.
	var keep []wordfilter.WordSet
	for _, src := range cfg.Sources {
		if !src.AlwaysKeep {
			continue
		}
		t, err := dataset.LoadSource(src)
		if err != nil {
			return fmt.Errorf("loading always-keep source %s: %w", src.Name, err)
		}
		keep = append(keep, wordfilter.FromTable(t))
	}

	filtered := wordfilter.Apply(joined, ref, keep...)
	filtered.Name = "filtered"

	outPath := filteredTablePath(analysisDir)
	if err := dataset.WriteTable(filtered, outPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "filtered %d -> %d words (reference: %d, always-keep sets: %d) -> %s\n",
		joined.Len(), filtered.Len(), ref.Len(), len(keep), outPath)
	return nil
}

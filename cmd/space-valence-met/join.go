// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/internal/join"
	"github.com/sarabartl/space-valence-met/internal/standardize"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Load, standardize, and join all configured sources",
	Long: `Join loads every configured rating and projection source, z-scores the
columns of sources marked for standardization, and merges them into one
word-keyed table with a full outer join. Words missing from a source get
missing values for that source's columns. The result is written to
analysis/joined.tsv.`,
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().String("analysis-dir", "", "output directory for derived tables (default analysis)")
	joinCmd.Flags().Bool("no-standardize", false, "skip z-scoring even for sources configured to standardize")

	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("no sources configured: add a sources section to the config file")
	}

	analysisDir := analysisDirFromFlags(cmd, cfg)
	noStandardize, _ := cmd.Flags().GetBool("no-standardize")

	tables := make([]*types.Table, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		t, err := dataset.LoadSource(src)
		if err != nil {
			return fmt.Errorf("loading source %s: %w", src.Name, err)
		}
		fmt.Fprintf(os.Stdout, "loaded %s: %d words, %d columns\n", src.Name, t.Len(), len(t.Columns()))

		if src.Standardize && !noStandardize {
			t, err = standardize.Table(t)
			if err != nil {
				return fmt.Errorf("standardizing %s: %w", src.Name, err)
			}
		}
		tables = append(tables, t)
	}

	joined, err := join.Tables("joined", tables...)
	if err != nil {
		return err
	}

	outPath := joinedTablePath(analysisDir)
	if err := dataset.WriteTable(joined, outPath); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "joined %d sources: %d words, %d columns -> %s\n",
		len(tables), joined.Len(), len(joined.Columns()), outPath)
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/internal/fit"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit an ordinary least squares regression between two score columns",
	Long: `Fit regresses one score column on another over the words where both are
present and reports the slope, intercept, R-squared, and the p-value of
the slope. Rows with a missing value in either column are excluded
pairwise.`,
	RunE: runFit,
}

func init() {
	fitCmd.Flags().String("analysis-dir", "", "directory holding derived tables (default analysis)")
	fitCmd.Flags().String("input", "", "table to fit on (default analysis/filtered.tsv)")
	fitCmd.Flags().String("x", "", "predictor column (required)")
	fitCmd.Flags().String("y", "", "response column (required)")
	fitCmd.Flags().Bool("json", false, "output the fit as JSON")

	fitCmd.MarkFlagRequired("x")
	fitCmd.MarkFlagRequired("y")

	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	analysisDir := analysisDirFromFlags(cmd, cfg)
	inPath := stageInputTable(cmd, analysisDir)

	xCol, _ := cmd.Flags().GetString("x")
	yCol, _ := cmd.Flags().GetString("y")

	t, err := dataset.ReadTable(inPath, "input")
	if err != nil {
		return err
	}

	result, err := fit.Columns(t, xCol, yCol)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(os.Stdout, "%s ~ %s (n = %d)\n", yCol, xCol, result.N)
	fmt.Fprintf(os.Stdout, "  slope:     %.6f\n", result.Slope)
	fmt.Fprintf(os.Stdout, "  intercept: %.6f\n", result.Intercept)
	fmt.Fprintf(os.Stdout, "  r-squared: %.6f\n", result.RSquared)
	fmt.Fprintf(os.Stdout, "  p-value:   %.6g\n", result.PValue)
	return nil
}

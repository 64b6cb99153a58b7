// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/container"
	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/internal/plot"
	"github.com/sarabartl/space-valence-met/internal/sample"
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Write scatter-plot points for a score pair, with sampled labels",
	Long: `Plot writes a points file for two score columns to the plots directory,
marking a quartile-sampled subset of words as labeled. With --render the
points are additionally piped through the chart renderer container to
produce an SVG.`,
	RunE: runPlot,
}

func init() {
	plotCmd.Flags().String("analysis-dir", "", "directory holding derived tables (default analysis)")
	plotCmd.Flags().String("input", "", "table to plot (default analysis/filtered.tsv)")
	plotCmd.Flags().String("x", "", "x-axis score column (required)")
	plotCmd.Flags().String("y", "", "y-axis score column (required)")
	plotCmd.Flags().Int64("seed", 0, "label sample seed (0 = use config value)")
	plotCmd.Flags().Bool("render", false, "render the points to SVG with the container renderer")
	plotCmd.Flags().String("image", "", "renderer container image (default chart-render:latest)")

	plotCmd.MarkFlagRequired("x")
	plotCmd.MarkFlagRequired("y")

	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
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

	params := sample.Params{
		Seed:       cfg.Sample.Seed,
		NEdge:      cfg.Sample.NEdge,
		NMid:       cfg.Sample.NMid,
		StrictBins: cfg.Sample.StrictBins,
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		params.Seed = seed
	}

	labels, err := sample.Quartile(t, xCol, yCol, params)
	if err != nil {
		return err
	}

	pointsPath := filepath.Join(cfg.Plot.PlotsDir, fmt.Sprintf("%s_%s.tsv", xCol, yCol))
	n, err := plot.WritePoints(t, xCol, yCol, labels, pointsPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %d points (%d labeled) -> %s\n", n, len(labels), pointsPath)

	render, _ := cmd.Flags().GetBool("render")
	if !render {
		return nil
	}

	image, _ := cmd.Flags().GetString("image")
	if image == "" {
		image = cfg.Plot.RendererImage
	}

	rt, err := container.DetectRuntime()
	if err != nil {
		return err
	}
	renderer, err := plot.NewContainerRenderer(rt, image)
	if err != nil {
		return err
	}

	svgPath, err := renderer.Render(pointsPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "rendered -> %s\n", svgPath)
	return nil
}

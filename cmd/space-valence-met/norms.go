// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarabartl/space-valence-met/internal/store"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

var normsCmd = &cobra.Command{
	Use:   "norms",
	Short: "Manage the norms database (ingest, lookup, export)",
	Long: `Norms manages a local SQLite database built from the derived table
snapshots. Use subcommands to ingest snapshots, look up a word across
them, or export the stored scores.`,
}

// --- ingest subcommand ---

var normsIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest derived table snapshots into the norms database",
	Long: `Ingest reads the TSV snapshots in the analysis directory into the
SQLite norms database. Snapshots unchanged since the last run are
skipped.`,
	RunE: runNormsIngest,
}

func runNormsIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d snapshot(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- lookup subcommand ---

var normsLookupCmd = &cobra.Command{
	Use:   "lookup [word]",
	Short: "Look up a word's scores across all ingested snapshots",
	RunE:  runNormsLookup,
}

func runNormsLookup(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one word to look up")
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	scores, err := s.Lookup(context.Background(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scores)
	}

	if len(scores) == 0 {
		fmt.Println("No scores found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-20s  %s\n", "Snapshot", "Column", "Value")
	for _, sc := range scores {
		fmt.Fprintf(os.Stdout, "%-20s  %-20s  %g\n", sc.Snapshot, sc.Column, sc.Value)
	}
	fmt.Fprintf(os.Stdout, "\n%d scores\n", len(scores))
	return nil
}

// --- export subcommand ---

var normsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the norms database to YAML or CSV",
	RunE:  runNormsExport,
}

func runNormsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var outPath string
	switch format {
	case "yaml", "":
		outPath, err = s.ExportYAML(context.Background())
	case "csv":
		outPath, err = s.ExportCSV(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or csv", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", outPath)
	return nil
}

// --- snapshots subcommand ---

var normsSnapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List the ingested table snapshots",
	RunE:  runNormsSnapshots,
}

func runNormsSnapshots(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	infos, err := s.Snapshots(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No snapshots ingested.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-8s  %s\n", "Snapshot", "Rows", "Columns")
	for _, info := range infos {
		fmt.Fprintf(os.Stdout, "%-20s  %-8d  %s\n", info.Name, info.Rows, info.Columns)
	}
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := pipelineConfig()
	if err != nil {
		return nil, err
	}

	storeCfg := types.StoreConfig{
		AnalysisDir: analysisDirFromFlags(cmd, cfg),
		MaxResults:  cfg.Store.MaxResults,
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults != 0 {
		storeCfg.MaxResults = maxResults
	}

	return store.NewStore(storeCfg)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	normsCmd.PersistentFlags().String("analysis-dir", "", "directory holding derived tables (default analysis)")
	normsCmd.PersistentFlags().Int("max-results", 0, "maximum lookup results (0 = use default)")

	normsLookupCmd.Flags().Bool("json", false, "output scores as JSON")
	normsExportCmd.Flags().String("format", "yaml", "export format: yaml or csv")

	normsCmd.AddCommand(normsIngestCmd)
	normsCmd.AddCommand(normsLookupCmd)
	normsCmd.AddCommand(normsExportCmd)
	normsCmd.AddCommand(normsSnapshotsCmd)

	rootCmd.AddCommand(normsCmd)
}

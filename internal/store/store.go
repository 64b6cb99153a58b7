// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists derived tables in a SQLite norms database so
// individual words can be looked up across snapshots without reloading
// the full TSV files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sarabartl/space-valence-met/internal/dataset"
	"github.com/sarabartl/space-valence-met/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "norms.db"
)

// Store manages the norms SQLite database.
type Store struct {
	db          *sql.DB
	analysisDir string
	maxResults  int
}

// NewStore opens or creates the norms database at
// analysisDir/index/norms.db, creating the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.AnalysisDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{
		db:          db,
		analysisDir: cfg.AnalysisDir,
		maxResults:  maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			name TEXT PRIMARY KEY,
			file_mod_time TEXT,
			rows INTEGER,
			columns TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			snapshot TEXT NOT NULL REFERENCES snapshots(name),
			word TEXT NOT NULL,
			col TEXT NOT NULL,
			value REAL NOT NULL,
			UNIQUE(snapshot, word, col)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_word ON scores(word)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_snapshot ON scores(snapshot)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of snapshot files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest reads derived-table TSV files from the analysis directory and
// populates the database. Each file becomes one snapshot named after
// the file stem. Files unchanged since the last run are skipped.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.analysisDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading analysis directory %s: %w", s.analysisDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tsv") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := strings.TrimSuffix(entry.Name(), ".tsv")
		filePath := filepath.Join(s.analysisDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM snapshots WHERE name = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		table, err := dataset.ReadTable(filePath, name)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestTable(ctx, name, table, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d rows)\n", name, table.Len())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d rows)\n", name, table.Len())
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestTable(ctx context.Context, name string, t *types.Table, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE snapshot = ?`, name); err != nil {
			return fmt.Errorf("deleting old scores: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO scores (snapshot, word, col, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	cols := t.Columns()
	columns := make([][]float64, len(cols))
	for i, c := range cols {
		vals, err := t.Column(c)
		if err != nil {
			return err
		}
		columns[i] = vals
	}

	// Missing cells are simply absent rows; NULL handling stays out of
	// the schema entirely.
	for i, word := range t.Words() {
		for j, c := range cols {
			v := columns[j][i]
			if math.IsNaN(v) {
				continue
			}
			if _, err := stmt.ExecContext(ctx, name, word, c, v); err != nil {
				return fmt.Errorf("inserting %s/%s: %w", word, c, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (name, file_mod_time, rows, columns) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			file_mod_time=excluded.file_mod_time, rows=excluded.rows, columns=excluded.columns`,
		name, modTime, t.Len(), strings.Join(cols, ","),
	)
	if err != nil {
		return fmt.Errorf("updating snapshot record: %w", err)
	}

	return tx.Commit()
}

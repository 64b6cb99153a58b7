// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// Score is a single (snapshot, column) value for a word.
type Score struct {
	Snapshot string  `json:"snapshot" yaml:"snapshot"`
	Column   string  `json:"column" yaml:"column"`
	Value    float64 `json:"value" yaml:"value"`
}

// Lookup returns every stored score for a word across all snapshots,
// capped at the configured maximum. The word is normalized the same
// way tables normalize their keys.
func (s *Store) Lookup(ctx context.Context, word string) ([]Score, error) {
	key := types.NormalizeWord(word)
	if key == "" {
		return nil, types.ErrEmptyWord
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT snapshot, col, value FROM scores
		 WHERE word = ?
		 ORDER BY snapshot, col
		 LIMIT ?`, key, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("querying scores for %q: %w", key, err)
	}
	defer rows.Close()

	var results []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.Snapshot, &sc.Column, &sc.Value); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// SnapshotInfo describes one ingested table snapshot.
type SnapshotInfo struct {
	Name    string `json:"name" yaml:"name"`
	Rows    int    `json:"rows" yaml:"rows"`
	Columns string `json:"columns" yaml:"columns"`
}

// Snapshots lists the ingested snapshots in name order.
func (s *Store) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, rows, columns FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Name, &info.Rows, &info.Columns); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// ExportYAML writes every stored score to analysisDir/index/scores.yaml
// grouped by word.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	grouped, err := s.allScoresByWord(ctx)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(s.analysisDir, indexDir, "scores.yaml")
	data, err := yaml.Marshal(grouped)
	if err != nil {
		return "", fmt.Errorf("marshaling scores: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// ExportCSV writes every stored score to analysisDir/index/scores.csv
// as word,snapshot,column,value rows.
func (s *Store) ExportCSV(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, snapshot, col, value FROM scores ORDER BY word, snapshot, col`)
	if err != nil {
		return "", fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	outPath := filepath.Join(s.analysisDir, indexDir, "scores.csv")
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"word", "snapshot", "column", "value"}); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for rows.Next() {
		var word, snapshot, col string
		var value float64
		if err := rows.Scan(&word, &snapshot, &col, &value); err != nil {
			return "", fmt.Errorf("scanning score row: %w", err)
		}
		record := []string{word, snapshot, col, strconv.FormatFloat(value, 'g', -1, 64)}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("writing record: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return outPath, nil
}

func (s *Store) allScoresByWord(ctx context.Context) (map[string][]Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, snapshot, col, value FROM scores ORDER BY word, snapshot, col`)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]Score)
	for rows.Next() {
		var word string
		var sc Score
		if err := rows.Scan(&word, &sc.Snapshot, &sc.Column, &sc.Value); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		grouped[word] = append(grouped[word], sc)
	}
	return grouped, rows.Err()
}

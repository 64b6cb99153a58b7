// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset reads delimited source files into tables using
// named-column configuration, and round-trips derived tables as TSV.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// LoadSource reads the delimited file described by src into a table.
// The table's columns are the configured logical score names: one per
// Scores mapping plus one per differenced pole pair. Word keys are
// normalized; a duplicate key within the file is a fatal error.
func LoadSource(src types.SourceConfig) (*types.Table, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", src.Name, err)
	}
	defer f.Close()

	t, err := readSource(f, src)
	if err != nil {
		return nil, fmt.Errorf("source %s (%s): %w", src.Name, src.Path, err)
	}
	return t, nil
}

func readSource(f io.Reader, src types.SourceConfig) (*types.Table, error) {
	r := csv.NewReader(f)
	r.Comma = delimiter(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	wordIdx, err := headerIndex(colIdx, src.WordColumn)
	if err != nil {
		return nil, err
	}

	// Resolve every configured column up front so a bad mapping fails
	// before any row is read.
	type scoreCol struct {
		name string
		idx  int
	}
	type poleCol struct {
		name     string
		pos, neg int
	}
	var (
		outCols []string
		scores  []scoreCol
		poles   []poleCol
	)
	for _, m := range src.Scores {
		idx, err := headerIndex(colIdx, m.Column)
		if err != nil {
			return nil, err
		}
		scores = append(scores, scoreCol{name: m.Name, idx: idx})
		outCols = append(outCols, m.Name)
	}
	for _, p := range src.PolePairs {
		pos, err := headerIndex(colIdx, p.Positive)
		if err != nil {
			return nil, err
		}
		neg, err := headerIndex(colIdx, p.Negative)
		if err != nil {
			return nil, err
		}
		poles = append(poles, poleCol{name: p.Name, pos: pos, neg: neg})
		outCols = append(outCols, p.Name)
	}
	if len(outCols) == 0 {
		return nil, fmt.Errorf("no score columns configured")
	}

	t := types.NewTable(src.Name, outCols)
	row := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading row %d: %w", row+1, err)
		}
		row++

		values := make(map[string]float64, len(outCols))
		for _, sc := range scores {
			values[sc.name] = fieldValue(rec, sc.idx)
		}
		for _, pc := range poles {
			// Bipolar axis: positive pole minus negative pole, before
			// standardization. NaN if either pole is missing.
			values[pc.name] = fieldValue(rec, pc.pos) - fieldValue(rec, pc.neg)
		}

		word := ""
		if wordIdx < len(rec) {
			word = rec[wordIdx]
		}
		if err := t.AppendRow(word, values); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}
	return t, nil
}

// LoadWordList reads only the word column of the file described by src,
// returning normalized keys in file order. Used for the frequency
// reference, which carries no numeric payload the pipeline needs.
func LoadWordList(src types.SourceConfig) ([]string, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, fmt.Errorf("opening word list %s: %w", src.Name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("word list %s: reading header: %w", src.Name, err)
	}
	wordIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == src.WordColumn {
			wordIdx = i
			break
		}
	}
	if wordIdx < 0 {
		return nil, fmt.Errorf("word list %s: %w: %q", src.Name, types.ErrMissingColumn, src.WordColumn)
	}

	var words []string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("word list %s: %w", src.Name, err)
		}
		if wordIdx >= len(rec) {
			continue
		}
		if w := types.NormalizeWord(rec[wordIdx]); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

func headerIndex(colIdx map[string]int, name string) (int, error) {
	idx, ok := colIdx[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", types.ErrMissingColumn, name)
	}
	return idx, nil
}

// fieldValue parses one cell as a float. Out-of-range indices, empty
// cells, and the NA markers common in exported rating tables all read
// as missing.
func fieldValue(rec []string, idx int) float64 {
	if idx >= len(rec) {
		return math.NaN()
	}
	s := strings.TrimSpace(rec[idx])
	switch s {
	case "", "NA", "na", "NaN", "nan", "NULL":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// delimiter picks the field separator: an explicit config value wins,
// otherwise .tsv and .txt files read as tab-delimited, everything else
// as comma.
func delimiter(src types.SourceConfig) rune {
	if src.Delimiter != "" {
		return []rune(src.Delimiter)[0]
	}
	switch strings.ToLower(filepath.Ext(src.Path)) {
	case ".tsv", ".txt":
		return '\t'
	}
	return ','
}

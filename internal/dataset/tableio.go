// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

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

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// wordHeader is the first column of every derived table file.
const wordHeader = "word"

// WriteTable writes a derived table as TSV: a header row of "word"
// followed by the column names, then one row per word with missing
// cells written as NA. The file is written via a temp file and rename.
func WriteTable(t *types.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	err = writeTable(t, tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func writeTable(t *types.Table, f io.Writer) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'

	cols := t.Columns()
	if err := w.Write(append([]string{wordHeader}, cols...)); err != nil {
		return err
	}

	columns := make([][]float64, len(cols))
	for i, c := range cols {
		vals, err := t.Column(c)
		if err != nil {
			return err
		}
		columns[i] = vals
	}

	rec := make([]string, len(cols)+1)
	for i, word := range t.Words() {
		rec[0] = word
		for j := range cols {
			v := columns[j][i]
			if math.IsNaN(v) {
				rec[j+1] = "NA"
			} else {
				rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadTable reads a table previously written by WriteTable. The first
// column is the word key; every other column is numeric with NA for
// missing cells.
func ReadTable(path, name string) (*types.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	defer f.Close()

	t, err := readTable(f, name)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}
	return t, nil
}

func readTable(f io.Reader, name string) (*types.Table, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 2 || header[0] != wordHeader {
		return nil, fmt.Errorf("not a derived table: header must start with %q", wordHeader)
	}
	cols := append([]string(nil), header[1:]...)

	t := types.NewTable(name, cols)
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

		values := make(map[string]float64, len(cols))
		for j, c := range cols {
			values[c] = fieldValue(rec, j+1)
		}
		if err := t.AppendRow(rec[0], values); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
	}
	return t, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across pipeline stages.
package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for table construction and access. Callers match them
// with errors.Is after unwrapping the contextual message.
var (
	// ErrMissingColumn reports a configured column name absent from a table.
	ErrMissingColumn = errors.New("column not found")

	// ErrDuplicateKey reports two rows in one source sharing a word key.
	ErrDuplicateKey = errors.New("duplicate word key")

	// ErrEmptyWord reports a row whose word key is empty after trimming.
	ErrEmptyWord = errors.New("empty word key")
)

// Table is a column-oriented, in-memory table keyed by word. Every row
// has a non-empty, lowercased word; any numeric cell may be missing,
// represented as NaN. Tables are built once per run and treated as
// immutable afterwards; transforms clone rather than mutate.
type Table struct {
	// Name identifies the table in progress output and derived files.
	Name string

	words []string
	index map[string]int
	cols  []string
	data  map[string][]float64
}

// NormalizeWord lowercases and trims a word key. All table construction
// paths apply it, so joins can compare keys directly.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// NewTable creates an empty table with the given column order.
func NewTable(name string, columns []string) *Table {
	t := &Table{
		Name:  name,
		index: make(map[string]int),
		cols:  append([]string(nil), columns...),
		data:  make(map[string][]float64, len(columns)),
	}
	for _, c := range t.cols {
		t.data[c] = nil
	}
	return t
}

// AppendRow adds one row. The word is normalized first; columns absent
// from values are recorded as missing. It returns ErrEmptyWord for a
// blank key and ErrDuplicateKey when the word is already present.
func (t *Table) AppendRow(word string, values map[string]float64) error {
	key := NormalizeWord(word)
	if key == "" {
		return fmt.Errorf("row %d: %w", len(t.words)+1, ErrEmptyWord)
	}
	if _, ok := t.index[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}

	t.index[key] = len(t.words)
	t.words = append(t.words, key)
	for _, c := range t.cols {
		v, ok := values[c]
		if !ok {
			v = math.NaN()
		}
		t.data[c] = append(t.data[c], v)
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.words) }

// Words returns the row keys in table order.
func (t *Table) Words() []string {
	return append([]string(nil), t.words...)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// HasWord reports whether the normalized form of word is a row key.
func (t *Table) HasWord(word string) bool {
	_, ok := t.index[NormalizeWord(word)]
	return ok
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Column returns a copy of the named column in row order. Missing cells
// are NaN. It returns ErrMissingColumn for unknown names.
func (t *Table) Column(name string) ([]float64, error) {
	vals, ok := t.data[name]
	if !ok {
		return nil, fmt.Errorf("table %s: %w: %q", t.Name, ErrMissingColumn, name)
	}
	return append([]float64(nil), vals...), nil
}

// Value returns the cell for (word, column). The second return is false
// when the word or column is absent, or the cell is missing.
func (t *Table) Value(word, column string) (float64, bool) {
	i, ok := t.index[NormalizeWord(word)]
	if !ok {
		return math.NaN(), false
	}
	vals, ok := t.data[column]
	if !ok {
		return math.NaN(), false
	}
	v := vals[i]
	return v, !math.IsNaN(v)
}

// SetColumn replaces the named column. The replacement must have one
// value per row. Transforms call it on a Clone, never on a shared table.
func (t *Table) SetColumn(name string, vals []float64) error {
	if _, ok := t.data[name]; !ok {
		return fmt.Errorf("table %s: %w: %q", t.Name, ErrMissingColumn, name)
	}
	if len(vals) != len(t.words) {
		return fmt.Errorf("table %s: column %q: %d values for %d rows", t.Name, name, len(vals), len(t.words))
	}
	t.data[name] = append([]float64(nil), vals...)
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := &Table{
		Name:  t.Name,
		words: append([]string(nil), t.words...),
		index: make(map[string]int, len(t.index)),
		cols:  append([]string(nil), t.cols...),
		data:  make(map[string][]float64, len(t.data)),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	for k, v := range t.data {
		c.data[k] = append([]float64(nil), v...)
	}
	return c
}

// FilterWords returns a new table holding, in table order, the rows
// whose word satisfies keep. Cell values and missingness are preserved.
func (t *Table) FilterWords(keep func(word string) bool) *Table {
	out := NewTable(t.Name, t.cols)
	for i, w := range t.words {
		if !keep(w) {
			continue
		}
		out.index[w] = len(out.words)
		out.words = append(out.words, w)
		for _, c := range t.cols {
			out.data[c] = append(out.data[c], t.data[c][i])
		}
	}
	return out
}

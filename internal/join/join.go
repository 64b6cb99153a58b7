// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package join merges source tables into one wide table via iterated
// full outer join on the word key.
package join

import (
	"fmt"
	"math"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

// Tables performs a left-associative full outer join of the given
// tables on the word key. The resulting key set is the union of all
// input keys regardless of join order; order only affects column and
// row ordering. Columns sharing a name across inputs coalesce, with the
// earliest non-missing value in join order winning.
func Tables(name string, tables ...*types.Table) (*types.Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("join %s: no input tables", name)
	}
	out := tables[0]
	for _, t := range tables[1:] {
		joined, err := pair(out, t)
		if err != nil {
			return nil, fmt.Errorf("join %s: %w", name, err)
		}
		out = joined
	}
	result := out.Clone()
	result.Name = name
	return result, nil
}

// pair joins two tables. Row order is a's rows followed by b's new
// rows; column order is a's columns followed by b's new columns.
func pair(a, b *types.Table) (*types.Table, error) {
	cols := a.Columns()
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		seen[c] = struct{}{}
	}
	for _, c := range b.Columns() {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
	}

	words := a.Words()
	for _, w := range b.Words() {
		if !a.HasWord(w) {
			words = append(words, w)
		}
	}

	out := types.NewTable(a.Name, cols)
	for _, w := range words {
		values := make(map[string]float64, len(cols))
		for _, c := range cols {
			v := math.NaN()
			if a.HasColumn(c) {
				if av, ok := a.Value(w, c); ok {
					v = av
				}
			}
			if math.IsNaN(v) && b.HasColumn(c) {
				if bv, ok := b.Value(w, c); ok {
					v = bv
				}
			}
			values[c] = v
		}
		if err := out.AppendRow(w, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordfilter reduces a joined table to the rows whose word is
// linguistically attested: a member of the corpus frequency reference
// or of any always-keep set. The embedding-projection table carries
// roughly two million word forms, most of them noise; this filter
// shrinks it to a tractable subset before plotting or model fitting.
package wordfilter

import (
	"github.com/sarabartl/space-valence-met/pkg/types"
)

// WordSet is a membership set of normalized word forms.
type WordSet map[string]struct{}

// NewWordSet builds a set from words, normalizing each.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// FromTable returns the set of row keys of t.
func FromTable(t *types.Table) WordSet {
	return NewWordSet(t.Words()...)
}

// Add inserts the normalized form of word. Empty keys are ignored.
func (s WordSet) Add(word string) {
	if w := types.NormalizeWord(word); w != "" {
		s[w] = struct{}{}
	}
}

// Has reports membership of the normalized form of word.
func (s WordSet) Has(word string) bool {
	_, ok := s[types.NormalizeWord(word)]
	return ok
}

// Len returns the set size.
func (s WordSet) Len() int { return len(s) }

// Apply returns the rows of t whose word is in ref or in any keep set,
// in table order. It is a pure membership filter: non-key fields and
// missingness pass through untouched, so filtering an already-filtered
// table with the same sets is a no-op.
func Apply(t *types.Table, ref WordSet, keep ...WordSet) *types.Table {
	return t.FilterWords(func(word string) bool {
		if ref.Has(word) {
			return true
		}
		for _, s := range keep {
			if s.Has(word) {
				return true
			}
		}
		return false
	})
}

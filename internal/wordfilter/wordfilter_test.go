// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wordfilter

import (
	"math"
	"testing"

	"github.com/sarabartl/space-valence-met/pkg/types"
)

func buildTable(t *testing.T, words []string) *types.Table {
	t.Helper()
	table := types.NewTable("joined", []string{"valence"})
	for i, w := range words {
		v := float64(i)
		if i%3 == 2 {
			v = math.NaN()
		}
		if err := table.AppendRow(w, map[string]float64{"valence": v}); err != nil {
			t.Fatalf("AppendRow(%q): %v", w, err)
		}
	}
	return table
}

func TestApplyMembership(t *testing.T) {
	table := buildTable(t, []string{"cat", "dog", "zxqv", "sun"})
	ref := NewWordSet("cat", "sun", "tree")

	out := Apply(table, ref)

	want := []string{"cat", "sun"}
	got := out.Words()
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestApplyAlwaysKeepSets(t *testing.T) {
	table := buildTable(t, []string{"cat", "dog", "zxqv"})
	ref := NewWordSet("cat")
	rated := NewWordSet("zxqv")

	out := Apply(table, ref, rated)

	if !out.HasWord("zxqv") {
		t.Error("always-keep word dropped")
	}
	if out.HasWord("dog") {
		t.Error("unattested word kept")
	}
	// zxqv was row 2 in the input, so its valence is missing; the filter
	// must not impute it.
	if _, ok := out.Value("zxqv", "valence"); ok {
		t.Error("missing cell imputed by filter")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	table := buildTable(t, []string{"cat", "dog", "sun", "star"})
	ref := NewWordSet("cat", "star")

	once := Apply(table, ref)
	twice := Apply(once, ref)

	if once.Len() != twice.Len() {
		t.Fatalf("second application changed row count: %d -> %d", once.Len(), twice.Len())
	}
	for i, w := range once.Words() {
		if twice.Words()[i] != w {
			t.Errorf("row %d changed: %q -> %q", i, w, twice.Words()[i])
		}
	}
}

func TestWordSetNormalizes(t *testing.T) {
	s := NewWordSet(" CAT ", "", "dog")
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (empty keys ignored)", s.Len())
	}
	if !s.Has("cat") || !s.Has("Cat ") {
		t.Error("membership should be normalization-insensitive")
	}
}

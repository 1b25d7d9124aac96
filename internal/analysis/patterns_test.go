package analysis_test

import (
	"reflect"
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
)

func w(text string, start, end float64) analysis.TranscribedWord {
	return analysis.TranscribedWord{Text: text, Start: start, End: end}
}

func TestFindPatterns_SingleWordWithTimestamps(t *testing.T) {
	t.Parallel()
	words := []analysis.TranscribedWord{
		w("Ну,", 0.5, 0.8),
		w("сегодня", 0.9, 1.4),
		w("мы", 1.5, 1.6),
		w("ну", 4.0, 4.2),
		w("продолжим", 4.3, 5.0),
	}
	patterns := []analysis.Pattern{analysis.MustPattern(`ну`)}

	hits, total := analysis.FindPatterns(words, patterns)
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(hits) != 1 || hits[0].Count != 2 {
		t.Fatalf("hits = %+v, want one pattern with count 2", hits)
	}
	occ := hits[0].Occurrences
	if occ[0].Start != 0.5 || occ[0].End != 0.8 {
		t.Errorf("first occurrence at (%v, %v), want (0.5, 0.8)", occ[0].Start, occ[0].End)
	}
	if occ[1].Start != 4.0 || occ[1].End != 4.2 {
		t.Errorf("second occurrence at (%v, %v), want (4.0, 4.2)", occ[1].Start, occ[1].End)
	}
}

func TestFindPatterns_MultiWordSpansWords(t *testing.T) {
	t.Parallel()
	words := []analysis.TranscribedWord{
		w("это", 0, 0.3),
		w("как", 0.4, 0.6),
		w("бы", 0.7, 0.9),
		w("важно", 1.0, 1.5),
	}
	patterns := []analysis.Pattern{analysis.MustPattern(`как бы`)}

	hits, total := analysis.FindPatterns(words, patterns)
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	occ := hits[0].Occurrences[0]
	if occ.Start != 0.4 {
		t.Errorf("start = %v, want start of first matched word 0.4", occ.Start)
	}
	if occ.End != 0.9 {
		t.Errorf("end = %v, want end of last matched word 0.9", occ.End)
	}
	if occ.Text != "как бы" {
		t.Errorf("text = %q, want %q", occ.Text, "как бы")
	}
}

func TestFindPatterns_TokenBoundaries(t *testing.T) {
	t.Parallel()
	// "вот" embedded in a longer word must not match.
	words := []analysis.TranscribedWord{
		w("поворот", 0, 0.5),
		w("вот", 0.6, 0.8),
		w("вотчина", 0.9, 1.4),
	}
	patterns := []analysis.Pattern{analysis.MustPattern(`вот`)}

	hits, total := analysis.FindPatterns(words, patterns)
	if total != 1 {
		t.Fatalf("total = %d, want only the standalone token to match", total)
	}
	if hits[0].Occurrences[0].Start != 0.6 {
		t.Errorf("matched the wrong word: %+v", hits[0].Occurrences[0])
	}
}

func TestFindPatterns_HyphenatedCompound(t *testing.T) {
	t.Parallel()
	// Hyphens are token boundaries: both halves of "вот-вот" match, each hit
	// carrying the compound word's timestamps.
	words := []analysis.TranscribedWord{
		w("вот-вот", 0, 0.5),
		w("начнём", 0.6, 1.2),
	}
	patterns := []analysis.Pattern{analysis.MustPattern(`вот`)}

	hits, total := analysis.FindPatterns(words, patterns)
	if total != 2 {
		t.Fatalf("total = %d, want both halves of the compound", total)
	}
	for _, occ := range hits[0].Occurrences {
		if occ.Start != 0 || occ.End != 0.5 {
			t.Errorf("occurrence at (%v, %v), want the compound word's (0, 0.5)", occ.Start, occ.End)
		}
	}
}

func TestFindPatterns_ZeroHitPatternsOmitted(t *testing.T) {
	t.Parallel()
	words := []analysis.TranscribedWord{w("доклад", 0, 0.5)}
	patterns := []analysis.Pattern{
		analysis.MustPattern(`ну`),
		analysis.MustPattern(`доклад`),
	}
	hits, total := analysis.FindPatterns(words, patterns)
	if total != 1 || len(hits) != 1 {
		t.Fatalf("hits = %+v total = %d, want only the matching pattern present", hits, total)
	}
	if hits[0].Pattern != `доклад` {
		t.Errorf("hits[0].Pattern = %q", hits[0].Pattern)
	}
}

func TestFindPatterns_Deterministic(t *testing.T) {
	t.Parallel()
	words := []analysis.TranscribedWord{
		w("ну", 0, 0.2), w("вот", 0.3, 0.5), w("как", 0.6, 0.7),
		w("бы", 0.8, 0.9), w("итог", 1.0, 1.4),
	}
	catalog := analysis.CatalogFor("ru")

	first, firstTotal := analysis.FindPatterns(words, catalog.Fillers)
	second, secondTotal := analysis.FindPatterns(words, catalog.Fillers)
	if firstTotal != secondTotal || !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different results")
	}
}

func TestFindPatterns_EmptyInput(t *testing.T) {
	t.Parallel()
	hits, total := analysis.FindPatterns(nil, analysis.CatalogFor("ru").Fillers)
	if hits != nil || total != 0 {
		t.Errorf("empty input: hits=%v total=%d, want nil/0", hits, total)
	}
}

func TestCatalogFor_UnknownLanguageEmpty(t *testing.T) {
	t.Parallel()
	c := analysis.CatalogFor("fr")
	if len(c.Fillers) != 0 || len(c.Hedges) != 0 {
		t.Error("unknown language should yield an empty catalogue")
	}
}

func TestFlatten_Chronological(t *testing.T) {
	t.Parallel()
	hits := []analysis.PatternHits{
		{Pattern: "b", Count: 1, Occurrences: []analysis.PatternOccurrence{{Start: 5, End: 5.2}}},
		{Pattern: "a", Count: 2, Occurrences: []analysis.PatternOccurrence{
			{Start: 1, End: 1.2}, {Start: 9, End: 9.1},
		}},
	}
	flat := analysis.Flatten(hits)
	if len(flat) != 3 {
		t.Fatalf("len = %d, want 3", len(flat))
	}
	if flat[0].Start != 1 || flat[1].Start != 5 || flat[2].Start != 9 {
		t.Errorf("not chronological: %+v", flat)
	}
}

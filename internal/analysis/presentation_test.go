package analysis_test

import (
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
)

func checklistWith(statuses map[string]analysis.Status) []analysis.ChecklistItem {
	keys := []string{"pace", "pauses", "fillers", "hedges", "coverage", "timing", "spoken_ratio", "mic_loudness", "mic_noise"}
	items := make([]analysis.ChecklistItem, 0, len(keys))
	for _, key := range keys {
		status, ok := statuses[key]
		if !ok {
			status = analysis.StatusGood
		}
		items = append(items, analysis.ChecklistItem{Key: key, Label: key, Status: status})
	}
	return items
}

func TestPresent_GroupScores(t *testing.T) {
	t.Parallel()
	p := analysis.Present(checklistWith(map[string]analysis.Status{
		"pace":   analysis.StatusWarning, // delivery: 0.75 + 3×1.0 → 93.8
		"hedges": analysis.StatusError,   // language: 1.0 + 0.40 → 70.0
		"timing": analysis.StatusGood,
	}))

	if len(p.Groups) != 4 {
		t.Fatalf("got %d groups, want 4", len(p.Groups))
	}
	byName := map[string]analysis.GroupScore{}
	for _, g := range p.Groups {
		byName[g.Name] = g
	}

	if got := *byName["delivery"].Score; got != 93.8 {
		t.Errorf("delivery score = %v, want 93.8", got)
	}
	if got := *byName["language"].Score; got != 70.0 {
		t.Errorf("language score = %v, want 70.0", got)
	}
	if got := *byName["content"].Score; got != 100.0 {
		t.Errorf("content score = %v, want 100.0", got)
	}
}

func TestPresent_NotApplicableExcluded(t *testing.T) {
	t.Parallel()
	p := analysis.Present(checklistWith(map[string]analysis.Status{
		"coverage": analysis.StatusNotApplicable,
	}))
	for _, g := range p.Groups {
		if g.Name == "content" {
			if g.Score != nil {
				t.Errorf("content score = %v, want nil when its only item is not applicable", *g.Score)
			}
			return
		}
	}
	t.Fatal("content group missing")
}

func TestPresent_Tone(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		statuses map[string]analysis.Status
		want     string
	}{
		{
			name: "three errors reads critical",
			statuses: map[string]analysis.Status{
				"pace": analysis.StatusError, "fillers": analysis.StatusError, "mic_noise": analysis.StatusError,
			},
			want: "critical",
		},
		{
			name: "four warnings reads moderate",
			statuses: map[string]analysis.Status{
				"pace": analysis.StatusWarning, "pauses": analysis.StatusWarning,
				"fillers": analysis.StatusWarning, "hedges": analysis.StatusWarning,
			},
			want: "moderate",
		},
		{
			name:     "all good reads positive",
			statuses: nil,
			want:     "positive",
		},
		{
			name: "two errors still positive",
			statuses: map[string]analysis.Status{
				"pace": analysis.StatusError, "fillers": analysis.StatusError,
			},
			want: "positive",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := analysis.Present(checklistWith(tt.statuses))
			if p.Tone != tt.want {
				t.Errorf("tone = %q, want %q", p.Tone, tt.want)
			}
		})
	}
}

func TestPresent_StrengthsAndAreas(t *testing.T) {
	t.Parallel()
	p := analysis.Present(checklistWith(map[string]analysis.Status{
		"pace":     analysis.StatusWarning,
		"coverage": analysis.StatusNotApplicable,
	}))
	if len(p.Areas) != 1 || p.Areas[0] != "pace" {
		t.Errorf("areas = %v, want [pace]", p.Areas)
	}
	// 9 items − 1 warning − 1 not-applicable.
	if len(p.Strengths) != 7 {
		t.Errorf("strengths = %v, want the 7 good items", p.Strengths)
	}
}

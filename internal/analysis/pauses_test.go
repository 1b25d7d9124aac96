package analysis_test

import (
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
)

func TestDetectPauses(t *testing.T) {
	t.Parallel()
	segments := []analysis.SpeechSegment{
		{Start: 0.0, End: 4.0},
		{Start: 6.5, End: 10.0}, // 2.5s gap
		{Start: 11.0, End: 15.0}, // 1.0s gap, below threshold
	}

	pauses, spoken, overall := analysis.DetectPauses(segments, 2.0, 16.0)

	if len(pauses) != 1 {
		t.Fatalf("got %d pauses, want 1: %v", len(pauses), pauses)
	}
	p := pauses[0]
	if p.Start != 4.0 || p.End != 6.5 || p.Duration != 2.5 {
		t.Errorf("pause = %+v, want {4 6.5 2.5}", p)
	}
	if spoken != 11.0 {
		t.Errorf("spoken = %v, want 11", spoken)
	}
	if overall != 16.0 {
		t.Errorf("overall = %v, want 16", overall)
	}
}

func TestDetectPauses_GapExactlyAtThreshold(t *testing.T) {
	t.Parallel()
	segments := []analysis.SpeechSegment{
		{Start: 0, End: 1},
		{Start: 3, End: 4}, // exactly 2.0s
	}
	pauses, _, _ := analysis.DetectPauses(segments, 2.0, 4)
	if len(pauses) != 1 {
		t.Fatalf("a gap equal to the threshold must count, got %d pauses", len(pauses))
	}
}

func TestDetectPauses_UnderReportedTotal(t *testing.T) {
	t.Parallel()
	segments := []analysis.SpeechSegment{{Start: 0, End: 20}}
	_, _, overall := analysis.DetectPauses(segments, 2.0, 12)
	if overall != 20 {
		t.Errorf("overall = %v, want last segment end 20 when the reported total is smaller", overall)
	}
}

func TestDetectPauses_Empty(t *testing.T) {
	t.Parallel()
	pauses, spoken, overall := analysis.DetectPauses(nil, 2.0, 0)
	if len(pauses) != 0 || spoken != 0 || overall != 0 {
		t.Errorf("empty input: pauses=%v spoken=%v overall=%v, want all zero", pauses, spoken, overall)
	}
	if pauses == nil {
		t.Error("pauses should be an empty slice, not nil")
	}
}

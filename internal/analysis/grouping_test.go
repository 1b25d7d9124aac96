package analysis_test

import (
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
)

func TestGroupSegments(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		segments   []analysis.TranscriptSegment
		maxSeconds float64
		maxWords   int
		want       []string
	}{
		{
			name:       "empty input",
			segments:   nil,
			maxSeconds: 12,
			maxWords:   60,
			want:       nil,
		},
		{
			name: "all fit one window",
			segments: []analysis.TranscriptSegment{
				{Start: 0, End: 3, Text: "добрый день"},
				{Start: 3, End: 6, Text: "начнём с планов"},
			},
			maxSeconds: 12,
			maxWords:   60,
			want:       []string{"добрый день начнём с планов"},
		},
		{
			name: "time bound closes window",
			segments: []analysis.TranscriptSegment{
				{Start: 0, End: 10, Text: "первая часть"},
				{Start: 10, End: 20, Text: "вторая часть"},
			},
			maxSeconds: 12,
			maxWords:   60,
			want:       []string{"первая часть", "вторая часть"},
		},
		{
			name: "word bound closes window",
			segments: []analysis.TranscriptSegment{
				{Start: 0, End: 1, Text: "один два три"},
				{Start: 1, End: 2, Text: "четыре пять"},
			},
			maxSeconds: 12,
			maxWords:   4,
			want:       []string{"один два три", "четыре пять"},
		},
		{
			name: "whitespace-only segments dropped",
			segments: []analysis.TranscriptSegment{
				{Start: 0, End: 1, Text: "  "},
				{Start: 1, End: 2, Text: "текст доклада"},
			},
			maxSeconds: 12,
			maxWords:   60,
			want:       []string{"текст доклада"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := analysis.GroupSegments(tt.segments, tt.maxSeconds, tt.maxWords)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d windows %v, want %v", len(got), got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("window[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

package analysis_test

import (
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
)

func TestCountWords(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"punctuation only", "… — !?", 0},
		{"simple russian", "привет мир", 2},
		{"hyphenated counts once", "по-моему это так", 3},
		{"apostrophe counts once", "don't stop", 2},
		{"mixed scripts and digits", "slide 3 показывает итоги", 4},
		{"punctuation attached", "Ну, вот: итог!", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := analysis.CountWords(tt.in); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokens_Order(t *testing.T) {
	t.Parallel()
	got := analysis.Tokens("Ну, вот и всё.")
	want := []string{"Ну", "вот", "и", "всё"}
	if len(got) != len(want) {
		t.Fatalf("Tokens returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

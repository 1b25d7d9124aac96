package audio_test

import (
	"math"
	"testing"

	"github.com/oratorlab/cadence/pkg/audio"
)

func TestDownmixMono(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		samples  []float32
		channels int
		want     []float32
	}{
		{
			name:     "stereo averages pairs",
			samples:  []float32{1, 0, 0.5, -0.5},
			channels: 2,
			want:     []float32{0.5, 0},
		},
		{
			name:     "mono passes through",
			samples:  []float32{0.1, 0.2},
			channels: 1,
			want:     []float32{0.1, 0.2},
		},
		{
			name:     "trailing partial frame dropped",
			samples:  []float32{0.4, 0.4, 0.9},
			channels: 2,
			want:     []float32{0.4},
		},
		{
			name:     "quad",
			samples:  []float32{1, 1, 0, 0},
			channels: 4,
			want:     []float32{0.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := audio.DownmixMono(tt.samples, tt.channels)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d frames, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Errorf("frame[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResampleMono_Downsample(t *testing.T) {
	t.Parallel()
	in := make([]float32, 32000) // one second at 32 kHz
	for i := range in {
		in[i] = float32(i) / float32(len(in))
	}
	out := audio.ResampleMono(in, 32000, 16000)
	if len(out) != 16000 {
		t.Fatalf("got %d samples, want 16000", len(out))
	}
	// A linear ramp must survive linear interpolation.
	mid := out[8000]
	if math.Abs(float64(mid)-0.5) > 1e-3 {
		t.Errorf("midpoint = %v, want ≈0.5", mid)
	}
}

func TestResampleMono_Upsample(t *testing.T) {
	t.Parallel()
	out := audio.ResampleMono([]float32{0, 1}, 1, 4)
	if len(out) != 8 {
		t.Fatalf("got %d samples, want 8", len(out))
	}
	if out[0] != 0 {
		t.Errorf("first sample = %v, want 0", out[0])
	}
	if got := out[len(out)-1]; got != 1 {
		t.Errorf("last sample = %v, want the held final input sample 1", got)
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("interpolated ramp not monotonic at %d: %v < %v", i, out[i], out[i-1])
		}
	}
}

func TestResampleMono_NoOp(t *testing.T) {
	t.Parallel()
	in := []float32{0.1, 0.2, 0.3}
	if got := audio.ResampleMono(in, 16000, 16000); len(got) != 3 {
		t.Errorf("same-rate resample changed length: %d", len(got))
	}
	if got := audio.ResampleMono(nil, 8000, 16000); len(got) != 0 {
		t.Errorf("empty input should stay empty, got %d samples", len(got))
	}
}

package analysis_test

import (
	"math"
	"testing"

	"github.com/oratorlab/cadence/internal/analysis"
	"github.com/oratorlab/cadence/pkg/audio"
)

// flatWave builds a waveform of constant-level spans: speech at 0.5 for the
// first second, background at 0.05 for the second.
func flatWave(rate int) audio.Waveform {
	samples := make([]float32, 2*rate)
	for i := 0; i < rate; i++ {
		samples[i] = 0.5
	}
	for i := rate; i < 2*rate; i++ {
		samples[i] = 0.05
	}
	return audio.Waveform{Samples: samples, SampleRate: rate}
}

func TestAnalyzeQuality_LevelsAndSNR(t *testing.T) {
	t.Parallel()
	wave := flatWave(1000)
	segments := []analysis.SpeechSegment{{Start: 0, End: 1}}

	q := analysis.AnalyzeQuality(wave, segments)

	if q.SpeechRMSdBFS == nil || q.SpeechPeakdBFS == nil || q.NoiseRMSdBFS == nil || q.SNRdB == nil {
		t.Fatalf("all fields should be measured: %+v", q)
	}
	if got, want := *q.SpeechRMSdBFS, -6.02; math.Abs(got-want) > 0.01 {
		t.Errorf("speech RMS = %v dBFS, want ~%v", got, want)
	}
	if got, want := *q.NoiseRMSdBFS, -26.02; math.Abs(got-want) > 0.01 {
		t.Errorf("noise RMS = %v dBFS, want ~%v", got, want)
	}
	if got, want := *q.SNRdB, 20.0; math.Abs(got-want) > 0.01 {
		t.Errorf("SNR = %v dB, want ~%v", got, want)
	}
	if *q.ClippingRatio != 0 {
		t.Errorf("clipping ratio = %v, want 0", *q.ClippingRatio)
	}
}

func TestAnalyzeQuality_Clipping(t *testing.T) {
	t.Parallel()
	rate := 1000
	samples := make([]float32, rate)
	for i := range samples {
		samples[i] = 0.5
	}
	for i := 0; i < 10; i++ {
		samples[i] = 1.0
	}
	wave := audio.Waveform{Samples: samples, SampleRate: rate}

	q := analysis.AnalyzeQuality(wave, []analysis.SpeechSegment{{Start: 0, End: 1}})
	if q.ClippingRatio == nil {
		t.Fatal("clipping ratio should be measured")
	}
	if got, want := *q.ClippingRatio, 0.01; math.Abs(got-want) > 0.0005 {
		t.Errorf("clipping ratio = %v, want %v", got, want)
	}
}

func TestAnalyzeQuality_ShortGapsExcludedFromNoise(t *testing.T) {
	t.Parallel()
	wave := flatWave(1000)
	// 0.1s gap between segments, below the noise-gap floor; no trailing gap.
	segments := []analysis.SpeechSegment{
		{Start: 0, End: 0.95},
		{Start: 1.05, End: 2},
	}

	q := analysis.AnalyzeQuality(wave, segments)
	if q.NoiseRMSdBFS != nil {
		t.Errorf("noise RMS = %v, want nil with only sub-threshold gaps", *q.NoiseRMSdBFS)
	}
	if q.SNRdB != nil {
		t.Errorf("SNR = %v, want nil without a noise signal", *q.SNRdB)
	}
	if q.SpeechRMSdBFS == nil {
		t.Error("speech RMS should still be measured")
	}
}

func TestAnalyzeQuality_EmptyInputs(t *testing.T) {
	t.Parallel()
	q := analysis.AnalyzeQuality(audio.Waveform{}, nil)
	if q.SpeechRMSdBFS != nil || q.SpeechPeakdBFS != nil || q.ClippingRatio != nil ||
		q.NoiseRMSdBFS != nil || q.SNRdB != nil {
		t.Errorf("empty waveform should leave every field nil: %+v", q)
	}

	// A waveform with no speech segments has no speech signal; the whole file
	// is noise.
	wave := flatWave(1000)
	q = analysis.AnalyzeQuality(wave, nil)
	if q.SpeechRMSdBFS != nil {
		t.Error("speech RMS should be nil without segments")
	}
	if q.NoiseRMSdBFS == nil {
		t.Error("noise RMS should cover the whole file without segments")
	}
}

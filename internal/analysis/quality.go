package analysis

import (
	"math"

	"github.com/oratorlab/cadence/pkg/audio"
)

// clippingLevel is the absolute sample value at or above which a sample
// counts as clipped (near full scale).
const clippingLevel = 0.999

// minNoiseGapSec excludes very short inter-segment gaps from the noise
// signal; VAD boundary jitter would otherwise leak speech into it.
const minNoiseGapSec = 0.15

// MicQuality is the recording-quality section of the report. Every field is
// nil when its source signal is empty (no speech, or no noise-only gaps).
type MicQuality struct {
	SpeechRMSdBFS  *float64 `json:"speech_rms_dbfs"`
	SpeechPeakdBFS *float64 `json:"speech_peak_dbfs"`
	ClippingRatio  *float64 `json:"clipping_ratio"`
	NoiseRMSdBFS   *float64 `json:"noise_rms_dbfs"`
	SNRdB          *float64 `json:"snr_db"`
}

// AnalyzeQuality splits the waveform into a speech signal (samples inside
// VAD segments) and a noise signal (the complement, excluding gaps shorter
// than minNoiseGapSec) and measures levels on each.
func AnalyzeQuality(wave audio.Waveform, segments []SpeechSegment) MicQuality {
	var q MicQuality
	if len(wave.Samples) == 0 || wave.SampleRate <= 0 {
		return q
	}

	speech := sliceRanges(wave, speechRanges(wave, segments))
	noise := sliceRanges(wave, noiseRanges(wave, segments))

	if len(speech) > 0 {
		if rms := rmsOf(speech); rms > 0 {
			q.SpeechRMSdBFS = ptr(round2(dbfs(rms)))
		}
		if peak := peakOf(speech); peak > 0 {
			q.SpeechPeakdBFS = ptr(round2(dbfs(peak)))
		}
		clipped := 0
		for _, s := range speech {
			if math.Abs(float64(s)) >= clippingLevel {
				clipped++
			}
		}
		q.ClippingRatio = ptr(round3(float64(clipped) / float64(len(speech))))
	}

	if len(noise) > 0 {
		if rms := rmsOf(noise); rms > 0 {
			q.NoiseRMSdBFS = ptr(round2(dbfs(rms)))
		}
	}

	if q.SpeechRMSdBFS != nil && q.NoiseRMSdBFS != nil {
		q.SNRdB = ptr(round2(*q.SpeechRMSdBFS - *q.NoiseRMSdBFS))
	}
	return q
}

// sampleRange is a half-open sample index interval [from, to).
type sampleRange struct{ from, to int }

func speechRanges(wave audio.Waveform, segments []SpeechSegment) []sampleRange {
	var out []sampleRange
	for _, s := range segments {
		if r, ok := clampRange(wave, s.Start, s.End); ok {
			out = append(out, r)
		}
	}
	return out
}

func noiseRanges(wave audio.Waveform, segments []SpeechSegment) []sampleRange {
	var out []sampleRange
	cursor := 0.0
	total := wave.Duration()
	for _, s := range segments {
		if s.Start-cursor >= minNoiseGapSec {
			if r, ok := clampRange(wave, cursor, s.Start); ok {
				out = append(out, r)
			}
		}
		if s.End > cursor {
			cursor = s.End
		}
	}
	if total-cursor >= minNoiseGapSec {
		if r, ok := clampRange(wave, cursor, total); ok {
			out = append(out, r)
		}
	}
	return out
}

func clampRange(wave audio.Waveform, startSec, endSec float64) (sampleRange, bool) {
	from := int(startSec * float64(wave.SampleRate))
	to := int(endSec * float64(wave.SampleRate))
	if from < 0 {
		from = 0
	}
	if to > len(wave.Samples) {
		to = len(wave.Samples)
	}
	if from >= to {
		return sampleRange{}, false
	}
	return sampleRange{from: from, to: to}, true
}

func sliceRanges(wave audio.Waveform, ranges []sampleRange) []float32 {
	var n int
	for _, r := range ranges {
		n += r.to - r.from
	}
	out := make([]float32, 0, n)
	for _, r := range ranges {
		out = append(out, wave.Samples[r.from:r.to]...)
	}
	return out
}

func rmsOf(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func peakOf(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		if v := math.Abs(float64(s)); v > peak {
			peak = v
		}
	}
	return peak
}

// dbfs converts a linear level in (0, 1] to decibels relative to full scale.
func dbfs(level float64) float64 {
	return 20 * math.Log10(level)
}

func ptr(v float64) *float64 { return &v }

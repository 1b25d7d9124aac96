package audio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/oratorlab/cadence/pkg/audio"
)

// buildWAV assembles a minimal RIFF/WAVE payload from a fmt description and a
// raw sample body.
func buildWAV(format uint16, channels uint16, rate uint32, bits uint16, body []byte) []byte {
	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, format)
	binary.Write(&fmtChunk, binary.LittleEndian, channels)
	binary.Write(&fmtChunk, binary.LittleEndian, rate)
	binary.Write(&fmtChunk, binary.LittleEndian, rate*uint32(channels)*uint32(bits)/8) // byte rate
	binary.Write(&fmtChunk, binary.LittleEndian, channels*bits/8)                      // block align
	binary.Write(&fmtChunk, binary.LittleEndian, bits)

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(4+8+fmtChunk.Len()+8+len(body)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(fmtChunk.Len()))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(len(body)))
	out.Write(body)
	return out.Bytes()
}

func pcm16Body(samples ...int16) []byte {
	var body bytes.Buffer
	for _, s := range samples {
		binary.Write(&body, binary.LittleEndian, s)
	}
	return body.Bytes()
}

func float32Body(samples ...float32) []byte {
	var body bytes.Buffer
	for _, s := range samples {
		binary.Write(&body, binary.LittleEndian, s)
	}
	return body.Bytes()
}

func TestDecodeWAV_PCM16Mono(t *testing.T) {
	t.Parallel()
	data := buildWAV(1, 1, 16000, 16, pcm16Body(0, 16384, -16384, 32767))

	w, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatal(err)
	}
	if w.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", w.SampleRate)
	}
	want := []float32{0, 0.5, -0.5, float32(32767) / 32768}
	if len(w.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(w.Samples), len(want))
	}
	for i, s := range w.Samples {
		if math.Abs(float64(s-want[i])) > 1e-6 {
			t.Errorf("sample[%d] = %v, want %v", i, s, want[i])
		}
	}
}

func TestDecodeWAV_StereoDownmix(t *testing.T) {
	t.Parallel()
	// Interleaved L/R frames: (0.5, -0.5) → 0, (0.5, 0.25) → 0.375.
	data := buildWAV(1, 2, 44100, 16, pcm16Body(16384, -16384, 16384, 8192))

	w, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Samples) != 2 {
		t.Fatalf("got %d mono samples, want 2", len(w.Samples))
	}
	if math.Abs(float64(w.Samples[0])) > 1e-6 {
		t.Errorf("frame 0 = %v, want 0", w.Samples[0])
	}
	if math.Abs(float64(w.Samples[1]-0.375)) > 1e-6 {
		t.Errorf("frame 1 = %v, want 0.375", w.Samples[1])
	}
}

func TestDecodeWAV_Float32(t *testing.T) {
	t.Parallel()
	data := buildWAV(3, 1, 48000, 32, float32Body(0.25, -1, 1))

	w, err := audio.DecodeWAV(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{0.25, -1, 1}
	if len(w.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(w.Samples), len(want))
	}
	for i, s := range w.Samples {
		if s != want[i] {
			t.Errorf("sample[%d] = %v, want %v", i, s, want[i])
		}
	}
}

func TestDecodeWAV_UnsupportedEncoding(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		format uint16
		bits   uint16
	}{
		{"24-bit pcm", 1, 24},
		{"adpcm", 2, 4},
		{"8-bit pcm", 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := buildWAV(tt.format, 1, 16000, tt.bits, make([]byte, 12))
			_, err := audio.DecodeWAV(data)
			if !errors.Is(err, audio.ErrUnsupportedWAV) {
				t.Errorf("err = %v, want ErrUnsupportedWAV", err)
			}
		})
	}
}

func TestDecodeWAV_NotRIFF(t *testing.T) {
	t.Parallel()
	_, err := audio.DecodeWAV([]byte("OggS\x00\x00\x00\x00junkjunk"))
	if err == nil {
		t.Fatal("expected error for a non-RIFF payload")
	}
	if errors.Is(err, audio.ErrUnsupportedWAV) {
		t.Error("a non-RIFF payload is malformed, not an unsupported WAV encoding")
	}
}

func TestDecodeWAV_MissingDataChunk(t *testing.T) {
	t.Parallel()
	// fmt chunk only.
	full := buildWAV(1, 1, 16000, 16, nil)
	truncated := full[:len(full)-8] // strip the empty data chunk header
	if _, err := audio.DecodeWAV(truncated); err == nil {
		t.Fatal("expected error when the data chunk is missing")
	}
}

func TestWaveform_Duration(t *testing.T) {
	t.Parallel()
	w := audio.Waveform{Samples: make([]float32, 16000*3), SampleRate: 16000}
	if got := w.Duration(); got != 3.0 {
		t.Errorf("duration = %v, want 3.0", got)
	}
	if got := (audio.Waveform{}).Duration(); got != 0 {
		t.Errorf("empty waveform duration = %v, want 0", got)
	}
}

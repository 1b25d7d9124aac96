// Package audio provides mono waveform loading and light sample processing
// for the recording-quality analyzer.
//
// WAV files with 16-bit PCM or 32-bit float payloads are decoded directly.
// Every other container/codec is handed to ffmpeg, which must be available on
// PATH in that case.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultSampleRate is the rate ffmpeg-decoded audio is resampled to. It
// matches what whisper-family transcribers expect, so a single decode can
// serve both transcription and quality analysis.
const DefaultSampleRate = 16000

// ErrUnsupportedWAV is returned by DecodeWAV for WAV payloads it cannot
// decode directly (e.g. 24-bit PCM, ADPCM). Callers should fall back to
// ffmpeg via Load.
var ErrUnsupportedWAV = errors.New("audio: unsupported wav encoding")

// Waveform is a mono audio signal with samples in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the waveform in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Load decodes the audio file at path into a mono waveform. WAV files are
// parsed in-process; anything else (mp3, m4a, ogg, …) is decoded by shelling
// out to ffmpeg at DefaultSampleRate.
func Load(ctx context.Context, path string) (Waveform, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		data, err := os.ReadFile(path)
		if err != nil {
			return Waveform{}, fmt.Errorf("audio: read %q: %w", path, err)
		}
		w, err := DecodeWAV(data)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, ErrUnsupportedWAV) {
			return Waveform{}, err
		}
		// Unusual WAV payload: let ffmpeg deal with it.
	}
	return ffmpegDecode(ctx, path)
}

// DecodeWAV parses a RIFF/WAVE payload containing 16-bit PCM or 32-bit IEEE
// float samples. Multi-channel audio is downmixed to mono by averaging.
func DecodeWAV(data []byte) (Waveform, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Waveform{}, fmt.Errorf("audio: not a RIFF/WAVE payload")
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bits       int
		pcm        []byte
	)

	// Walk the chunk list. Chunks are word-aligned.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return Waveform{}, fmt.Errorf("audio: truncated fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if channels <= 0 || sampleRate <= 0 || pcm == nil {
		return Waveform{}, fmt.Errorf("audio: missing fmt or data chunk")
	}

	var samples []float32
	switch {
	case format == 1 && bits == 16:
		samples = decodePCM16(pcm)
	case format == 3 && bits == 32:
		samples = decodeFloat32(pcm)
	default:
		return Waveform{}, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupportedWAV, format, bits)
	}

	if channels > 1 {
		samples = DownmixMono(samples, channels)
	}
	return Waveform{Samples: samples, SampleRate: sampleRate}, nil
}

func decodePCM16(pcm []byte) []float32 {
	out := make([]float32, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		s := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		out = append(out, float32(s)/32768.0)
	}
	return out
}

func decodeFloat32(pcm []byte) []float32 {
	out := make([]float32, 0, len(pcm)/4)
	for i := 0; i+3 < len(pcm); i += 4 {
		out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(pcm[i:i+4])))
	}
	return out
}

// ffmpegDecode shells out to ffmpeg for containers we do not parse natively,
// producing raw 32-bit float little-endian mono samples on stdout.
func ffmpegDecode(ctx context.Context, path string) (Waveform, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "f32le",
		"-ac", "1",
		"-ar", strconv.Itoa(DefaultSampleRate),
		"-",
	)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = err.Error()
		}
		return Waveform{}, fmt.Errorf("audio: ffmpeg decode %q: %s", path, msg)
	}
	return Waveform{
		Samples:    decodeFloat32(out.Bytes()),
		SampleRate: DefaultSampleRate,
	}, nil
}

// Package whispersrv provides a transcribe.Provider backed by a
// whisper-compatible HTTP server (faster-whisper-server, whisper.cpp
// server, or anything speaking the same /transcribe contract).
//
// The server is expected to accept a multipart upload ("file" plus optional
// "language"/"model" fields) and respond with JSON carrying segments and
// word timestamps:
//
//	{
//	  "language": "ru",
//	  "duration": 63.2,
//	  "segments": [
//	    {"start": 0.0, "end": 4.1, "text": "…",
//	     "words": [{"word": "…", "start": 0.0, "end": 0.4}]}
//	  ]
//	}
package whispersrv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oratorlab/cadence/pkg/provider/transcribe"
)

// Compile-time assertion that Client satisfies transcribe.Provider.
var _ transcribe.Provider = (*Client)(nil)

const defaultTimeout = 5 * time.Minute

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithModel sets the model identifier forwarded to the server (e.g. "small").
// When empty the server uses whichever model it was started with.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTimeout overrides the per-request HTTP timeout. Batch transcription of
// long recordings can take minutes; the default is 5 minutes.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// Client implements transcribe.Provider against a whisper HTTP server.
type Client struct {
	serverURL  string
	model      string
	httpClient *http.Client
}

// New creates a Client for the server at serverURL
// (e.g. "http://localhost:8080"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Client, error) {
	if serverURL == "" {
		return nil, errors.New("whispersrv: serverURL must not be empty")
	}
	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// wire types for the server response.
type respBody struct {
	Language string        `json:"language"`
	Duration float64       `json:"duration"`
	Segments []respSegment `json:"segments"`
}

type respSegment struct {
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Text  string     `json:"text"`
	Words []respWord `json:"words"`
}

type respWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcribe implements transcribe.Provider.
func (c *Client) Transcribe(ctx context.Context, audioPath string, cfg transcribe.Config) (*transcribe.Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("whispersrv: open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("whispersrv: build request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("whispersrv: read audio: %w", err)
	}
	if cfg.Language != "" {
		if err := mw.WriteField("language", cfg.Language); err != nil {
			return nil, fmt.Errorf("whispersrv: build request: %w", err)
		}
	}
	model := cfg.Model
	if model == "" {
		model = c.model
	}
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			return nil, fmt.Errorf("whispersrv: build request: %w", err)
		}
	}
	if err := mw.WriteField("word_timestamps", "true"); err != nil {
		return nil, fmt.Errorf("whispersrv: build request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("whispersrv: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/transcribe", &body)
	if err != nil {
		return nil, fmt.Errorf("whispersrv: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whispersrv: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whispersrv: server returned %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var parsed respBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("whispersrv: decode response: %w", err)
	}
	return convert(parsed), nil
}

// convert maps the wire response into a transcribe.Result, trimming word and
// segment text and joining segment texts into the full transcript.
func convert(body respBody) *transcribe.Result {
	res := &transcribe.Result{
		Duration: body.Duration,
		Language: body.Language,
		Words:    []transcribe.Word{},
	}
	var parts []string
	for _, seg := range body.Segments {
		text := strings.TrimSpace(seg.Text)
		res.Segments = append(res.Segments, transcribe.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
		if text != "" {
			parts = append(parts, text)
		}
		for _, w := range seg.Words {
			word := strings.TrimSpace(w.Word)
			if word == "" {
				continue
			}
			res.Words = append(res.Words, transcribe.Word{
				Text:  word,
				Start: w.Start,
				End:   w.End,
			})
		}
	}
	res.Text = strings.Join(parts, " ")
	if res.Duration == 0 && len(res.Segments) > 0 {
		res.Duration = res.Segments[len(res.Segments)-1].End
	}
	return res
}

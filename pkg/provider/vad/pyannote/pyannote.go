// Package pyannote provides a vad.Detector backed by a pyannote
// voice-activity-detection microservice.
//
// The service accepts a multipart upload ("file") at POST /vad and responds
// with the merged speech timeline:
//
//	{"segments": [{"start": 0.47, "end": 6.12}, …]}
package pyannote

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
	"sort"
	"strings"
	"time"

	"github.com/oratorlab/cadence/pkg/provider/vad"
)

// Compile-time assertion that Client satisfies vad.Detector.
var _ vad.Detector = (*Client)(nil)

const defaultTimeout = 2 * time.Minute

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithTimeout overrides the per-request HTTP timeout (default 2 minutes).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithToken sets a Bearer token sent with every request, for deployments
// that front the service with authentication.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client implements vad.Detector against a pyannote VAD HTTP service.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// New creates a Client for the service at serverURL. serverURL must be
// non-empty.
func New(serverURL string, opts ...Option) (*Client, error) {
	if serverURL == "" {
		return nil, errors.New("pyannote: serverURL must not be empty")
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

type respBody struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

// DetectSegments implements vad.Detector. The returned intervals are sorted
// by start time regardless of service ordering.
func (c *Client) DetectSegments(ctx context.Context, audioPath string) ([]vad.Interval, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("pyannote: open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("pyannote: build request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("pyannote: read audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("pyannote: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/vad", &body)
	if err != nil {
		return nil, fmt.Errorf("pyannote: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pyannote: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("pyannote: server returned %s: %s",
			resp.Status, strings.TrimSpace(string(msg)))
	}

	var parsed respBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("pyannote: decode response: %w", err)
	}

	segments := make([]vad.Interval, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		if s.End <= s.Start {
			continue
		}
		segments = append(segments, vad.Interval{Start: s.Start, End: s.End})
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })
	return segments, nil
}

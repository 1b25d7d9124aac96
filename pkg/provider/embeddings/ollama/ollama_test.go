package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oratorlab/cadence/pkg/provider/embeddings/ollama"
)

func TestEmbedBatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/embed" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "nomic-embed-text" {
			t.Errorf("model = %q, want nomic-embed-text", body.Model)
		}
		if len(body.Input) != 2 {
			t.Errorf("input = %v, want 2 texts", body.Input)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	t.Cleanup(srv.Close)

	p, err := ollama.New(srv.URL, "nomic-embed-text")
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := p.EmbedBatch(context.Background(), []string{"раз", "два"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 2 || vecs[1][1] != 0.4 {
		t.Errorf("vecs = %v", vecs)
	}
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings": [[0.1]]}`))
	}))
	t.Cleanup(srv.Close)

	p, err := ollama.New(srv.URL, "nomic-embed-text")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.EmbedBatch(context.Background(), []string{"раз", "два"}); err == nil {
		t.Fatal("expected error when the server returns fewer embeddings than inputs")
	}
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	t.Parallel()
	p, err := ollama.New("http://localhost:1", "nomic-embed-text")
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := p.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if vecs != nil {
		t.Errorf("vecs = %v, want nil without a request", vecs)
	}
}

func TestEmbedBatch_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	p, err := ollama.New(srv.URL, "missing-model")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Embed(context.Background(), "текст"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestDimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		model string
		want  int
	}{
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
	}
	for _, tt := range tests {
		p, err := ollama.New("", tt.model)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.Dimensions(); got != tt.want {
			t.Errorf("Dimensions(%q) = %d, want %d", tt.model, got, tt.want)
		}
	}
}

func TestDimensions_ProbeUnknownModel(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings": [[0.1, 0.2, 0.3]]}`))
	}))
	t.Cleanup(srv.Close)

	p, err := ollama.New(srv.URL, "custom-model")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Dimensions(); got != 3 {
		t.Errorf("probed dimensions = %d, want 3", got)
	}
}

func TestDimensions_Override(t *testing.T) {
	t.Parallel()
	p, err := ollama.New("", "custom-model", ollama.WithDimensions(512))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Dimensions(); got != 512 {
		t.Errorf("dimensions = %d, want the 512 override", got)
	}
}

func TestNew_EmptyModel(t *testing.T) {
	t.Parallel()
	if _, err := ollama.New("", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestModelID(t *testing.T) {
	t.Parallel()
	p, err := ollama.New("", "nomic-embed-text")
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "nomic-embed-text" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}

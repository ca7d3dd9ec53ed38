package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newOllamaTestServer(t *testing.T, response string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			var req ollamaRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Stream {
				t.Error("expected stream=false")
			}
			if req.Prompt == "" {
				t.Error("expected a non-empty prompt")
			}
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestOllamaProvider_Summarize(t *testing.T) {
	body := `{"model":"mistral","response":"Tone dipped during the war years.","done":true,"prompt_eval_count":200,"eval_count":40}`
	server := newOllamaTestServer(t, body, http.StatusOK)
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "mistral"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Fatal("IsAvailable() = false, want true")
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Report: sampleReport()})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if resp.Summary != "Tone dipped during the war years." {
		t.Errorf("Summary = %q", resp.Summary)
	}
	if resp.Model != "mistral" {
		t.Errorf("Model = %q, want mistral", resp.Model)
	}
	if resp.TokensUsed != 240 {
		t.Errorf("TokensUsed = %d, want 240", resp.TokensUsed)
	}
}

func TestOllamaProvider_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	if _, err := provider.Summarize(context.Background(), SummarizeRequest{Report: sampleReport()}); err == nil {
		t.Error("expected error without a model name")
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := newOllamaTestServer(t, `{"error":"model not found"}`, http.StatusNotFound)
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "missing"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Report: sampleReport()})
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error = %v, want model not found", err)
	}
}

func TestOllamaProvider_NotAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "mistral"})
	if err != nil {
		t.Fatalf("NewOllamaProvider() error = %v", err)
	}
	if provider.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = true, want false")
	}
}

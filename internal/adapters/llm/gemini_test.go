package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

func TestGemini_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "summarize please") {
			t.Errorf("system instruction missing from body: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": "A short summary."}},
				},
				"finishReason": "STOP",
			}},
		})
	}))
	defer server.Close()

	adapter, err := NewGeminiAdapter(context.Background(), "test-key", server.URL, "gemini-test", time.Second)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	resp, err := adapter.Complete(context.Background(), ports.CompletionRequest{
		SystemPrompt: "summarize please",
		UserContent:  "long text",
		MaxTokens:    150,
		Temperature:  0.3,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp != "A short summary." {
		t.Errorf("unexpected response: %s", resp)
	}
}

func TestGemini_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`))
	}))
	defer server.Close()

	adapter, err := NewGeminiAdapter(context.Background(), "test-key", server.URL, "gemini-test", time.Second)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := adapter.Complete(context.Background(), ports.CompletionRequest{UserContent: "x"}); err == nil {
		t.Error("should error on 500")
	}
}

func TestGemini_RequiresKey(t *testing.T) {
	if _, err := NewGeminiAdapter(context.Background(), "", "", "", 0); err == nil {
		t.Error("should require an API key")
	}
}

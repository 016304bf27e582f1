package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/terraincognita07/fetalrisk/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.AIConfig{APIKey: "sk-test", BaseURL: server.URL + "/v1/", Model: "gpt-4o-mini"}, server.Client())
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var received chatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Rest well.  "}}]}`))
	})

	content, err := client.Complete(context.Background(), ChatRequest{
		System:      "You are a supportive assistant.",
		User:        "Give me a tip.",
		Temperature: 0.5,
		MaxTokens:   400,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if content != "Rest well." {
		t.Fatalf("expected trimmed content, got %q", content)
	}
	if received.Model != "gpt-4o-mini" || received.MaxTokens != 400 || received.Temperature != 0.5 {
		t.Fatalf("unexpected request %#v", received)
	}
	if len(received.Messages) != 2 || received.Messages[0].Role != "system" || received.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages %#v", received.Messages)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	})

	if _, err := client.Complete(context.Background(), ChatRequest{User: "hi"}); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	})

	_, err := client.Complete(context.Background(), ChatRequest{User: "hi"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected HTTPError 429, got %v", err)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	client := New(config.AIConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	if client.Enabled() {
		t.Fatal("expected client without key to be disabled")
	}
	if _, err := client.Complete(context.Background(), ChatRequest{User: "hi"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

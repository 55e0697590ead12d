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
)

func completionHandler(t *testing.T, payload map[string]any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestCompleteReturnsTextAndCitations(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.Header.Get("X-Title"); got != "Parent Help" {
			t.Errorf("unexpected title header %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "stop",
					"message": map[string]any{
						"content": "Answer: Dyslexia is common.",
						"annotations": []any{
							map[string]any{"type": "url_citation", "url_citation": map[string]any{"url": "https://example.org/a", "title": "A"}},
							map[string]any{"type": "file", "file": map[string]any{}},
							map[string]any{"type": "url_citation", "url_citation": map[string]any{"url": "https://example.org/b"}},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo", Title: "Parent Help", WebSearch: true})
	completion, err := client.Complete(context.Background(), "system", "question")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completion.Text != "Answer: Dyslexia is common." {
		t.Fatalf("unexpected text %q", completion.Text)
	}
	if len(completion.Citations) != 2 || completion.Citations[0].Title != "A" || completion.Citations[1].URL != "https://example.org/b" {
		t.Fatalf("unexpected citations %+v", completion.Citations)
	}
	plugins, _ := received["plugins"].([]any)
	if len(plugins) != 1 {
		t.Fatalf("expected web plugin in request, got %v", received["plugins"])
	}
	if _, ok := received["response_format"]; ok {
		t.Fatal("free-text completion must not request json format")
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{Model: "demo"})
	if client.Configured() {
		t.Fatal("expected unconfigured client")
	}
	if _, err := client.Complete(context.Background(), "system", "question"); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestCompleteDeltaAndLegacyText(t *testing.T) {
	tests := []struct {
		name   string
		choice map[string]any
	}{
		{"delta", map[string]any{"delta": map[string]any{"content": "from delta"}}},
		{"legacy", map[string]any{"text": "from delta"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(completionHandler(t, map[string]any{"choices": []any{tt.choice}}))
			defer server.Close()

			client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
			completion, err := client.Complete(context.Background(), "", "question")
			if err != nil {
				t.Fatalf("Complete returned error: %v", err)
			}
			if completion.Text != "from delta" {
				t.Fatalf("unexpected text %q", completion.Text)
			}
		})
	}
}

func TestClientHealthCheckCodeFence(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": "```json\n{\"ok\":true}\n```"}},
		},
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check to fail")
	}
	if calls != 1 {
		t.Fatalf("expected no retry on 401, got %d calls", calls)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(3),
	)
	completion, err := client.Complete(context.Background(), "system", "question")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if completion.Text != "ok" {
		t.Fatalf("unexpected text %q", completion.Text)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientEmptyContentExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"finish_reason": "length", "message": map[string]any{"content": ""}}},
		})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(2),
	)
	_, err := client.Complete(context.Background(), "system", "question")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if !strings.Contains(err.Error(), `finish_reason="length"`) {
		t.Fatalf("expected finish reason in error, got %v", err)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := DecodeLLMJSON("Sure! {\"ok\": true} hope that helps", &parsed); err != nil || !parsed.OK {
		t.Fatalf("DecodeLLMJSON = %v (ok=%v)", err, parsed.OK)
	}
	if err := DecodeLLMJSON("   ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("parseRetryAfter(3) = %v %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("expected negative value to be rejected")
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("expected garbage to be rejected")
	}
}

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"verbum/internal/domain/models"
)

func TestComplete(t *testing.T) {
	prompt := []models.Turn{
		{Role: models.RoleSystem, Content: "persona"},
		{Role: models.RoleUser, Content: "hello"},
	}

	t.Run("returns first choice content", func(t *testing.T) {
		var gotReq apiRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected auth header %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Errorf("decode request: %v", err)
			}

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "reply text"}},
				},
			})
		}))
		defer server.Close()

		provider, err := NewProvider(server.URL, "test-key", "gpt-4o")
		if err != nil {
			t.Fatalf("NewProvider failed: %v", err)
		}

		reply, err := provider.Complete(context.Background(), prompt, 0.7)
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if reply != "reply text" {
			t.Errorf("expected reply text, got %q", reply)
		}

		if gotReq.Model != "gpt-4o" {
			t.Errorf("expected model gpt-4o, got %q", gotReq.Model)
		}
		if gotReq.Temperature != 0.7 {
			t.Errorf("expected temperature 0.7, got %v", gotReq.Temperature)
		}
		if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", gotReq.Messages)
		}
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "rate limit reached", "type": "rate_limit_error"},
			})
		}))
		defer server.Close()

		provider, _ := NewProvider(server.URL, "test-key", "gpt-4o")

		_, err := provider.Complete(context.Background(), prompt, 0.7)
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limit reached") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer server.Close()

		provider, _ := NewProvider(server.URL, "test-key", "gpt-4o")

		if _, err := provider.Complete(context.Background(), prompt, 0.7); err == nil {
			t.Fatal("expected error for empty choices")
		}
	})

	t.Run("missing api key rejected", func(t *testing.T) {
		if _, err := NewProvider("https://api.openai.com/v1", "", "gpt-4o"); err == nil {
			t.Fatal("expected error for missing api key")
		}
	})
}

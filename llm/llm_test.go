package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *RESTClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewRESTClient("test-key", WithBaseURL(srv.URL), WithModel("test-model"))
	if err != nil {
		t.Fatalf("NewRESTClient: %v", err)
	}
	return client
}

func TestComplete(t *testing.T) {
	var captured completionPayload

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "test-model",
			"choices": [{"message": {"role": "assistant", "content": "{\"testcases\": []}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 34}
		}`))
	})

	result, err := client.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "You write test cases.",
		Messages:     []Message{{Role: RoleUser, Content: "write them"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if result.Content != `{"testcases": []}` {
		t.Errorf("Content = %q", result.Content)
	}
	if result.Usage.InputTokens != 12 || result.Usage.OutputTokens != 34 {
		t.Errorf("Usage = %+v", result.Usage)
	}

	wantMessages := []Message{
		{Role: RoleSystem, Content: "You write test cases."},
		{Role: RoleUser, Content: "write them"},
	}
	if !reflect.DeepEqual(captured.Messages, wantMessages) {
		t.Errorf("sent messages = %+v, want %+v", captured.Messages, wantMessages)
	}
	if captured.Model != "test-model" {
		t.Errorf("sent model = %q, want default applied", captured.Model)
	}
}

func TestCompleteNoSystemPrompt(t *testing.T) {
	var captured completionPayload

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "m", "choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != RoleUser {
		t.Errorf("sent messages = %+v, want only the user turn", captured.Messages)
	}
}

func TestCompleteAppliesConfiguredDefaults(t *testing.T) {
	var captured completionPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "m", "choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewRESTClient("test-key",
		WithBaseURL(srv.URL),
		WithMaxTokens(800),
		WithTemperature(0.2))
	if err != nil {
		t.Fatalf("NewRESTClient: %v", err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if captured.MaxTokens != 800 || captured.Temperature != 0.2 {
		t.Errorf("sent max_tokens=%d temperature=%v, want configured defaults",
			captured.MaxTokens, captured.Temperature)
	}

	// A request that carries its own values wins over the defaults.
	_, err = client.Complete(context.Background(), CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		MaxTokens:   50,
		Temperature: 0.9,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if captured.MaxTokens != 50 || captured.Temperature != 0.9 {
		t.Errorf("sent max_tokens=%d temperature=%v, want per-request values",
			captured.MaxTokens, captured.Temperature)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model": "m", "choices": []}`))
	})

	_, err := client.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("error = %v, want ErrEmptyCompletion", err)
	}
}

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}, {"id": "gpt-4o"}]}`))
	})

	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	want := []string{"gpt-4o-mini", "gpt-4o"}
	if !reflect.DeepEqual(models, want) {
		t.Errorf("ListModels() = %v, want %v", models, want)
	}
}

func TestNewRESTClientRequiresKey(t *testing.T) {
	if _, err := NewRESTClient(""); !errors.Is(err, ErrAPIKeyRequired) {
		t.Errorf("error = %v, want ErrAPIKeyRequired", err)
	}
}

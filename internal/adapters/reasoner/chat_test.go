package reasoner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
	"github.com/0xcro3dile/claimcheck-go/internal/domain/ports"
)

func TestChatReasoner_Reason(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"decision":"Yes"}`}},
			},
		})
	}))
	defer server.Close()

	r := NewChatReasoner(ChatConfig{APIKey: "secret", BaseURL: server.URL}, nil)
	resp, err := r.Reason(context.Background(), ports.ReasoningRequest{
		System:      "be brief",
		Prompt:      "knee surgery",
		Temperature: 0.1,
	})

	if err != nil {
		t.Fatalf("reason failed: %v", err)
	}
	if resp.Content != `{"decision":"Yes"}` {
		t.Errorf("unexpected content: %s", resp.Content)
	}
	if got.Model != DefaultModel {
		t.Errorf("expected default model, got %s", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "knee surgery" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
	if got.Stream {
		t.Error("stream should be false")
	}
	if got.Temperature != 0.1 {
		t.Errorf("unexpected temperature: %v", got.Temperature)
	}
}

func TestChatReasoner_ModelOverride(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	r := NewChatReasoner(ChatConfig{BaseURL: server.URL + "/", Model: "sonar"}, nil)
	if _, err := r.Reason(context.Background(), ports.ReasoningRequest{Prompt: "x", Model: "sonar-pro"}); err != nil {
		t.Fatalf("reason failed: %v", err)
	}
	if got.Model != "sonar-pro" {
		t.Errorf("request model should win, got %s", got.Model)
	}
	if len(got.Messages) != 1 {
		t.Errorf("system message should be omitted when empty, got %d messages", len(got.Messages))
	}
}

func TestChatReasoner_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid key"))
	}))
	defer server.Close()

	r := NewChatReasoner(ChatConfig{BaseURL: server.URL}, nil)
	_, err := r.Reason(context.Background(), ports.ReasoningRequest{Prompt: "x"})

	var httpErr *entities.ReasonerHTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected ReasonerHTTPError, got %v", err)
	}
	if httpErr.StatusCode != 401 || httpErr.Body != "invalid key" {
		t.Errorf("unexpected error fields: %+v", httpErr)
	}
	if label := entities.Label(err); label != "API Error: 401 invalid key" {
		t.Errorf("unexpected label: %s", label)
	}
}

func TestChatReasoner_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	r := NewChatReasoner(ChatConfig{BaseURL: url}, nil)
	_, err := r.Reason(context.Background(), ports.ReasoningRequest{Prompt: "x"})

	if !errors.Is(err, entities.ErrReasonerTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestChatReasoner_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	r := NewChatReasoner(ChatConfig{BaseURL: server.URL}, nil)
	if _, err := r.Reason(context.Background(), ports.ReasoningRequest{Prompt: "x"}); err == nil {
		t.Error("should error on empty choices")
	}
}

func TestChatReasoner_DefaultValues(t *testing.T) {
	r := NewChatReasoner(ChatConfig{}, nil)
	if r.baseURL != DefaultBaseURL {
		t.Errorf("unexpected base URL: %s", r.baseURL)
	}
	if r.model != DefaultModel {
		t.Errorf("unexpected model: %s", r.model)
	}
	if r.client.Timeout != DefaultTimeout {
		t.Errorf("unexpected timeout: %v", r.client.Timeout)
	}
	if r.Name() != "chat/sonar" {
		t.Errorf("unexpected name: %s", r.Name())
	}
}

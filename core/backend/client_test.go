package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProcessConversationReturnsReply(t *testing.T) {
	var receivedPath string
	var receivedBody conversationRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"gpt_response": "the lights are on"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	reply, err := client.ProcessConversation(context.Background(), 1, "turn on the lights")
	if err != nil {
		t.Fatalf("expected conversation to succeed, got %v", err)
	}

	if reply != "the lights are on" {
		t.Fatalf("expected reply text, got %q", reply)
	}
	if receivedPath != "/conversation/" {
		t.Fatalf("expected request path /conversation/, got %q", receivedPath)
	}
	if receivedBody.UserID != 1 || receivedBody.Text != "turn on the lights" {
		t.Fatalf("unexpected request body: %+v", receivedBody)
	}
}

func TestProcessConversationMapsServerErrorsToUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.ProcessConversation(context.Background(), 1, "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProcessConversationUnreachableHostIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	if _, err := client.ProcessConversation(context.Background(), 1, "hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestProcessConversationClientErrorIsNotUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ProcessConversation(context.Background(), 1, "hello")
	if err == nil {
		t.Fatalf("expected an error for a 404 response")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected a non-connectivity error for a 404 response, got %v", err)
	}
}

func TestMakeSMSDecisionParsesDecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sms/decision" {
			t.Fatalf("expected request path /sms/decision, got %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"decision": "yes", "reply_text": "sounds good"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	decision, err := client.MakeSMSDecision(context.Background(), 1, "want to grab lunch?")
	if err != nil {
		t.Fatalf("expected decision to succeed, got %v", err)
	}

	if !decision.ShouldReply || decision.ReplyText != "sounds good" {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestMakeSMSDecisionUnknownVerdictMeansNoReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"decision": "maybe", "reply_text": "??"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	decision, err := client.MakeSMSDecision(context.Background(), 1, "hello")
	if err != nil {
		t.Fatalf("expected decision to succeed, got %v", err)
	}

	if decision.ShouldReply {
		t.Fatalf("expected unknown verdicts to map to no reply, got %+v", decision)
	}
}

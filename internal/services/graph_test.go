package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/spokes/internal/models"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

func newGraphServer(t *testing.T, requests *[]capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			_ = json.Unmarshal(body, &captured.Body)
		}
		*requests = append(*requests, captured)

		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"first_name": "Sam"}`))
			return
		}
		_, _ = w.Write([]byte(`{"recipient_id": "u1", "message_id": "mid.1"}`))
	}))
}

func TestSendTextPostsToSendAPI(t *testing.T) {
	var requests []capturedRequest
	server := newGraphServer(t, &requests)
	defer server.Close()

	client := NewGraphClient(server.URL, "token-123")
	if err := client.SendText(context.Background(), "u1", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	req := requests[0]
	if req.Path != "/me/messages" || req.Method != http.MethodPost {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if req.Query != "access_token=token-123" {
		t.Fatalf("unexpected query %q", req.Query)
	}
	message, _ := req.Body["message"].(map[string]any)
	if message["text"] != "hello" {
		t.Fatalf("unexpected body %+v", req.Body)
	}
}

func TestSendTemplateWrapsCardsInGenericTemplate(t *testing.T) {
	var requests []capturedRequest
	server := newGraphServer(t, &requests)
	defer server.Close()

	client := NewGraphClient(server.URL, "token-123")
	cards := []models.TemplateCard{{
		Title:   "Springfield, IL, USA",
		Buttons: []models.TemplateButton{{Type: "postback", Title: "Select address", Payload: "Springfield, IL, USA"}},
	}}
	if err := client.SendTemplate(context.Background(), "u1", cards); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	message, _ := requests[0].Body["message"].(map[string]any)
	attachment, _ := message["attachment"].(map[string]any)
	payload, _ := attachment["payload"].(map[string]any)
	if attachment["type"] != "template" || payload["template_type"] != "generic" {
		t.Fatalf("unexpected attachment %+v", attachment)
	}
	elements, _ := payload["elements"].([]any)
	if len(elements) != 1 {
		t.Fatalf("expected 1 element, got %+v", payload["elements"])
	}
}

func TestSendTypingIndicator(t *testing.T) {
	var requests []capturedRequest
	server := newGraphServer(t, &requests)
	defer server.Close()

	client := NewGraphClient(server.URL, "token-123")
	if err := client.SendTypingIndicator(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests[0].Body["sender_action"] != "typing_on" {
		t.Fatalf("unexpected body %+v", requests[0].Body)
	}
}

func TestFetchFirstName(t *testing.T) {
	var requests []capturedRequest
	server := newGraphServer(t, &requests)
	defer server.Close()

	client := NewGraphClient(server.URL, "token-123")
	name, err := client.FetchFirstName(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "Sam" {
		t.Fatalf("unexpected name %q", name)
	}
	if requests[0].Path != "/u1" || requests[0].Query != "fields=first_name&access_token=token-123" {
		t.Fatalf("unexpected request %+v", requests[0])
	}
}

func TestMissingTokenSkipsSend(t *testing.T) {
	var requests []capturedRequest
	server := newGraphServer(t, &requests)
	defer server.Close()

	client := NewGraphClient(server.URL, "")
	if err := client.SendText(context.Background(), "u1", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requests) != 0 {
		t.Fatalf("no request expected without a token, got %d", len(requests))
	}
}

func TestSendAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewGraphClient(server.URL, "token-123")
	if err := client.SendText(context.Background(), "u1", "hello"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolveParsesCandidates(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"formatted_address": "Springfield, IL, USA", "geometry": {"location": {"lat": 39.78, "lng": -89.65}}},
				{"formatted_address": "Springfield, MA, USA", "geometry": {"location": {"lat": 42.10, "lng": -72.59}}}
			]
		}`))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL, "test-key")
	candidates, err := client.Resolve(context.Background(), "springfield")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "springfield" {
		t.Fatalf("unexpected address query %q", gotQuery)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].FormattedAddress != "Springfield, IL, USA" {
		t.Fatalf("unexpected first candidate %+v", candidates[0])
	}
	if candidates[0].Location.Lat != 39.78 || candidates[0].Location.Lon != -89.65 {
		t.Fatalf("unexpected coordinates %+v", candidates[0].Location)
	}
	if !strings.Contains(candidates[0].MapImageURL, "staticmap") || !strings.Contains(candidates[0].MapImageURL, "test-key") {
		t.Fatalf("unexpected map image URL %q", candidates[0].MapImageURL)
	}
}

func TestResolveZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL, "test-key")
	candidates, err := client.Resolve(context.Background(), "asdfgh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", candidates)
	}
}

func TestResolveRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "results": []}`))
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL, "bad-key")
	if _, err := client.Resolve(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error for rejected request")
	}
}

func TestResolveHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGeocodeClient(server.URL, "test-key")
	if _, err := client.Resolve(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error for server failure")
	}
}

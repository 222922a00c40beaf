package intara

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// testTokenCache returns a cache backed by a stub token endpoint that always
// issues the given access token.
func testTokenCache(t *testing.T, accessToken string) *TokenCache {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: accessToken, ExpiresIn: 3600})
	}))
	t.Cleanup(server.Close)

	return NewTokenCache(server.URL, "test-api-key", "client-id", "client-secret", 5*time.Second)
}

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.URL.Path != "/graph/military-groups" {
			t.Errorf("Expected path /graph/military-groups, got %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-api-key" {
			t.Errorf("Expected x-api-key test-api-key, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer abc123" {
			t.Errorf("Expected Authorization 'Bearer abc123', got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [{"id": "groups/1"}], "search": {"totalResults": 1}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/graph", "test-api-key", testTokenCache(t, "abc123"), 30*time.Second)

	body, err := client.Fetch(context.Background(), &Request{Path: "military-groups"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.Contains(string(body), `"results"`) {
		t.Errorf("Expected raw body with results, got %s", body)
	}
}

func TestClient_Fetch_QueryParams(t *testing.T) {
	var capturedURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedURL = r.URL.String()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testTokenCache(t, "abc123"), 30*time.Second)

	query := url.Values{}
	query.Set("filters", "status:active")
	query.Set("pageNo", "2")
	query.Set("pageSize", "200")

	_, err := client.Fetch(context.Background(), &Request{Path: "military-groups", Query: query})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	expectedParams := []string{
		"filters=status%3Aactive",
		"pageNo=2",
		"pageSize=200",
	}
	for _, param := range expectedParams {
		if !strings.Contains(capturedURL, param) {
			t.Errorf("URL missing expected parameter '%s': %s", param, capturedURL)
		}
	}
}

func TestClient_Fetch_SingleResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/military-groups/5001234" {
			t.Errorf("Expected path /military-groups/5001234, got %s", r.URL.Path)
		}
		if r.URL.RawQuery != "" {
			t.Errorf("Expected no query parameters, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "groups/5001234"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testTokenCache(t, "abc123"), 30*time.Second)

	body, err := client.Fetch(context.Background(), &Request{Path: "military-groups/5001234"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.Contains(string(body), "groups/5001234") {
		t.Errorf("Unexpected body: %s", body)
	}
}

func TestClient_Fetch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testTokenCache(t, "abc123"), 30*time.Second)
	client = client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Fetch(context.Background(), &Request{Path: "military-groups"})
	if err == nil {
		t.Fatal("Expected error for 502 response, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != "upstream exploded" {
		t.Errorf("Expected upstream body preserved, got %q", apiErr.Body)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Error should contain status code 502: %v", err)
	}
}

func TestClient_Fetch_NoAuthorizationWhenExchangeFails(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer tokenServer.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("Expected no Authorization header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := NewTokenCache(tokenServer.URL, "key", "id", "secret", 5*time.Second).WithLogger(discard)
	client := NewClient(server.URL, "key", cache, 30*time.Second).WithLogger(discard)

	_, err := client.Fetch(context.Background(), &Request{Path: "military-groups"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
}

func TestClient_Fetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(1 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", testTokenCache(t, "abc123"), 30*time.Second)
	client = client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := client.Fetch(ctx, &Request{Path: "military-groups"})
	if err == nil {
		t.Fatal("Expected context cancellation error, got nil")
	}
}

func TestClient_WithLogger(t *testing.T) {
	client := NewClient("http://example.com", "key", testTokenCache(t, "abc123"), 30*time.Second)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client = client.WithLogger(logger)

	if client.logger != logger {
		t.Error("Logger was not set correctly")
	}
}

package directus

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

const specBody = `{
	"openapi": "3.0.1",
	"info": {"title": "Dynamic API Specification", "version": "10.8.3"},
	"paths": {},
	"components": {
		"schemas": {
			"ItemsArticle": {"type": "object", "properties": {"id": {"type": "integer"}}},
			"Users": {"type": "object", "properties": {"email": {"type": "string"}}}
		}
	}
}`

func staticSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

func TestFetchSpec(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.URL.Path != "/server/specs/oas" {
			t.Errorf("path = %q, want /server/specs/oas", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(specBody))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, staticSource("tok-123"))
	doc, err := client.FetchSpec(context.Background())
	if err != nil {
		t.Fatalf("FetchSpec() error: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if doc.Info.Title != "Dynamic API Specification" {
		t.Errorf("Info.Title = %q, want %q", doc.Info.Title, "Dynamic API Specification")
	}
	if doc.Info.Version != "10.8.3" {
		t.Errorf("Info.Version = %q, want %q", doc.Info.Version, "10.8.3")
	}
	if doc.Schemas.Len() != 2 {
		t.Errorf("expected 2 schema entries, got %d", doc.Schemas.Len())
	}
	if _, ok := doc.Schemas.Get("ItemsArticle"); !ok {
		t.Error("ItemsArticle entry not found")
	}
}

func TestFetchSpecErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"errors":[
			{"message":"You don't have permission to access this.","extensions":{"code":"FORBIDDEN"}},
			{"message":"Token expired.","extensions":{"code":"TOKEN_EXPIRED"}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, staticSource("tok"))
	_, err := client.FetchSpec(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if len(apiErr.Errors) != 2 {
		t.Fatalf("expected 2 error entries, got %d", len(apiErr.Errors))
	}
	if apiErr.Errors[0].Code != "FORBIDDEN" {
		t.Errorf("entry[0].Code = %q, want FORBIDDEN", apiErr.Errors[0].Code)
	}
	if apiErr.Errors[1].Message != "Token expired." {
		t.Errorf("entry[1].Message = %q, want %q", apiErr.Errors[1].Message, "Token expired.")
	}
	if got := apiErr.Errors[0].String(); got != "FORBIDDEN: You don't have permission to access this." {
		t.Errorf("entry[0].String() = %q", got)
	}
}

func TestFetchSpecErrorEnvelopeOn200(t *testing.T) {
	// The envelope gate must win even when the status code looks fine.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"boom","extensions":{"code":"INTERNAL_SERVER_ERROR"}}]}`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, staticSource("tok"))
	_, err := client.FetchSpec(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
}

func TestFetchSpecHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, staticSource("tok"))
	_, err := client.FetchSpec(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatal("plain HTTP failure must not be an *APIError")
	}
	if !strings.Contains(err.Error(), "http status 502") {
		t.Errorf("error = %q, want http status 502 mention", err)
	}
}

func TestFetchSpecMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"openapi": "3.0.1",`))
	}))
	defer server.Close()

	client := NewClient(context.Background(), server.URL, staticSource("tok"))
	if _, err := client.FetchSpec(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestParseErrorEnvelope(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"no envelope", `{"openapi":"3.0.1"}`, 0},
		{"empty list", `{"errors":[]}`, 0},
		{"one entry", `{"errors":[{"message":"nope"}]}`, 1},
		{"not json", `garbage`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseErrorEnvelope([]byte(tt.body))
			got := 0
			if apiErr != nil {
				got = len(apiErr.Errors)
			}
			if got != tt.want {
				t.Errorf("entries = %d, want %d", got, tt.want)
			}
		})
	}
}

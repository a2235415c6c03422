// Package directus talks to a Directus instance over HTTP.
package directus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/oauth2"

	"github.com/thellimist/directus-typegen/internal/oas"
)

// specPath is the well-known OpenAPI endpoint of a Directus instance.
const specPath = "/server/specs/oas"

// Client fetches documents from one Directus instance, authenticating every
// request with the bearer credential from its token source.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL. Requests carry the
// Authorization header produced by ts.
func NewClient(ctx context.Context, baseURL string, ts oauth2.TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: oauth2.NewClient(ctx, ts),
	}
}

// FetchSpec retrieves and validates the instance's OpenAPI schema document.
//
// A body carrying a non-empty error list is returned as *APIError and never
// reaches the document parser. The error-envelope check runs before the
// status check so a rejection stays distinguishable from a transport failure.
func (c *Client) FetchSpec(ctx context.Context) (*oas.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+specPath, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch spec: create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch spec: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch spec: read response: %w", err)
	}

	if apiErr := parseErrorEnvelope(body); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch spec: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Structural sanity check of the OpenAPI document; also yields the
	// title/version reported in verbose output.
	loader := openapi3.NewLoader()
	oaDoc, err := loader.LoadFromData(body)
	if err != nil {
		return nil, fmt.Errorf("fetch spec: parse openapi document: %w", err)
	}

	doc, err := oas.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("fetch spec: %w", err)
	}
	if oaDoc.Info != nil {
		doc.Info = oas.Info{Title: oaDoc.Info.Title, Version: oaDoc.Info.Version}
	}
	return doc, nil
}

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/buger/jsonparser"
	"golang.org/x/oauth2"
)

// Provider yields the bearer credential used for Directus API calls.
// Each provider knows how to produce an oauth2.TokenSource for one auth method.
type Provider interface {
	// TokenSource returns the token source for authenticated requests.
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// StaticTokenProvider uses a pre-supplied token verbatim. No network call is
// ever made.
type StaticTokenProvider struct {
	Token string
}

func (p *StaticTokenProvider) TokenSource(_ context.Context) (oauth2.TokenSource, error) {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: p.Token,
		TokenType:   "Bearer",
	}), nil
}

// PasswordProvider exchanges email/password credentials for an access token
// against the instance's login endpoint.
type PasswordProvider struct {
	Host     string
	Email    string
	Password string
	// Client is the HTTP client for the exchange. Defaults to a fresh client.
	Client *http.Client
}

func (p *PasswordProvider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{}
	}
	token, err := Login(ctx, client, p.Host, p.Email, p.Password)
	if err != nil {
		return nil, err
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}), nil
}

// NewProvider selects the provider for the given credentials. When
// passwordIsStaticToken is set, the password is the credential itself.
func NewProvider(host, email, password string, passwordIsStaticToken bool) Provider {
	if passwordIsStaticToken {
		return &StaticTokenProvider{Token: password}
	}
	return &PasswordProvider{Host: host, Email: email, Password: password}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Mode     string `json:"mode"`
}

// Login performs the credential exchange: POST {host}/auth/login with a JSON
// body and mode "json", returning the access token nested in the response.
func Login(ctx context.Context, client *http.Client, host, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password, Mode: "json"})
	if err != nil {
		return "", fmt.Errorf("login: marshal request: %w", err)
	}

	url := strings.TrimRight(host, "/") + "/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("login: create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("login: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	token, err := jsonparser.GetString(respBody, "data", "access_token")
	if err != nil {
		return "", fmt.Errorf("login: no access token in response: %w", err)
	}
	return token, nil
}

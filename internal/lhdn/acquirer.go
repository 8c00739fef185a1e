package lhdn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tokenEndpoint = "/connect/token"

// Acquirer performs the OAuth2 client-credentials exchange against the
// authority's token endpoint. It does not retry; retry policy belongs to the
// submission flows that sit above the session manager.
type Acquirer struct {
	httpClient *http.Client
	store      *TokenStore
}

func NewAcquirer(httpClient *http.Client, store *TokenStore) *Acquirer {
	return &Acquirer{
		httpClient: httpClient,
		store:      store,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Acquire fetches a new access token and writes it through the token store.
func (a *Acquirer) Acquire(ctx context.Context, cfg *Config) (AccessToken, error) {
	form := url.Values{}
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", TokenScope)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		cfg.BaseURL+tokenEndpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return AccessToken{}, fmt.Errorf("lhdn: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return AccessToken{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return AccessToken{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return AccessToken{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "malformed token response",
			Err:        err,
		}
	}
	if tr.AccessToken == "" || tr.ExpiresIn <= 0 {
		return AccessToken{}, &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "token response missing access_token or expires_in",
		}
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	tok := AccessToken{
		Token:         tr.AccessToken,
		TokenType:     tr.TokenType,
		ExpiresIn:     tr.ExpiresIn,
		Scope:         tr.Scope,
		IssuedAt:      now,
		ExpiresAt:     expiresAt,
		SafeExpiresAt: expiresAt.Add(-SafetyBuffer),
	}

	a.store.Write(ctx, tok)

	return tok, nil
}

package lhdn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAcquireConfig(baseURL string) *Config {
	return &Config{
		Environment:  "sandbox",
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Timeout:      30 * time.Second,
	}
}

func TestAcquire_Success(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, tokenEndpoint, r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"grant_type":    r.PostFormValue("grant_type"),
			"scope":         r.PostFormValue("scope"),
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "new-token",
			"token_type": "Bearer",
			"expires_in": 3600,
			"scope": "InvoicingAPI"
		}`))
	}))
	defer srv.Close()

	store := newTestTokenStore(t, nil)
	acquirer := NewAcquirer(srv.Client(), store)

	before := time.Now()
	tok, err := acquirer.Acquire(context.Background(), testAcquireConfig(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, "new-token", tok.Token)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(3600), tok.ExpiresIn)
	assert.Equal(t, map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"grant_type":    "client_credentials",
		"scope":         TokenScope,
	}, gotForm)

	// Expiry windows derive from expires_in and the safety buffer
	assert.WithinDuration(t, before.Add(3600*time.Second), tok.ExpiresAt, 5*time.Second)
	assert.True(t, tok.SafeExpiresAt.Equal(tok.ExpiresAt.Add(-SafetyBuffer)))

	// The acquired token is written through the store
	cached, ok := store.Read(context.Background())
	require.True(t, ok)
	assert.Equal(t, "new-token", cached.Token)
}

func TestAcquire_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	acquirer := NewAcquirer(srv.Client(), newTestTokenStore(t, nil))

	_, err := acquirer.Acquire(context.Background(), testAcquireConfig(srv.URL))
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "invalid_client")
}

func TestAcquire_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	acquirer := NewAcquirer(srv.Client(), newTestTokenStore(t, nil))

	_, err := acquirer.Acquire(context.Background(), testAcquireConfig(srv.URL))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestAcquire_MissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	acquirer := NewAcquirer(srv.Client(), newTestTokenStore(t, nil))

	_, err := acquirer.Acquire(context.Background(), testAcquireConfig(srv.URL))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestAcquire_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	acquirer := NewAcquirer(http.DefaultClient, newTestTokenStore(t, nil))

	_, err := acquirer.Acquire(context.Background(), testAcquireConfig(srv.URL))
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Error(t, authErr.Unwrap())
}

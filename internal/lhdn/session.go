package lhdn

import (
	"context"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"

	"golang.org/x/sync/singleflight"
)

// SessionManager is the façade every consumer uses to obtain a valid bearer
// token. It is stateless between calls except through the TokenStore.
// Concurrent cache misses are collapsed into a single in-flight acquisition;
// a duplicate acquisition would be safe (the authority issues a fresh token
// on every request) but wasteful.
type SessionManager struct {
	provider *ConfigProvider
	store    *TokenStore
	acquirer *Acquirer
	metrics  core.Recorder

	group singleflight.Group
}

func NewSessionManager(
	provider *ConfigProvider,
	store *TokenStore,
	acquirer *Acquirer,
	metrics core.Recorder,
) *SessionManager {
	return &SessionManager{
		provider: provider,
		store:    store,
		acquirer: acquirer,
		metrics:  metrics,
	}
}

// Token returns a valid bearer token string, acquiring a new one on cache
// miss. Acquisition failure defensively invalidates the store before the
// error propagates.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.store.Read(ctx); ok {
		return tok.Token, nil
	}

	v, err, _ := m.group.Do("access-token", func() (any, error) {
		// Re-check under single-flight; another caller may have just
		// finished acquiring.
		if tok, ok := m.store.Read(ctx); ok {
			return tok.Token, nil
		}

		cfg, err := m.provider.ActiveConfig()
		if err != nil {
			return "", err
		}

		start := time.Now()
		tok, err := m.acquirer.Acquire(ctx, cfg)
		m.metrics.RecordTokenAcquisition(err == nil, time.Since(start))
		if err != nil {
			m.store.Invalidate(ctx)
			return "", err
		}

		return tok.Token, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// InvalidateToken clears the operational cache tiers. Used when the authority
// rejects a bearer token mid-flight.
func (m *SessionManager) InvalidateToken(ctx context.Context) {
	m.store.Invalidate(ctx)
}

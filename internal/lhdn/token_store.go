package lhdn

import (
	"context"
	"log"
	"time"

	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/core"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/models"
	"github.com/Pixelcare-Consulting/pinnacle-einvoice-tradewinds-sub005/internal/tokenfile"
)

// memoryKey is the single cache key used by the memory tier.
const memoryKey = "lhdn:access_token"

// Cache tier names used in metrics.
const (
	TierMemory = "memory"
	TierFile   = "file"
)

// AuditResult distinguishes a fully recorded token write from one whose
// best-effort audit insert failed. Audit failures never fail the write.
type AuditResult int

const (
	AuditOK AuditResult = iota
	AuditWriteFailed
)

// TokenAuditStore appends historical token rows.
type TokenAuditStore interface {
	CreateTokenRecord(rec *models.TokenRecord) error
}

// TokenStore is the three-tier cache for the authority bearer token:
//
//  1. memory: process-local, fastest, valid until safe expiry
//  2. file: durable INI file, survives restarts
//  3. database: append-only audit history, never read back operationally
//
// Writes populate all three tiers; reads check memory then file; invalidation
// clears memory and file but retains the audit rows.
type TokenStore struct {
	mem     core.Cache[AccessToken]
	file    *tokenfile.File
	audit   TokenAuditStore
	metrics core.Recorder
}

func NewTokenStore(
	mem core.Cache[AccessToken],
	file *tokenfile.File,
	audit TokenAuditStore,
	metrics core.Recorder,
) *TokenStore {
	return &TokenStore{
		mem:     mem,
		file:    file,
		audit:   audit,
		metrics: metrics,
	}
}

// Read returns a valid cached token, or ok=false on miss. A file-tier hit is
// promoted into the memory tier before returning.
func (s *TokenStore) Read(ctx context.Context) (AccessToken, bool) {
	now := time.Now()

	if tok, err := s.mem.Get(ctx, memoryKey); err == nil && tok.ValidAt(now) {
		s.metrics.RecordTokenCacheHit(TierMemory)
		return tok, true
	}

	stored, err := s.file.Read()
	if err == nil {
		tok := AccessToken{
			Token:         stored.AccessToken,
			TokenType:     stored.TokenType,
			ExpiresIn:     stored.ExpiresIn,
			Scope:         stored.Scope,
			IssuedAt:      stored.Timestamp,
			ExpiresAt:     stored.ExpiryTime,
			SafeExpiresAt: stored.ExpiryTime.Add(-SafetyBuffer),
		}
		if tok.ValidAt(now) {
			s.promote(ctx, tok, now)
			s.metrics.RecordTokenCacheHit(TierFile)
			return tok, true
		}
	} else if err != tokenfile.ErrNoToken {
		log.Printf("Token file tier unreadable: %v", err)
	}

	s.metrics.RecordTokenCacheMiss()
	return AccessToken{}, false
}

// promote places a file-tier token into the memory tier so subsequent reads
// skip file I/O.
func (s *TokenStore) promote(ctx context.Context, tok AccessToken, now time.Time) {
	ttl := tok.SafeExpiresAt.Sub(now)
	if ttl <= 0 {
		return
	}
	if err := s.mem.Set(ctx, memoryKey, tok, ttl); err != nil {
		log.Printf("Failed to promote token into memory tier: %v", err)
	}
}

// Write populates all three tiers with a newly acquired token. The memory and
// file tiers are operational caches; the database insert is an append-only
// audit record whose failure is reported but never escalated.
func (s *TokenStore) Write(ctx context.Context, tok AccessToken) AuditResult {
	ttl := time.Until(tok.SafeExpiresAt)
	if ttl > 0 {
		if err := s.mem.Set(ctx, memoryKey, tok, ttl); err != nil {
			log.Printf("Failed to write token memory tier: %v", err)
		}
	}

	fileErr := s.file.Write(&tokenfile.Token{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
		Scope:       tok.Scope,
		Timestamp:   tok.IssuedAt,
		ExpiryTime:  tok.ExpiresAt,
	})
	if fileErr != nil {
		// The file tier only matters across restarts; the memory tier still
		// serves this process.
		log.Printf("Failed to write token file tier: %v", fileErr)
	}

	if err := s.audit.CreateTokenRecord(&models.TokenRecord{
		AccessToken: tok.Token,
		ExpiryTime:  tok.ExpiresAt,
	}); err != nil {
		log.Printf("Failed to write token audit record: %v", err)
		s.metrics.RecordTokenAuditWriteFailure()
		return AuditWriteFailed
	}

	return AuditOK
}

// Invalidate clears the memory and file tiers. Audit rows are retained.
func (s *TokenStore) Invalidate(ctx context.Context) {
	if err := s.mem.Delete(ctx, memoryKey); err != nil {
		log.Printf("Failed to clear token memory tier: %v", err)
	}
	if err := s.file.Clear(); err != nil {
		log.Printf("Failed to clear token file tier: %v", err)
	}
	s.metrics.RecordTokenInvalidation()
}

// Package tokenfile implements the durable file tier of the token cache.
// The on-disk format is a small INI file with a single [Token] section. It
// survives process restarts so a fresh process can reuse a still-valid token
// instead of hitting the authority again.
package tokenfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/ini.v1"
)

// ErrNoToken indicates the token file does not exist or holds no usable token.
var ErrNoToken = errors.New("tokenfile: no token stored")

const sectionName = "Token"

// Token is the persisted form of an access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	Scope       string
	Timestamp   time.Time // issuance time
	ExpiryTime  time.Time // absolute expiry
}

// File reads and writes the token file. Writes replace the whole file
// atomically (write to a temp file, then rename) so concurrent readers never
// observe a partial token.
type File struct {
	mu   sync.Mutex
	path string
}

// New creates a File backed by the given path. The parent directory is
// created on first write.
func New(path string) *File {
	return &File{path: path}
}

// Read loads the stored token. Returns ErrNoToken if the file is absent or
// the token section is incomplete.
func (f *File) Read() (*Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg, err := ini.Load(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("tokenfile: load %s: %w", f.path, err)
	}

	sec := cfg.Section(sectionName)
	accessToken := sec.Key("access_token").String()
	if accessToken == "" {
		return nil, ErrNoToken
	}

	expiry, err := time.Parse(time.RFC3339, sec.Key("expiry_time").String())
	if err != nil {
		return nil, ErrNoToken
	}

	// Issuance timestamp is informational; tolerate its absence.
	issued, _ := time.Parse(time.RFC3339, sec.Key("timestamp").String())

	return &Token{
		AccessToken: accessToken,
		TokenType:   sec.Key("token_type").MustString("Bearer"),
		ExpiresIn:   sec.Key("expires_in").MustInt64(0),
		Scope:       sec.Key("scope").String(),
		Timestamp:   issued,
		ExpiryTime:  expiry,
	}, nil
}

// Write persists the token, replacing any previous one.
func (f *File) Write(tok *Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cfg := ini.Empty()
	sec, err := cfg.NewSection(sectionName)
	if err != nil {
		return fmt.Errorf("tokenfile: create section: %w", err)
	}

	sec.Key("access_token").SetValue(tok.AccessToken)
	sec.Key("token_type").SetValue(tok.TokenType)
	sec.Key("expires_in").SetValue(fmt.Sprintf("%d", tok.ExpiresIn))
	sec.Key("scope").SetValue(tok.Scope)
	sec.Key("timestamp").SetValue(tok.Timestamp.UTC().Format(time.RFC3339))
	sec.Key("expiry_time").SetValue(tok.ExpiryTime.UTC().Format(time.RFC3339))

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("tokenfile: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("tokenfile: create directory: %w", err)
	}

	// Whole-file atomic rewrite: temp file in the same directory, then rename.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("tokenfile: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("tokenfile: replace %s: %w", f.path, err)
	}

	return nil
}

// Clear removes the token file. Missing files are not an error.
func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("tokenfile: remove %s: %w", f.path, err)
	}
	return nil
}

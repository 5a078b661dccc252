// Package auth keeps the terminal client's login session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned when a call needs a bearer token and none is stored.
var ErrNoSession = errors.New("not logged in")

// Session holds the bearer token issued by the API. It is loaded at start,
// set on login or register and cleared on logout.
type Session struct {
	path string

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewSession returns an empty session persisted at path. An empty path keeps
// the session in memory only.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// DefaultTokenFile is where the CLI keeps its session between runs.
func DefaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hireground-token.json"
	}
	return filepath.Join(dir, "hireground", "token.json")
}

// Load reads the token file. A missing file leaves the session logged out.
func (s *Session) Load() error {
	if s.path == "" {
		return nil
	}
	tok, err := tokenFromFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	return nil
}

// Set stores a freshly issued token.
func (s *Session) Set(accessToken string, expiresAt time.Time) error {
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer", Expiry: expiresAt}
	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	return saveToken(s.path, tok)
}

// Clear forgets the token and removes the token file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = nil
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Token returns the raw access token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

// Valid reports whether a non-expired token is held.
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token.Valid()
}

// HTTPClient returns a client that sends the bearer token on every request.
// Without a token the base client is returned unchanged.
func (s *Session) HTTPClient(ctx context.Context, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok == nil {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	c := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	c.Timeout = base.Timeout
	return c
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Saves a token to a file path, readable by the owner only.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("unable to cache session token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	fieldCreatedAt = "created-at"
	fieldExpiresAt = "expires-at"
)

// Store persists the cached session token.
type Store interface {
	// Load returns the cached session, or nil when nothing is cached.
	Load(ctx context.Context) (*Session, error)
	// Save replaces the cached session.
	Save(ctx context.Context, s Session) error
}

// encodeToken renders the token cache document.
func encodeToken(tokenField string, s Session) ([]byte, error) {
	return json.MarshalIndent(map[string]any{
		tokenField:     s.Token,
		fieldCreatedAt: s.CreatedAt.Unix(),
		fieldExpiresAt: s.ExpiresAt.Unix(),
	}, "", "  ")
}

// decodeToken parses the token cache document.
func decodeToken(tokenField string, data []byte) (*Session, error) {
	var doc struct {
		CreatedAt int64 `json:"created-at"`
		ExpiresAt int64 `json:"expires-at"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse token cache: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse token cache: %w", err)
	}
	token, _ := fields[tokenField].(string)
	if token == "" {
		return nil, fmt.Errorf("%w: token cache has no %q field", ErrInvalidSession, tokenField)
	}

	s := &Session{
		Token:     token,
		CreatedAt: time.Unix(doc.CreatedAt, 0),
		ExpiresAt: time.Unix(doc.ExpiresAt, 0),
	}
	if !s.ExpiresAt.After(s.CreatedAt) {
		return nil, fmt.Errorf("%w: expires-at is not after created-at", ErrInvalidSession)
	}
	return s, nil
}

// FileStore keeps the token cache in a local JSON file.
type FileStore struct {
	path       string
	tokenField string
}

// NewFileStore creates a file store. tokenField is the session cookie name.
func NewFileStore(path, tokenField string) *FileStore {
	return &FileStore{path: path, tokenField: tokenField}
}

// Load reads the token cache file. A missing file is not an error.
func (f *FileStore) Load(ctx context.Context) (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token cache %s: %w", f.path, err)
	}
	return decodeToken(f.tokenField, data)
}

// Save rewrites the token cache file atomically.
func (f *FileStore) Save(ctx context.Context, s Session) error {
	data, err := encodeToken(f.tokenField, s)
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token cache dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}
	return nil
}

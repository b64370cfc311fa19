// Package session holds the authenticated session for the NaijaReels client:
// the access/refresh token pair, the resolved identity, and the single-flight
// refresh coordinator that keeps the session alive across token expiry.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/NaijaReels/naijareels-go/internal/domain/user"
)

// Persistence stores the session state between client runs. The browser
// frontend kept two localStorage keys (tokens, user); this mirrors that
// layout so hydration behaves the same way.
type Persistence interface {
	LoadTokens() (*user.Tokens, error)
	SaveTokens(tokens *user.Tokens) error
	LoadIdentity() (*user.Identity, error)
	SaveIdentity(identity *user.Identity) error
	Clear() error
}

// FilePersistence implements Persistence with two JSON files in a state
// directory, created on first save.
type FilePersistence struct {
	dir        string
	tokensFile string
	userFile   string
}

// NewFilePersistence creates a file-backed persistence layer.
func NewFilePersistence(dir, tokensFile, userFile string) *FilePersistence {
	return &FilePersistence{
		dir:        dir,
		tokensFile: tokensFile,
		userFile:   userFile,
	}
}

// LoadTokens reads the persisted token pair. A missing file is not an error;
// it yields a nil pair, meaning no session to hydrate.
func (p *FilePersistence) LoadTokens() (*user.Tokens, error) {
	var tokens user.Tokens
	ok, err := p.readJSON(p.tokensFile, &tokens)
	if err != nil || !ok {
		return nil, err
	}
	return &tokens, nil
}

// SaveTokens persists the token pair.
func (p *FilePersistence) SaveTokens(tokens *user.Tokens) error {
	return p.writeJSON(p.tokensFile, tokens)
}

// LoadIdentity reads the persisted last-known identity, if any.
func (p *FilePersistence) LoadIdentity() (*user.Identity, error) {
	var identity user.Identity
	ok, err := p.readJSON(p.userFile, &identity)
	if err != nil || !ok {
		return nil, err
	}
	return &identity, nil
}

// SaveIdentity persists the identity.
func (p *FilePersistence) SaveIdentity(identity *user.Identity) error {
	return p.writeJSON(p.userFile, identity)
}

// Clear removes both persisted keys.
func (p *FilePersistence) Clear() error {
	for _, name := range []string{p.tokensFile, p.userFile} {
		if err := os.Remove(filepath.Join(p.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear persisted session file %s: %w", name, err)
		}
	}
	return nil
}

func (p *FilePersistence) readJSON(name string, target any) (bool, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read session file %s: %w", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		// Corrupt state is treated as absent, not fatal
		return false, nil
	}
	return true, nil
}

func (p *FilePersistence) writeJSON(name string, source any) error {
	if err := os.MkdirAll(p.dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("failed to encode session file %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(p.dir, name), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", name, err)
	}
	return nil
}

// MemoryPersistence keeps session state in memory only. Used by tests and by
// callers that opt out of on-disk persistence.
type MemoryPersistence struct {
	tokens   *user.Tokens
	identity *user.Identity
}

// NewMemoryPersistence creates an empty in-memory persistence layer.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (p *MemoryPersistence) LoadTokens() (*user.Tokens, error) { return p.tokens, nil }

func (p *MemoryPersistence) SaveTokens(tokens *user.Tokens) error {
	p.tokens = tokens
	return nil
}

func (p *MemoryPersistence) LoadIdentity() (*user.Identity, error) { return p.identity, nil }

func (p *MemoryPersistence) SaveIdentity(identity *user.Identity) error {
	p.identity = identity
	return nil
}

func (p *MemoryPersistence) Clear() error {
	p.tokens = nil
	p.identity = nil
	return nil
}

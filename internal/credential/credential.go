package credential

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/weekmenu/internal/constants"
	"github.com/julianstephens/weekmenu/internal/logger"
)

var (
	// ErrNotFound is returned when no credential is stored
	ErrNotFound = errors.New("credential not found")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrEmptyToken is returned when storing an empty token
	ErrEmptyToken = errors.New("access token cannot be empty")
)

// Store holds at most one access token.
type Store interface {
	// Get returns the stored token or ErrNotFound.
	Get() (string, error)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// KeyringStore keeps the token in the OS keyring under a fixed service/user pair.
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore returns a store keyed by the application name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{
		service: constants.AppName,
		user:    constants.DefaultKeyringUser,
	}
}

func (s *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

func (s *KeyringStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := keyring.Set(s.service, s.user, token); err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}
	return nil
}

func (s *KeyringStore) Clear() error {
	err := keyring.Delete(s.service, s.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete access token from keyring: %w", err)
	}
	return nil
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNotFound
	}
	return s.token, nil
}

func (s *MemoryStore) Set(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

// IsKeyringAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsKeyringAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered, it just has nothing for us
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// NewStore returns the keyring-backed store, or an in-memory one when the
// keyring cannot be reached.
func NewStore() Store {
	if IsKeyringAvailable() {
		return NewKeyringStore()
	}
	logger.Warn("OS keyring unavailable, access token will not persist across runs")
	return NewMemoryStore()
}

package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/weekmenu/internal/credential"
	"github.com/julianstephens/weekmenu/internal/logger"
)

// Manager owns login and logout for the client. It is the only place that
// clears the credential store.
type Manager struct {
	store credential.Store

	mu            sync.Mutex
	authenticated bool
	listeners     []func()
}

// NewManager creates a manager. The session starts authenticated when the
// store already holds a token from an earlier run.
func NewManager(store credential.Store) *Manager {
	_, err := store.Get()
	return &Manager{
		store:         store,
		authenticated: err == nil,
	}
}

// Store returns the credential store the manager guards.
func (m *Manager) Store() credential.Store {
	return m.store
}

// Login stores a fresh token and marks the session authenticated.
func (m *Manager) Login(token string) error {
	if err := m.store.Set(token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	logger.Info("Logged in")
	return nil
}

// Authenticated reports whether the session is logged in.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// OnLogout registers fn to run when the session goes from authenticated to
// logged out.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Logout clears the credential store and resets the auth state. It is safe to
// call any number of times; listeners fire only on the first transition.
func (m *Manager) Logout() error {
	err := m.store.Clear()
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		logger.Warn("Failed to clear access token", "error", err)
	} else {
		err = nil
	}

	m.mu.Lock()
	wasAuthenticated := m.authenticated
	m.authenticated = false
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	if wasAuthenticated {
		logger.Info("Logged out")
		for _, fn := range listeners {
			fn()
		}
	}
	return err
}

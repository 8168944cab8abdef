package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yigit/placement/internal/app/models"
)

// Identity is the signed-in user as the API reported it at login.
type Identity struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.RoleType `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Session is a bearer token plus the identity it was issued for.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Valid reports whether the session carries a token
func (s Session) Valid() bool {
	return s.Token != ""
}

// SessionStore persists a session across process runs.
// Load returns a zero Session and no error when nothing is stored.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// SessionManager owns the current session. It is hydrated from its store
// when created and written through on every change.
type SessionManager struct {
	mu      sync.RWMutex
	current Session
	store   SessionStore
}

// NewSessionManager loads any stored session before returning.
// A corrupt store is cleared and reported; the manager is still usable.
func NewSessionManager(store SessionStore) (*SessionManager, error) {
	if store == nil {
		store = NewMemorySessionStore()
	}
	m := &SessionManager{store: store}

	s, err := store.Load()
	if err != nil {
		_ = store.Clear()
		return m, fmt.Errorf("failed to load session: %w", err)
	}
	m.current = s
	return m, nil
}

// Current returns a copy of the session
func (m *SessionManager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the bearer token, or "" when signed out
func (m *SessionManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

// Set replaces the session after a login or registration.
func (m *SessionManager) Set(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s
	return m.store.Save(s)
}

// Clear signs out. The in-memory session is dropped even if the store fails.
func (m *SessionManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{}
	return m.store.Clear()
}

// MemorySessionStore keeps the session in process memory
type MemorySessionStore struct {
	mu sync.Mutex
	s  Session
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (st *MemorySessionStore) Load() (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s, nil
}

func (st *MemorySessionStore) Save(s Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = s
	return nil
}

func (st *MemorySessionStore) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = Session{}
	return nil
}

// FileSessionStore keeps the session as JSON in a file readable only by its owner.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore stores the session at path
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// DefaultSessionPath returns ~/.placementctl/session.json
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".placementctl", "session.json"), nil
}

// Path returns the file the session is stored in
func (st *FileSessionStore) Path() string {
	return st.path
}

func (st *FileSessionStore) Load() (Session, error) {
	data, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("failed to decode session file %s: %w", st.path, err)
	}
	return s, nil
}

func (st *FileSessionStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(st.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// write-then-rename
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (st *FileSessionStore) Clear() error {
	if err := os.Remove(st.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

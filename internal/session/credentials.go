package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	// CredentialKey is the fixed key the credential is persisted under
	CredentialKey       = "auth_token"
	credentialsFileName = "credentials.json"
	credentialsDirName  = "libcat"
)

// CredentialStore persists the session credential across runs.
// Load returns an empty string when nothing is stored.
type CredentialStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileCredentials stores the credential in a JSON file readable only by the user.
// It also serves as the API client's token source.
type FileCredentials struct {
	path string
	mu   sync.Mutex
}

// NewFileCredentials returns a file store at path, or at the default location when path is empty
func NewFileCredentials(path string) (*FileCredentials, error) {
	if path == "" {
		var err error
		path, err = DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
	}
	return &FileCredentials{path: path}, nil
}

// Path returns the credentials file location
func (f *FileCredentials) Path() string {
	return f.path
}

// Load reads the stored credential
func (f *FileCredentials) Load() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credentials: %w", err)
	}

	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return "", fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	return stored[CredentialKey], nil
}

// Save replaces the stored credential
func (f *FileCredentials) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(map[string]string{CredentialKey: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0600)
}

// Clear deletes the stored credential
func (f *FileCredentials) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Token implements api.TokenSource. Read failures yield no credential.
func (f *FileCredentials) Token() string {
	token, _ := f.Load()
	return token
}

// MemoryCredentials keeps the credential in memory only
type MemoryCredentials struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryCredentials returns a store seeded with token
func NewMemoryCredentials(token string) *MemoryCredentials {
	return &MemoryCredentials{token: token}
}

func (m *MemoryCredentials) Load() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *MemoryCredentials) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryCredentials) Clear() error {
	return m.Save("")
}

func (m *MemoryCredentials) Token() string {
	token, _ := m.Load()
	return token
}

// DefaultCredentialsPath returns <user config dir>/libcat/credentials.json
func DefaultCredentialsPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, credentialsDirName, credentialsFileName), nil
}

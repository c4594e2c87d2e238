package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justyntemme/libcat/pkg/models"
)

// State is the lifecycle state of a session
type State int

const (
	StateInitializing State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingToken     = errors.New("login response carried no token")
	ErrNoExpiry         = errors.New("credential has no expiry claim")
)

// Changed is delivered to the UI after every session transition
type Changed struct {
	State State
	User  *models.User
}

// AuthAPI is the part of the catalog API the session depends on
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context) (*models.TokenValidation, error)
	RefreshToken(ctx context.Context, token string) (string, error)
}

// Store holds the one session of a running client.
// Only its own operations write to it; reads are safe from any goroutine.
type Store struct {
	api    AuthAPI
	creds  CredentialStore
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	user      *models.User
	observers []func(Changed)

	initOnce sync.Once
	initErr  error
}

// New creates a store in the Initializing state
func New(client AuthAPI, creds CredentialStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		api:    client,
		creds:  creds,
		logger: logger,
		state:  StateInitializing,
	}
}

// OnChange registers fn to run after each transition
func (s *Store) OnChange(fn func(Changed)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Initialize restores a persisted session. It runs once; later calls return
// the first result. A credential the server rejects is deleted.
func (s *Store) Initialize(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.restore(ctx)
	})
	return s.initErr
}

func (s *Store) restore(ctx context.Context) error {
	token, err := s.creds.Load()
	if err != nil {
		s.logger.Warn("could not read stored credential", "error", err)
		s.transition(StateAnonymous, nil)
		return s.creds.Clear()
	}
	if token == "" {
		s.transition(StateAnonymous, nil)
		return nil
	}

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Info("stored credential rejected, clearing", "error", err)
		clearErr := s.creds.Clear()
		s.transition(StateAnonymous, nil)
		return clearErr
	}

	s.logger.Debug("session restored", "user", user.Username)
	s.transition(StateAuthenticated, user)
	return nil
}

// Login authenticates and persists the issued credential.
// On failure the session is left as it was.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrMissingToken
	}

	if err := s.creds.Save(resp.Token); err != nil {
		return nil, fmt.Errorf("save credential: %w", err)
	}

	user := resp.User
	s.transition(StateAuthenticated, &user)
	return &user, nil
}

// Register creates the account then logs in with the same username and password.
// Registration does not issue a credential, so a failed login leaves the session anonymous.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if _, err := s.api.Register(ctx, req); err != nil {
		return nil, err
	}
	return s.Login(ctx, models.LoginRequest{Username: req.Username, Password: req.Password})
}

// Logout forgets the session locally. The server is not contacted.
func (s *Store) Logout() error {
	err := s.creds.Clear()
	s.transition(StateAnonymous, nil)
	return err
}

// IsAuthenticated reports whether both a user and a credential are present
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	hasUser := s.user != nil
	s.mu.RUnlock()
	return hasUser && s.Token() != ""
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns a copy of the session user, or nil
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the stored credential
func (s *Store) Token() string {
	token, err := s.creds.Load()
	if err != nil {
		return ""
	}
	return token
}

// ChangePassword changes the password of the session user
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return s.api.ChangePassword(ctx, oldPassword, newPassword)
}

// Refresh exchanges the credential for a fresh one and persists it
func (s *Store) Refresh(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	fresh, err := s.api.RefreshToken(ctx, token)
	if err != nil {
		return err
	}
	if fresh == "" {
		return ErrMissingToken
	}
	return s.creds.Save(fresh)
}

// Validate asks the server whether the credential is still accepted
func (s *Store) Validate(ctx context.Context) (*models.TokenValidation, error) {
	if s.Token() == "" {
		return nil, ErrNotAuthenticated
	}
	return s.api.ValidateToken(ctx)
}

// Expiry reads the exp claim of the credential. The signature is not verified;
// the result is for display only.
func (s *Store) Expiry() (time.Time, error) {
	token := s.Token()
	if token == "" {
		return time.Time{}, ErrNotAuthenticated
	}
	return TokenExpiry(token)
}

// TokenExpiry reads the exp claim of an unverified JWT
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse credential: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("read expiry: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

func (s *Store) transition(state State, user *models.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	observers := append([]func(Changed){}, s.observers...)
	s.mu.Unlock()

	change := Changed{State: state}
	if user != nil {
		u := *user
		change.User = &u
	}
	for _, fn := range observers {
		fn(change)
	}
}

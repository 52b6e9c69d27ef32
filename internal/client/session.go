package client

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/quizgenie/quizgenie/internal/quizgenie"
)

// ErrLoginRequired is returned by RequireAuth when no valid session exists.
var ErrLoginRequired = errors.New("login required, run `quizctl login` first")

// Result is the outcome of a login or register attempt. Auth failures are
// expected user input, not errors, so they come back as a message.
type Result struct {
	OK      bool
	Message string
}

// Session tracks the current user and persists the auth token to a file so
// it survives restarts. The token is handed to each request explicitly via
// Token; there is no ambient default.
type Session struct {
	client *Client
	path   string

	mu    sync.Mutex
	token string
	user  quizgenie.User
}

func NewSession(c *Client, tokenPath string) *Session {
	return &Session{client: c, path: tokenPath}
}

// Load restores a persisted token and verifies it with the server before
// trusting it. An invalid or expired token is cleared and Load returns with
// the session logged out; only transport failures are reported as errors.
func (s *Session) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return nil
	}

	user, err := s.client.VerifyToken(ctx, token)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			s.Invalidate()
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

func (s *Session) Login(ctx context.Context, username, password string) Result {
	token, user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return failure(err)
	}

	if err := s.persist(token); err != nil {
		return Result{Message: "login succeeded but saving the session failed: " + err.Error()}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return Result{OK: true, Message: "logged in as " + user.Username}
}

// Register creates the account and then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, username, email, password string) Result {
	if _, err := s.client.Register(ctx, username, email, password); err != nil {
		return failure(err)
	}
	return s.Login(ctx, username, password)
}

func (s *Session) Logout() error {
	s.clear()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) User() quizgenie.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// RequireAuth returns the token for an authenticated call, or
// ErrLoginRequired when the session is logged out.
func (s *Session) RequireAuth() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrLoginRequired
	}
	return s.token, nil
}

// Invalidate drops the session after the server rejected its token.
func (s *Session) Invalidate() {
	s.clear()
	os.Remove(s.path)
}

func (s *Session) clear() {
	s.mu.Lock()
	s.token = ""
	s.user = quizgenie.User{}
	s.mu.Unlock()
}

func (s *Session) persist(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func failure(err error) Result {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Result{Message: apiErr.Error()}
	}
	return Result{Message: err.Error()}
}

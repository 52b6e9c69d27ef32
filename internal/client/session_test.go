package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/quizgenie/quizgenie/internal/database"
	"github.com/quizgenie/quizgenie/internal/genai"
	"github.com/quizgenie/quizgenie/internal/migrations"
	"github.com/quizgenie/quizgenie/internal/server"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return server.Handler(server.Deps{
		Store:     server.NewSQLiteStore(db),
		Generator: genai.OfflineGenerator{},
		Judge:     genai.OfflineJudge{},
		Secret:    "test-secret",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newTestHandler(t))
	t.Cleanup(ts.Close)
	return ts
}

func tokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "quizgenie", "token")
}

func TestSessionRegisterPersistsAcrossRestarts(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL, nil)
	path := tokenPath(t)
	ctx := context.Background()

	sess := NewSession(c, path)
	res := sess.Register(ctx, "maria", "maria@example.com", "hunter22")
	if !res.OK {
		t.Fatalf("register failed: %s", res.Message)
	}
	if !sess.LoggedIn() {
		t.Fatal("not logged in after register")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("token file not written: %v", err)
	}

	// A fresh session picks the token back up and verifies it.
	restored := NewSession(c, path)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !restored.LoggedIn() {
		t.Fatal("restored session not logged in")
	}
	if restored.User().Username != "maria" {
		t.Errorf("restored user = %q, want maria", restored.User().Username)
	}

	if err := restored.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if restored.LoggedIn() {
		t.Error("still logged in after logout")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("token file survived logout")
	}
}

func TestSessionLoadClearsRejectedToken(t *testing.T) {
	ts := newTestServer(t)
	path := tokenPath(t)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale-or-forged-token"), 0o600); err != nil {
		t.Fatal(err)
	}

	sess := NewSession(New(ts.URL, nil), path)
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.LoggedIn() {
		t.Error("session trusted a token the server rejected")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("rejected token file not cleared")
	}
}

func TestSessionLoginFailureIsAResult(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL, nil)
	ctx := context.Background()

	sess := NewSession(c, tokenPath(t))
	if res := sess.Register(ctx, "maria", "maria@example.com", "hunter22"); !res.OK {
		t.Fatalf("register failed: %s", res.Message)
	}

	other := NewSession(c, tokenPath(t))
	res := other.Login(ctx, "maria", "wrong")
	if res.OK {
		t.Fatal("login with wrong password succeeded")
	}
	if res.Message != "username or password is incorrect" {
		t.Errorf("message = %q", res.Message)
	}
	if other.LoggedIn() {
		t.Error("logged in after failed login")
	}

	if _, err := other.RequireAuth(); !errors.Is(err, ErrLoginRequired) {
		t.Errorf("RequireAuth error = %v, want ErrLoginRequired", err)
	}
}

func TestSessionRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL, nil)
	ctx := context.Background()

	first := NewSession(c, tokenPath(t))
	if res := first.Register(ctx, "maria", "maria@example.com", "hunter22"); !res.OK {
		t.Fatalf("register failed: %s", res.Message)
	}

	second := NewSession(c, tokenPath(t))
	res := second.Register(ctx, "maria", "dup@example.com", "hunter22")
	if res.OK {
		t.Fatal("duplicate register succeeded")
	}
	if res.Message != "username or email already exists" {
		t.Errorf("message = %q", res.Message)
	}
}

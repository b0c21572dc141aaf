package http

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func writeSPAFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!doctype html><title>skillswap</title>"), 0o644); err != nil {
		t.Fatalf("write index fixture: %v", err)
	}
	return dir
}

func TestRequireAuthRejectsMissingSession(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/profile", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/profile", nil, &http.Cookie{Name: sessionCookieName, Value: "not-a-real-token"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthPassesUserThrough(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodGet, "/api/profile", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User userPayload `json:"user"`
	}
	decodeBody(t, rec, &resp)
	if resp.User.Email != "ada@example.com" {
		t.Fatalf("unexpected user %q", resp.User.Email)
	}
}

func TestPageGuardRedirectsWithReturnPath(t *testing.T) {
	env := newTestEnv(t, writeSPAFixture(t))

	for _, path := range []string{"/skill/3", "/profile"} {
		rec := env.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("GET %s: expected 303, got %d", path, rec.Code)
		}

		location, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("parse redirect location: %v", err)
		}
		if location.Path != "/login" {
			t.Fatalf("expected redirect to /login, got %q", location.Path)
		}
		if got := location.Query().Get("redirectTo"); got != path {
			t.Fatalf("expected redirectTo %q, got %q", path, got)
		}
	}
}

func TestPageGuardServesAuthenticatedVisitors(t *testing.T) {
	env := newTestEnv(t, writeSPAFixture(t))
	cookie := env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodGet, "/skill/3", nil, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPageGuardReevaluatesAfterSignOut(t *testing.T) {
	env := newTestEnv(t, writeSPAFixture(t))
	cookie := env.signIn(t, "ada@example.com", "Lovelace1")

	if rec := env.do(t, http.MethodGet, "/profile", nil, cookie); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 while signed in, got %d", rec.Code)
	}

	if err := env.auth.DeleteSession(context.Background(), cookie.Value); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	// The earlier allow decision does not stick.
	rec := env.do(t, http.MethodGet, "/profile", nil, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after sign-out, got %d", rec.Code)
	}
}

func TestPublicPagesNeedNoSession(t *testing.T) {
	env := newTestEnv(t, writeSPAFixture(t))

	for _, path := range []string{"/", "/login", "/register", "/skills"} {
		rec := env.do(t, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/health", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
	// HSTS only applies outside development.
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("expected no HSTS in development, got %q", got)
	}
}

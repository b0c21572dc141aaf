package http

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegisterCreatesAccountAndSignsIn(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email":       "ada@example.com",
		"password":    "Lovelace1",
		"displayName": "Ada Lovelace",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User userPayload `json:"user"`
	}
	decodeBody(t, rec, &resp)
	if resp.User.Email != "ada@example.com" {
		t.Fatalf("unexpected email %q", resp.User.Email)
	}
	if resp.User.DisplayName != "Ada Lovelace" {
		t.Fatalf("unexpected display name %q", resp.User.DisplayName)
	}

	// Registration issues a session immediately.
	cookie := sessionCookieFrom(t, rec)
	status := env.do(t, http.MethodGet, "/api/session", nil, cookie)
	if status.Code != http.StatusOK {
		t.Fatalf("expected 200 from session check, got %d", status.Code)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t, "")

	first := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "Lovelace1",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first register: %d", first.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "Lovelace1",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &resp)
	if resp.Code != "auth/email-already-in-use" {
		t.Fatalf("unexpected code %q", resp.Code)
	}
}

func TestRegisterWeakPasswordListsEveryViolation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "abc",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decodeBody(t, rec, &resp)
	if resp.Code != "auth/weak-password" {
		t.Fatalf("unexpected code %q", resp.Code)
	}
	for _, want := range []string{"at least 6 characters", "Uppercase"} {
		if !strings.Contains(resp.Error, want) {
			t.Fatalf("expected %q in %q", want, resp.Error)
		}
	}
}

func TestLoginEchoesSafeRedirect(t *testing.T) {
	env := newTestEnv(t, "")
	env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "Lovelace1", "redirectTo": "/skill/3",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	decodeBody(t, rec, &resp)
	if resp.RedirectTo != "/skill/3" {
		t.Fatalf("expected redirect echoed, got %q", resp.RedirectTo)
	}
	sessionCookieFrom(t, rec)
}

func TestLoginRejectsUnsafeRedirect(t *testing.T) {
	env := newTestEnv(t, "")
	env.signIn(t, "ada@example.com", "Lovelace1")

	for _, target := range []string{"https://evil.example.com", "//evil.example.com", "javascript:alert(1)"} {
		rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "ada@example.com", "password": "Lovelace1", "redirectTo": target,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp loginResponse
		decodeBody(t, rec, &resp)
		if resp.RedirectTo != "/" {
			t.Fatalf("expected fallback redirect for %q, got %q", target, resp.RedirectTo)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, "")
	env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "Wrong1pass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &resp)
	if resp.Code != "auth/invalid-credential" {
		t.Fatalf("unexpected code %q", resp.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "Whatever1",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp struct {
		Code string `json:"code"`
	}
	decodeBody(t, rec, &resp)
	if resp.Code != "auth/user-not-found" {
		t.Fatalf("unexpected code %q", resp.Code)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	status := env.do(t, http.MethodGet, "/api/session", nil, cookie)
	if status.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status.Code)
	}

	// A second logout with the dead cookie is still a 204.
	again := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	if again.Code != http.StatusNoContent {
		t.Fatalf("expected idempotent logout, got %d", again.Code)
	}
}

func TestSessionStatusWithoutCookie(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestPasswordResetEndToEnd(t *testing.T) {
	env := newTestEnv(t, "")
	env.signIn(t, "ada@example.com", "Lovelace1")

	rec := env.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": "ada@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var forgot struct {
		WebmailURL string `json:"webmailUrl"`
	}
	decodeBody(t, rec, &forgot)
	if forgot.WebmailURL != env.cfg.WebmailURL {
		t.Fatalf("expected webmail url %q, got %q", env.cfg.WebmailURL, forgot.WebmailURL)
	}
	if env.mailer.token == "" {
		t.Fatal("expected a reset token dispatched")
	}

	reset := env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": env.mailer.token, "password": "Newpass1",
	})
	if reset.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", reset.Code, reset.Body.String())
	}

	login := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "Newpass1",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("expected login with new password, got %d", login.Code)
	}

	// Reset tokens are single use.
	reuse := env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": env.mailer.token, "password": "Another1",
	})
	if reuse.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on token reuse, got %d", reuse.Code)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": "ghost@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRegisterRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "password": "Lovelace1", "admin": "true",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

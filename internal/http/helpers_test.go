package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"skillswap/internal/auth"
	"skillswap/internal/bookings"
	"skillswap/internal/config"
	"skillswap/internal/skills"
)

type captureMailer struct {
	token string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, _, token string) error {
	m.token = token
	return nil
}

type memSource struct {
	skills []skills.Skill
}

func (s *memSource) Load(_ context.Context) ([]skills.Skill, error) {
	return s.skills, nil
}

func testSkills() []skills.Skill {
	return []skills.Skill{
		{SkillID: 1, SkillName: "Guitar Basics", Category: "Music", ProviderName: "Maya Chen", Rating: 4.8, Price: 35, SlotsAvailable: 5},
		{SkillID: 2, SkillName: "Intro to Go", Category: "Tech", ProviderName: "Priya Nair", Rating: 4.9, Price: 50, SlotsAvailable: 3},
		{SkillID: 3, SkillName: "Watercolor", Category: "Arts", ProviderName: "Sofia Reyes", Rating: 4.5, Price: 20, SlotsAvailable: 8},
	}
}

type testEnv struct {
	handler http.Handler
	auth    *auth.Service
	mailer  *captureMailer
	cfg     config.Config
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()

	cfg := config.Config{
		Environment:    "development",
		HTTPPort:       8080,
		DataStore:      "memory",
		LogLevel:       "error",
		AllowedOrigins: []string{"http://localhost:5173"},
		FrontendURL:    "http://localhost:5173",
		StaticDir:      staticDir,
		SessionTTL:     time.Hour,
		WebmailURL:     "https://mail.example.com",
	}

	mailer := &captureMailer{}
	authService := auth.NewService(auth.NewInMemoryRepository(), auth.NewMemoryLoginLimiter(), auth.NewMemoryResetTokenStore(), mailer, cfg.SessionTTL)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	skillService := skills.NewService(&memSource{skills: testSkills()})
	bookingService := bookings.NewService(skillService, logger)

	return &testEnv{
		handler: NewRouter(cfg, authService, skillService, bookingService, nil, logger),
		auth:    authService,
		mailer:  mailer,
		cfg:     cfg,
	}
}

// signIn registers an account and returns its session cookie.
func (e *testEnv) signIn(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	user, err := e.auth.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: password,
		Name:     "Test User",
	})
	if err != nil {
		t.Fatalf("register test user: %v", err)
	}

	token, err := e.auth.CreateSession(context.Background(), user.ID, "test", "127.0.0.1")
	if err != nil {
		t.Fatalf("create test session: %v", err)
	}

	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func (e *testEnv) do(t *testing.T, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookieName)
	return nil
}

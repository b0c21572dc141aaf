package http

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"skillswap/internal/auth"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func newSlogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)
			logger.Info("http request", "method", r.Method, "path", r.URL.Path, "status", recorder.status, "duration", duration.String())
		})
	}
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey contextKey = "user"

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if the auth middleware hasn't populated the context.
func UserFromContext(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userContextKey).(*auth.User)
	return user
}

// currentUser resolves the session cookie to a user, or nil when the request
// carries no valid session. Each call observes the session store directly;
// there is no per-request cache shared between middlewares.
func currentUser(r *http.Request, authService *auth.Service, logger *slog.Logger) *auth.User {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	user, err := authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		logger.Error("session validation error", "error", err)
		return nil
	}
	return user
}

// newAuthMiddleware guards API routes: requests without a valid session get
// 401, everything else continues with the user in the request context.
func newAuthMiddleware(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := currentUser(r, authService, logger)
			if user == nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// newPageGuardMiddleware guards browser navigation to protected pages. An
// unauthenticated visitor is redirected to the login page with the original
// path preserved as redirectTo, so a successful sign-in can return them
// there. The guard re-evaluates on every request: a session that expired or
// was signed out elsewhere redirects again rather than honoring a past
// decision.
func newPageGuardMiddleware(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := currentUser(r, authService, logger)
			if user == nil {
				target := "/login?redirectTo=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "authentication required")
}

func newSecurityHeadersMiddleware(environment string) func(http.Handler) http.Handler {
	isDev := strings.EqualFold(environment, "development")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")

			if !isDev {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// newRecovererMiddleware is the top-level recovery boundary: a panic in any
// handler becomes a generic JSON error pointing the user home, and only the
// attempted request fails.
func newRecovererMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec, "path", r.URL.Path)
					writeJSON(w, http.StatusInternalServerError, map[string]string{
						"error":    "something went wrong",
						"returnTo": "/",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// clientIPFromRequest extracts the caller's IP, relying on the RealIP
// middleware having already normalized RemoteAddr.
func clientIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

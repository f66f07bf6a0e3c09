package adapthttp

import (
	"context"
	"log"
	"net/http"
	"time"

	"microblog/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

// identityMiddleware resolves the requester for each request. An active
// session wins; otherwise the guid remember-me cookie is tried and, on a
// match, a fresh session is established and both cookies are re-issued.
// Requests with neither proceed anonymously.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil {
			if user, err := s.auth.CurrentUser(r.Context(), c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
				return
			}
		}

		if c, err := r.Cookie(guidCookie); err == nil {
			token, user, err := s.auth.LoginWithToken(r.Context(), c.Value)
			if err == nil {
				setSessionCookie(w, token)
				setGUIDCookie(w, user.AccessToken)
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// requestUser returns the resolved requester, or nil for anonymous.
func requestUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// loggingMiddleware logs one line per request: method, path, status,
// duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

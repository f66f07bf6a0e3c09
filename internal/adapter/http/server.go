// Package adapthttp implements the HTTP adapter for the application. It
// serves JSON page data; HTML rendering is left to an external client.
package adapthttp

import (
	"net/http"

	"microblog/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth  *app.AuthService
	posts *app.PostService
	oidc  OIDCConfig
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, posts *app.PostService, oidc OIDCConfig) *Server {
	return &Server{auth: auth, posts: posts, oidc: oidc}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	mux.HandleFunc("/api/config", s.handleConfig)

	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/Home", s.handleHome)
	mux.HandleFunc("/About", s.handleAbout)
	mux.HandleFunc("/Login", s.handleLogin)
	mux.HandleFunc("/Register", s.handleRegister)
	mux.HandleFunc("/Logout", s.handleLogout)
	mux.HandleFunc("/Post", s.handlePost)
	mux.HandleFunc("/Post/Edit", s.handlePostEdit)
	mux.HandleFunc("/Post/Delete", s.handlePostDelete)
	mux.HandleFunc("/Users", s.handleUsers)

	mux.HandleFunc("/SSO/Login", s.handleSSOLogin)
	mux.HandleFunc("/SSO/Callback", s.handleSSOCallback)

	return s.loggingMiddleware(withNoCache(s.identityMiddleware(mux)))
}

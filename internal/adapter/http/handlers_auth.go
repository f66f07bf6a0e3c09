package adapthttp

import (
	"errors"
	"net/http"

	"microblog/internal/app"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// A valid guid cookie has already been turned into a session by the
		// identity middleware, so a remembered visitor lands logged in.
		if user := requestUser(r); user != nil {
			writeJSON(w, http.StatusOK, map[string]any{
				"pages":   pagesFor(user),
				"success": "Login successful",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"pages":        []string{"Home", "About", "Register"},
			"current_page": "Login",
		})

	case http.MethodPost:
		userName := r.FormValue("user_name")
		password := r.FormValue("password")
		remember := r.FormValue("remember") != ""

		token, user, err := s.auth.Login(r.Context(), userName, password)
		if errors.Is(err, app.ErrUserNotFound) || errors.Is(err, app.ErrBadPassword) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"pages":        []string{"Home", "About", "Register"},
				"current_page": "Login",
				"error":        err.Error(),
			})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		setSessionCookie(w, token)
		if remember {
			setGUIDCookie(w, user.AccessToken)
		} else {
			clearCookie(w, guidCookie)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"pages":   pagesFor(user),
			"success": "Login successful",
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"pages":        []string{"Home", "About", "Login"},
			"current_page": "Register",
		})

	case http.MethodPost:
		userName := r.FormValue("user_name")
		email := r.FormValue("email")
		password := r.FormValue("password")
		confPassword := r.FormValue("conf_password")

		user, err := s.auth.Register(r.Context(), userName, email, password, confPassword)
		switch {
		case errors.Is(err, app.ErrUserExists):
			s.registerError(w, http.StatusConflict, err)
			return
		case errors.Is(err, app.ErrInvalidEmail), errors.Is(err, app.ErrPasswordMismatch):
			s.registerError(w, http.StatusBadRequest, err)
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		// Automatic login after registration; no remember-me cookie here.
		token, _, err := s.auth.Login(r.Context(), userName, password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		setSessionCookie(w, token)
		writeJSON(w, http.StatusCreated, map[string]any{
			"pages":   pagesFor(user),
			"success": "Registration successful",
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) registerError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{
		"pages":        []string{"Home", "About", "Login"},
		"current_page": "Register",
		"error":        err.Error(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = s.auth.Logout(r.Context(), cookie.Value)
	}
	clearCookie(w, sessionCookie)
	clearCookie(w, guidCookie)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sso_enabled": s.oidc.Enabled,
	})
}

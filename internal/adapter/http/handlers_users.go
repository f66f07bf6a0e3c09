package adapthttp

import (
	"errors"
	"net/http"

	"microblog/internal/app"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user := requestUser(r)
	users, err := s.auth.Users(r.Context(), user)
	if errors.Is(err, app.ErrUnauthenticated) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"pages": pagesFor(user),
			"error": "You must be Admin to view this page",
		})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pages":        pagesFor(user),
		"current_page": "Users",
		"users":        userViews(users),
	})
}

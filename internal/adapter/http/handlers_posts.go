package adapthttp

import (
	"errors"
	"net/http"

	"microblog/internal/app"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	// "/" is the mux catch-all; anything but the two home paths is a 404.
	if r.URL.Path != "/" && r.URL.Path != "/Home" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	posts, err := s.posts.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages":        pagesFor(requestUser(r)),
		"current_page": "Home",
		"posts":        postViews(posts),
	})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages":        pagesFor(requestUser(r)),
		"current_page": "About",
	})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"pages": pagesFor(nil),
			"error": "You must be logged in to post",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"pages":        pagesFor(user),
			"current_page": "Post",
		})

	case http.MethodPost:
		title := r.FormValue("title")
		content := r.FormValue("content")
		// Posts are always attributed to the session's own user name.
		if _, err := s.posts.Create(r.Context(), title, user.UserName, content); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePostEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if requestUser(r) == nil {
		writeError(w, http.StatusUnauthorized, app.ErrUnauthenticated)
		return
	}
	id, ok := formID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	found, err := s.posts.Edit(r.Context(), id, r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, errors.New("post not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if requestUser(r) == nil {
		writeError(w, http.StatusUnauthorized, app.ErrUnauthenticated)
		return
	}
	id, ok := formID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}

	found, err := s.posts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, errors.New("post not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

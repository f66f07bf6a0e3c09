package adapthttp

import (
	"encoding/json"
	"net/http"
	"strconv"

	"microblog/internal/app"
	"microblog/internal/domain"
)

const (
	sessionCookie = "session"
	guidCookie    = "guid"

	// The remember-me cookie carries a fixed one-hour max-age on every
	// (re)issue.
	guidCookieMaxAge    = 3600
	sessionCookieMaxAge = 86400
)

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   sessionCookieMaxAge,
	})
}

func setGUIDCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     guidCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   guidCookieMaxAge,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func formID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	return id, err == nil
}

// pagesFor returns the nav menu entries shown to the requester.
func pagesFor(user *domain.User) []string {
	switch {
	case user == nil:
		return []string{"Home", "About", "Register", "Login"}
	case user.UserName == app.AdminUserName:
		return []string{"Home", "About", "Users", "Post", "Logout"}
	default:
		return []string{"Home", "About", "Post", "Logout"}
	}
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// View types keep password hashes and access tokens out of responses.

type postView struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	UserName string `json:"user_name"`
	Content  string `json:"content"`
	PostTime string `json:"post_time"`
}

type userView struct {
	ID       int64  `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

func postViews(posts []domain.Post) []postView {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{ID: p.ID, Title: p.Title, UserName: p.UserName, Content: p.Content, PostTime: p.PostTime})
	}
	return out
}

func userViews(users []domain.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, userView{ID: u.ID, UserName: u.UserName, Email: u.Email})
	}
	return out
}

package adapthttp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	adapthttp "microblog/internal/adapter/http"
	"microblog/internal/adapter/memory"
	"microblog/internal/app"
)

// ---------------------------------------------------------------------------
// Test fixture: real services over the in-memory store
// ---------------------------------------------------------------------------

type fixture struct {
	handler http.Handler
	db      *memory.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	if err := app.Seed(context.Background(), db.Users(), db.Posts()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	auth := app.NewAuthService(db.Users(), db.Sessions())
	posts := app.NewPostService(db.Posts())
	return &fixture{
		handler: adapthttp.New(auth, posts, adapthttp.OIDCConfig{}).Handler(),
		db:      db,
	}
}

func (f *fixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func cookieNamed(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("response did not set cookie %q", name)
	return nil
}

func pagesOf(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["pages"].([]any)
	if !ok {
		t.Fatalf("body has no pages list: %v", body)
	}
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.(string))
	}
	return out
}

func (f *fixture) registerBob(t *testing.T) *http.Cookie {
	t.Helper()
	w := f.postForm("/Register", url.Values{
		"user_name":     {"bob"},
		"email":         {"bob@x.co"},
		"password":      {"p"},
		"conf_password": {"p"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return cookieNamed(t, w, "session")
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if w := f.get("/health"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestHome_Anonymous(t *testing.T) {
	f := newFixture(t)
	w := f.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)

	pages := strings.Join(pagesOf(t, body), ",")
	if pages != "Home,About,Register,Login" {
		t.Errorf("anonymous nav = %s", pages)
	}

	posts := body["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("expected the seeded welcome post, got %d posts", len(posts))
	}
	first := posts[0].(map[string]any)
	if first["title"] != "Welcome!" || first["user_name"] != "Admin" {
		t.Errorf("unexpected seeded post: %v", first)
	}
}

func TestHome_UnknownPathIs404(t *testing.T) {
	f := newFixture(t)
	if w := f.get("/NoSuchPage"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRegister_AutoLogin(t *testing.T) {
	f := newFixture(t)
	session := f.registerBob(t)

	w := f.get("/Post", session)
	if w.Code != http.StatusOK {
		t.Fatalf("expected post page with fresh session, got %d", w.Code)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	f := newFixture(t)
	w := f.postForm("/Register", url.Values{
		"user_name":     {"carol"},
		"email":         {"A@b.co"},
		"password":      {"p"},
		"conf_password": {"p"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "email not valid" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	w := f.postForm("/Register", url.Values{
		"user_name":     {"bob"},
		"email":         {"bob@x.co"},
		"password":      {"p"},
		"conf_password": {"p"},
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	w := f.postForm("/Login", url.Values{
		"user_name": {"bob"},
		"password":  {"wrong"},
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "password incorrect" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestLogin_RememberMeSetsGUID(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	w := f.postForm("/Login", url.Values{
		"user_name": {"bob"},
		"password":  {"p"},
		"remember":  {"on"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	guid := cookieNamed(t, w, "guid")
	if guid.MaxAge != 3600 {
		t.Errorf("guid max-age = %d, want 3600", guid.MaxAge)
	}

	bob, err := f.db.Users().GetByUserName(context.Background(), "bob")
	if err != nil || bob == nil {
		t.Fatalf("lookup bob: %v", err)
	}
	if guid.Value != bob.AccessToken {
		t.Error("guid cookie does not carry the stored access token")
	}
}

func TestLogin_WithoutRememberClearsGUID(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	w := f.postForm("/Login", url.Values{
		"user_name": {"bob"},
		"password":  {"p"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if guid := cookieNamed(t, w, "guid"); guid.MaxAge >= 0 {
		t.Errorf("guid cookie should be expiring, max-age = %d", guid.MaxAge)
	}
}

func TestGUIDCookie_ReauthenticatesFreshBrowser(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	login := f.postForm("/Login", url.Values{
		"user_name": {"bob"},
		"password":  {"p"},
		"remember":  {"on"},
	})
	guid := cookieNamed(t, login, "guid")

	// A new browser instance: no session cookie, guid retained.
	w := f.get("/", &http.Cookie{Name: "guid", Value: guid.Value})
	body := decodeBody(t, w)
	pages := strings.Join(pagesOf(t, body), ",")
	if pages != "Home,About,Post,Logout" {
		t.Fatalf("remembered visitor should be authenticated, nav = %s", pages)
	}

	// Silent re-auth issues a fresh session and re-extends the guid cookie.
	if session := cookieNamed(t, w, "session"); session.Value == "" {
		t.Error("expected a fresh session cookie")
	}
	if reissued := cookieNamed(t, w, "guid"); reissued.MaxAge != 3600 {
		t.Errorf("guid cookie not re-extended, max-age = %d", reissued.MaxAge)
	}

	// Cookie cleared: back to anonymous.
	w = f.get("/")
	pages = strings.Join(pagesOf(t, decodeBody(t, w)), ",")
	if pages != "Home,About,Register,Login" {
		t.Errorf("expected anonymous nav without cookies, got %s", pages)
	}
}

func TestLogout_ClearsCookies(t *testing.T) {
	f := newFixture(t)
	session := f.registerBob(t)

	w := f.get("/Logout", session)
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if c := cookieNamed(t, w, "session"); c.MaxAge >= 0 {
		t.Error("session cookie not cleared")
	}
	if c := cookieNamed(t, w, "guid"); c.MaxAge >= 0 {
		t.Error("guid cookie not cleared")
	}

	// The server-side session is gone too.
	if w := f.get("/Post", session); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", w.Code)
	}
}

func TestPost_RequiresLogin(t *testing.T) {
	f := newFixture(t)
	w := f.get("/Post")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "You must be logged in to post" {
		t.Errorf("unexpected error: %v", body["error"])
	}
}

func TestPost_CreateAttributedToSession(t *testing.T) {
	f := newFixture(t)
	session := f.registerBob(t)

	w := f.postForm("/Post", url.Values{
		"title":   {"Hi"},
		"content": {"my first post"},
	}, session)
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect after create, got %d", w.Code)
	}

	home := decodeBody(t, f.get("/"))
	posts := home["posts"].([]any)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	last := posts[1].(map[string]any)
	if last["user_name"] != "bob" {
		t.Errorf("post attributed to %v, want bob", last["user_name"])
	}
}

func TestPostEdit_AndDelete(t *testing.T) {
	f := newFixture(t)
	session := f.registerBob(t)

	// The seeded welcome post has id 1; no ownership check applies.
	w := f.postForm("/Post/Edit", url.Values{
		"id":      {"1"},
		"title":   {"Edited"},
		"content": {"changed"},
	}, session)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	home := decodeBody(t, f.get("/"))
	first := home["posts"].([]any)[0].(map[string]any)
	if first["title"] != "Edited" {
		t.Errorf("title = %v after edit", first["title"])
	}
	if first["user_name"] != "Admin" {
		t.Errorf("author changed by edit: %v", first["user_name"])
	}

	w = f.postForm("/Post/Delete", url.Values{"id": {"1"}}, session)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = f.postForm("/Post/Delete", url.Values{"id": {"1"}}, session)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleting a missing post: expected 404, got %d", w.Code)
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	f := newFixture(t)
	f.registerBob(t)

	// Anonymous visitor gets the defined unauthorized outcome, not a crash.
	w := f.get("/Users")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /Users: expected 401, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "You must be Admin to view this page" {
		t.Errorf("unexpected error: %v", body["error"])
	}

	// Plain user is rejected the same way.
	login := f.postForm("/Login", url.Values{"user_name": {"bob"}, "password": {"p"}})
	bobSession := cookieNamed(t, login, "session")
	if w := f.get("/Users", bobSession); w.Code != http.StatusUnauthorized {
		t.Errorf("non-admin /Users: expected 401, got %d", w.Code)
	}

	// The seeded admin sees the roster.
	login = f.postForm("/Login", url.Values{"user_name": {"admin"}, "password": {"admin"}})
	adminSession := cookieNamed(t, login, "session")
	w = f.get("/Users", adminSession)
	if w.Code != http.StatusOK {
		t.Fatalf("admin /Users: expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	users := body["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		m := u.(map[string]any)
		if _, leaked := m["password_hash"]; leaked {
			t.Error("user listing leaks password hashes")
		}
		if _, leaked := m["access_token"]; leaked {
			t.Error("user listing leaks access tokens")
		}
	}
}

func TestConfig_SSODisabledByDefault(t *testing.T) {
	f := newFixture(t)
	body := decodeBody(t, f.get("/api/config"))
	if body["sso_enabled"] != false {
		t.Errorf("sso_enabled = %v, want false", body["sso_enabled"])
	}
}

func TestSSOLogin_DisabledIs404(t *testing.T) {
	f := newFixture(t)
	if w := f.get("/SSO/Login"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 with SSO disabled, got %d", w.Code)
	}
}

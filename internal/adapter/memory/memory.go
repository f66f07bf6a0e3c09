// Package memory implements the repository ports in memory for development
// and testing.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"microblog/internal/domain"
)

// ErrDuplicateUserName mirrors the unique constraint the postgres adapter
// enforces on user_name.
var ErrDuplicateUserName = errors.New("user name already taken")

// DB holds the shared in-memory state. The per-entity repositories are
// views over it, the way the postgres adapter hangs repos off one
// connection.
type DB struct {
	mu       sync.Mutex
	users    []domain.User
	posts    []domain.Post
	sessions map[string]domain.Session

	userIDCounter int64
	postIDCounter int64
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{
		sessions: make(map[string]domain.Session),
	}
}

// Users returns the UserRepository view of the store.
func (db *DB) Users() *UserRepo { return &UserRepo{db: db} }

// Posts returns the PostRepository view of the store.
func (db *DB) Posts() *PostRepo { return &PostRepo{db: db} }

// Sessions returns the SessionRepository view of the store.
func (db *DB) Sessions() *SessionRepo { return &SessionRepo{db: db} }

// Ensure interfaces are met.
var _ domain.UserRepository = (*UserRepo)(nil)
var _ domain.PostRepository = (*PostRepo)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// UserRepo implements domain.UserRepository.
type UserRepo struct {
	db *DB
}

// Create creates a new user, rejecting a taken user name the way the
// database constraint would.
func (r *UserRepo) Create(ctx context.Context, userName, passwordHash, email, accessToken string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.UserName == userName {
			return nil, ErrDuplicateUserName
		}
	}

	r.db.userIDCounter++
	user := domain.User{
		ID:           r.db.userIDCounter,
		UserName:     userName,
		PasswordHash: passwordHash,
		Email:        email,
		AccessToken:  accessToken,
	}
	r.db.users = append(r.db.users, user)
	return &user, nil
}

// Delete removes the user with the given name along with its sessions.
// The user's posts are left untouched.
func (r *UserRepo) Delete(ctx context.Context, userName string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, u := range r.db.users {
		if u.UserName == userName {
			id := u.ID
			r.db.users = append(r.db.users[:i], r.db.users[i+1:]...)
			for token, s := range r.db.sessions {
				if s.UserID == id {
					delete(r.db.sessions, token)
				}
			}
			return true, nil
		}
	}
	return false, nil
}

// Exists reports whether the user name is taken.
func (r *UserRepo) Exists(ctx context.Context, userName string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

// GetByUserName retrieves a user by name, nil if absent.
func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.UserName == userName {
			ret := u
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by id, nil if absent.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.ID == id {
			ret := u
			return &ret, nil
		}
	}
	return nil, nil
}

// GetByAccessToken retrieves a user by its remember-me token, nil if absent.
func (r *UserRepo) GetByAccessToken(ctx context.Context, token string) (*domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	for _, u := range r.db.users {
		if u.AccessToken == token {
			ret := u
			return &ret, nil
		}
	}
	return nil, nil
}

// List returns all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.User, len(r.db.users))
	copy(out, r.db.users)
	return out, nil
}

// DeleteAll removes every user and, as the database cascade would, every
// session.
func (r *UserRepo) DeleteAll(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.users = nil
	r.db.sessions = make(map[string]domain.Session)
	return nil
}

// PostRepo implements domain.PostRepository.
type PostRepo struct {
	db *DB
}

// Create stores a new post.
func (r *PostRepo) Create(ctx context.Context, title, userName, content, postTime string) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.postIDCounter++
	post := domain.Post{
		ID:       r.db.postIDCounter,
		Title:    title,
		UserName: userName,
		Content:  content,
		PostTime: postTime,
	}
	r.db.posts = append(r.db.posts, post)
	return &post, nil
}

// Get retrieves a post by id, nil if absent.
func (r *PostRepo) Get(ctx context.Context, id int64) (*domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, p := range r.db.posts {
		if p.ID == id {
			ret := p
			return &ret, nil
		}
	}
	return nil, nil
}

// List returns all posts in insertion order.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]domain.Post, len(r.db.posts))
	copy(out, r.db.posts)
	return out, nil
}

// Edit overwrites title and content in place; PostTime and UserName are
// untouched.
func (r *PostRepo) Edit(ctx context.Context, id int64, title, content string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.posts {
		if r.db.posts[i].ID == id {
			r.db.posts[i].Title = title
			r.db.posts[i].Content = content
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a post by id.
func (r *PostRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, p := range r.db.posts {
		if p.ID == id {
			r.db.posts = append(r.db.posts[:i], r.db.posts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// DeleteAll removes every post.
func (r *PostRepo) DeleteAll(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.posts = nil
	return nil
}

// SessionRepo implements domain.SessionRepository.
type SessionRepo struct {
	db *DB
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

// GetByToken retrieves a session by token, nil if absent.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		ret := s
		return &ret, nil
	}
	return nil, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}

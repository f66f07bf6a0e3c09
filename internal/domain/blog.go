// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// PostTimeLayout is the fixed format posts are stamped with at creation.
const PostTimeLayout = "2006-01-02 15:04:05"

// User represents a registered account.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	Email        string
	AccessToken  string
}

// Post represents a published blog entry. UserName is a denormalized
// reference to the author, not a foreign key: deleting a user leaves that
// user's posts in place.
type Post struct {
	ID       int64
	Title    string
	UserName string
	Content  string
	PostTime string
}

// Session represents an active login held server-side.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, userName, passwordHash, email, accessToken string) (*User, error)
	Delete(ctx context.Context, userName string) (bool, error)
	Exists(ctx context.Context, userName string) (bool, error)
	GetByUserName(ctx context.Context, userName string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByAccessToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]User, error)
	DeleteAll(ctx context.Context) error
}

// PostRepository defines the port for post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, title, userName, content, postTime string) (*Post, error)
	Get(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context) ([]Post, error)
	Edit(ctx context.Context, id int64, title, content string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

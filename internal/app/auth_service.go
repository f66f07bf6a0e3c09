// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"regexp"
	"time"

	"microblog/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrUserExists indicates that the requested user name is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidEmail indicates that the email failed registration validation.
	ErrInvalidEmail = errors.New("email not valid")
	// ErrPasswordMismatch indicates that the confirmation password differed.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadPassword indicates that the password did not match the stored digest.
	ErrBadPassword = errors.New("password incorrect")
	// ErrNoCookie indicates that no usable remember-me token was presented.
	ErrNoCookie = errors.New("cookie not found")
	// ErrUnauthenticated indicates that the caller lacks the required identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// AdminUserName is the one distinguished account allowed to list users.
// There is no role field; the gate is a direct name comparison.
const AdminUserName = "admin"

// emailPattern is the registration validator: lowercase letters and digits
// in the local part, lowercase letters in the domain, a 2-3 letter TLD.
// Anchored at the start only, intentionally narrow.
var emailPattern = regexp.MustCompile(`^[a-z0-9]+@[a-z]+\.[a-z]{2,3}`)

const sessionTTL = 24 * time.Hour

// AuthService handles registration, authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
	}
}

// Register creates a new account after the uniqueness, email and
// confirmation checks, in that order. Callers follow a successful
// registration with an automatic login.
func (s *AuthService) Register(ctx context.Context, userName, email, password, confPassword string) (*domain.User, error) {
	exists, err := s.users.Exists(ctx, userName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if password != confPassword {
		return nil, ErrPasswordMismatch
	}
	return s.users.Create(ctx, userName, HashPassword(password), email, NewAccessToken())
}

// Login checks credentials and creates a session. The returned user carries
// the access token callers need for the remember-me cookie.
func (s *AuthService) Login(ctx context.Context, userName, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}
	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(HashPassword(password))) != 1 {
		return "", nil, ErrBadPassword
	}
	token, err := s.newSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoginWithToken authenticates with a remember-me access token and creates
// a session. An unknown token is reported the same way as an absent one so
// callers fall through to the anonymous path.
func (s *AuthService) LoginWithToken(ctx context.Context, accessToken string) (string, *domain.User, error) {
	if accessToken == "" {
		return "", nil, ErrNoCookie
	}
	user, err := s.users.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrNoCookie
	}
	token, err := s.newSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Users returns the full roster. Only the admin account may call it.
func (s *AuthService) Users(ctx context.Context, requester *domain.User) ([]domain.User, error) {
	if requester == nil || requester.UserName != AdminUserName {
		return nil, ErrUnauthenticated
	}
	return s.users.List(ctx)
}

// DeleteUser removes an account. The user's posts are left in place.
func (s *AuthService) DeleteUser(ctx context.Context, userName string) (bool, error) {
	return s.users.Delete(ctx, userName)
}

// LoginWithUser creates a session for an externally authenticated identity
// (e.g. via SSO), auto-provisioning the account on first sight with an
// empty password hash.
func (s *AuthService) LoginWithUser(ctx context.Context, userName string) (string, error) {
	user, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		return "", err
	}
	if user == nil {
		user, err = s.users.Create(ctx, userName, "", "", NewAccessToken())
		if err != nil {
			// Lost a provisioning race: the unique constraint means the
			// account exists now, so read it back.
			user, err = s.users.GetByUserName(ctx, userName)
			if err != nil {
				return "", err
			}
			if user == nil {
				return "", ErrUserNotFound
			}
		}
	}
	return s.newSession(ctx, user.ID)
}

func (s *AuthService) newSession(ctx context.Context, userID int64) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// NewAccessToken returns a fresh opaque 128-bit bearer token, hex encoded.
// Generated once per user at creation and never rotated.
func NewAccessToken() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

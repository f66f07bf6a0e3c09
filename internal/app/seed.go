package app

import (
	"context"
	"time"

	"microblog/internal/domain"
)

// Seed wipes all users and posts and recreates the demo fixture: the admin
// account (password "admin", empty email) and a welcome post. Destructive,
// so wiring gates it behind an explicit flag.
func Seed(ctx context.Context, users domain.UserRepository, posts domain.PostRepository) error {
	if err := users.DeleteAll(ctx); err != nil {
		return err
	}
	if err := posts.DeleteAll(ctx); err != nil {
		return err
	}
	if _, err := users.Create(ctx, AdminUserName, HashPassword("admin"), "", NewAccessToken()); err != nil {
		return err
	}
	// The welcome post's capitalized byline does not match any account.
	_, err := posts.Create(ctx, "Welcome!", "Admin", "Welcome to the blog!",
		time.Now().Format(domain.PostTimeLayout))
	return err
}

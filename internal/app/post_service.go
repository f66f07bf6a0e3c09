package app

import (
	"context"
	"time"

	"microblog/internal/domain"
)

// PostService encapsulates blog post use cases.
//
// Edit and Delete carry no ownership check: any authenticated caller that
// knows a post id may modify it.
type PostService struct {
	repo domain.PostRepository
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// Create stamps the current server time and stores the post.
func (s *PostService) Create(ctx context.Context, title, userName, content string) (*domain.Post, error) {
	return s.repo.Create(ctx, title, userName, content, time.Now().Format(domain.PostTimeLayout))
}

// Get returns the post with the given id, or nil if absent.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.repo.Get(ctx, id)
}

// List returns all posts in storage order.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	return s.repo.List(ctx)
}

// Edit overwrites title and content in place; post time and author are
// untouched. Reports whether the post was found.
func (s *PostService) Edit(ctx context.Context, id int64, title, content string) (bool, error) {
	return s.repo.Edit(ctx, id, title, content)
}

// Delete removes a post. A missing id reports found=false, not an error.
func (s *PostService) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

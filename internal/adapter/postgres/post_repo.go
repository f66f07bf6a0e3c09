package postgres

import (
	"context"
	"database/sql"

	"microblog/internal/domain"
)

// PostRepo implements domain.PostRepository on PostgreSQL.
type PostRepo struct {
	db *DB
}

// Create inserts a new post with the caller-supplied timestamp string.
func (r *PostRepo) Create(ctx context.Context, title, userName, content, postTime string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO posts (title, user_name, content, post_time) VALUES ($1, $2, $3, $4) RETURNING id, title, user_name, content, post_time",
		title, userName, content, postTime,
	).Scan(&p.ID, &p.Title, &p.UserName, &p.Content, &p.PostTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a post by id, nil if absent.
func (r *PostRepo) Get(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT id, title, user_name, content, post_time FROM posts WHERE id = $1", id,
	).Scan(&p.ID, &p.Title, &p.UserName, &p.Content, &p.PostTime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all posts in insertion order.
func (r *PostRepo) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, title, user_name, content, post_time FROM posts ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.UserName, &p.Content, &p.PostTime); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Edit overwrites title and content; post_time and user_name are untouched.
func (r *PostRepo) Edit(ctx context.Context, id int64, title, content string) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx,
		"UPDATE posts SET title = $2, content = $3 WHERE id = $1", id, title, content)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a post by id, reporting whether one was found.
func (r *PostRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteAll removes every post.
func (r *PostRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM posts")
	return err
}

package postgres

import (
	"context"
	"database/sql"

	"microblog/internal/domain"
)

// UserRepo implements domain.UserRepository on PostgreSQL.
type UserRepo struct {
	db *DB
}

// Create inserts a new user. A duplicate user_name surfaces as the unique
// constraint violation; callers pre-check existence for the friendlier
// error, the constraint closes the race.
func (r *UserRepo) Create(ctx context.Context, userName, passwordHash, email, accessToken string) (*domain.User, error) {
	var u domain.User
	err := r.db.sql.QueryRowContext(ctx,
		"INSERT INTO users (user_name, password_hash, email, access_token) VALUES ($1, $2, $3, $4) RETURNING id, user_name, password_hash, email, access_token",
		userName, passwordHash, email, accessToken,
	).Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.Email, &u.AccessToken)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes the user with the given name. Sessions cascade; posts do
// not.
func (r *UserRepo) Delete(ctx context.Context, userName string) (bool, error) {
	res, err := r.db.sql.ExecContext(ctx, "DELETE FROM users WHERE user_name = $1", userName)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether the user name is taken.
func (r *UserRepo) Exists(ctx context.Context, userName string) (bool, error) {
	var exists bool
	err := r.db.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE user_name = $1)", userName,
	).Scan(&exists)
	return exists, err
}

// GetByUserName retrieves a user by name.
func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	return r.scanOne(r.db.sql.QueryRowContext(ctx,
		"SELECT id, user_name, password_hash, email, access_token FROM users WHERE user_name = $1",
		userName))
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanOne(r.db.sql.QueryRowContext(ctx,
		"SELECT id, user_name, password_hash, email, access_token FROM users WHERE id = $1",
		id))
}

// GetByAccessToken retrieves a user by its remember-me token.
func (r *UserRepo) GetByAccessToken(ctx context.Context, token string) (*domain.User, error) {
	return r.scanOne(r.db.sql.QueryRowContext(ctx,
		"SELECT id, user_name, password_hash, email, access_token FROM users WHERE access_token = $1",
		token))
}

// List returns all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT id, user_name, password_hash, email, access_token FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.Email, &u.AccessToken); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteAll removes every user; sessions cascade.
func (r *UserRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM users")
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.UserName, &u.PasswordHash, &u.Email, &u.AccessToken)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

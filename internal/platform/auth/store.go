package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type User struct {
	UserID       int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    time.Time
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, u *User) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) UserStore {
	return &Store{db: db}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.getBy(ctx, `email = ?`, email)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.getBy(ctx, `username = ?`, username)
}

func (s *Store) getBy(ctx context.Context, where string, arg any) (*User, error) {
	q := `
SELECT user_id, username, email, password_hash, role, is_disabled, created_at
FROM users
WHERE ` + where + `
LIMIT 1
`
	var u User
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&u.UserID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&isDisabledInt,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isDisabledInt != 0 {
		u.IsDisabled = true
	}
	return &u, nil
}

func (s *Store) Create(ctx context.Context, u *User) error {
	const q = `
INSERT INTO users (username, email, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, ?, 0, NOW(6))
`
	res, err := s.db.ExecContext(ctx, q, u.Username, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.UserID = id
	return nil
}

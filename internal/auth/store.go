package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when no user matches the username.
var ErrUserNotFound = errors.New("auth: user not found")

// User is an operator account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// CheckPassword compares the candidate against the stored bcrypt hash.
func (u *User) CheckPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// UserRepository looks up operator accounts.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// UserStore reads users from Postgres over database/sql.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByUsername fetches a user account.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash
		FROM users
		WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: select user: %w", err)
	}
	return &u, nil
}

// InMemoryUserRepository holds a fixed user set. Used in tests and in
// demo mode.
type InMemoryUserRepository struct {
	byUsername map[string]*User
}

// NewInMemoryUserRepository creates a repository with the given users.
func NewInMemoryUserRepository(users ...*User) *InMemoryUserRepository {
	r := &InMemoryUserRepository{byUsername: make(map[string]*User, len(users))}
	for _, u := range users {
		r.byUsername[u.Username] = u
	}
	return r
}

func (r *InMemoryUserRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

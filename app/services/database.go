package services

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when a user id has no row.
var ErrUserNotFound = errors.New("user not found")

// User is the demo domain model.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository is what UserService needs from persistence. UserStore is the
// production implementation; tests substitute an in-memory one under the same
// container identity.
type UserRepository interface {
	Save(u User) error
	Find(id string) (User, error)
}

// UserStore is a sqlite-backed user repository — the "expensive, open once"
// resource of this demo. The container guarantees the connection and schema
// setup below run a single time per process.
type UserStore struct {
	db *sql.DB
}

// OpenUserStore opens (or creates) the sqlite database at dsn and ensures the
// schema exists.
func OpenUserStore(dsn string) (*UserStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", dsn, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating users table: %w", err)
	}
	return &UserStore{db: db}, nil
}

// Save inserts or replaces a user row.
func (s *UserStore) Save(u User) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO users (id, name, email) VALUES (?, ?, ?)`,
		u.ID, u.Name, u.Email,
	)
	if err != nil {
		return fmt.Errorf("saving user %q: %w", u.ID, err)
	}
	return nil
}

// Find returns the user with the given id, or ErrUserNotFound.
func (s *UserStore) Find(id string) (User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT id, name, email FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("%w: %q", ErrUserNotFound, id)
	}
	if err != nil {
		return User{}, fmt.Errorf("finding user %q: %w", id, err)
	}
	return u, nil
}

// Close closes the underlying connection pool.
func (s *UserStore) Close() error { return s.db.Close() }

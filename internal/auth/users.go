package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUserNotFound is returned when a user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when adding an email that is already registered.
var ErrUserExists = errors.New("user already exists")

// User is a registered commenter. Its profile fields are what comments display.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserStore manages users in SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, email, nickname, avatar, created_at"

// Add creates a new user. The nickname defaults to the local part of the email.
func (s *UserStore) Add(email, nickname, avatar string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if nickname == "" {
		nickname, _, _ = strings.Cut(email, "@")
	}

	result, err := s.db.Exec(
		"INSERT INTO users (email, nickname, avatar) VALUES (?, ?, ?)",
		email, nickname, strings.TrimSpace(avatar),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, fmt.Errorf("adding user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user ID: %w", err)
	}

	return s.GetByID(id)
}

// GetByID returns a user by ID.
func (s *UserStore) GetByID(id int64) (*User, error) {
	return s.getOne("SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail returns a user by email, case-insensitively.
func (s *UserStore) GetByEmail(email string) (*User, error) {
	return s.getOne("SELECT "+userColumns+" FROM users WHERE LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserStore) getOne(query string, arg interface{}) (*User, error) {
	var u User
	err := s.db.QueryRow(query, arg).Scan(&u.ID, &u.Email, &u.Nickname, &u.Avatar, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// List returns all users ordered by email.
func (s *UserStore) List() (users []*User, err error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Nickname, &u.Avatar, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// UpdateProfile changes a user's nickname and avatar.
func (s *UserStore) UpdateProfile(id int64, nickname, avatar string) (*User, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is required")
	}

	result, err := s.db.Exec(
		"UPDATE users SET nickname = ?, avatar = ? WHERE id = ?",
		nickname, strings.TrimSpace(avatar), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return nil, ErrUserNotFound
	}

	return s.GetByID(id)
}

// Delete removes a user and, by cascade, their comments and API keys.
func (s *UserStore) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

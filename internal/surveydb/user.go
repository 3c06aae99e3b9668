package surveydb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is an annotator account. Accounts are username-only; the UUID is
// assigned at creation and never changes.
type User struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrUserNotFound = errors.New("user not found")

// CreateUser creates a new annotator account and returns it with its
// assigned UUID.
func (db *DB) CreateUser(username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}

	u := uuid.NewString()
	res, err := db.Exec(`INSERT INTO users (uuid, username) VALUES (?, ?)`, u, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create user %q: %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new user id: %w", err)
	}

	return db.getUser(`id = ?`, id)
}

// GetUser returns the account for a username.
func (db *DB) GetUser(username string) (*User, error) {
	return db.getUser(`username = ?`, username)
}

func (db *DB) getUser(where string, arg interface{}) (*User, error) {
	var u User
	query := `SELECT id, uuid, username, created_at FROM users WHERE ` + where
	err := db.QueryRow(query, arg).Scan(&u.ID, &u.UUID, &u.Username, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// ListUsers returns all accounts ordered by username.
func (db *DB) ListUsers() ([]User, error) {
	rows, err := db.Query(`SELECT id, uuid, username, created_at FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.UUID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AssignBatch assigns a conversation batch to a user. Re-assigning an
// already assigned batch is a no-op.
func (db *DB) AssignBatch(username string, batch int) error {
	if _, err := db.GetUser(username); err != nil {
		return err
	}
	_, err := db.Exec(
		`INSERT OR IGNORE INTO user_batches (username, batch) VALUES (?, ?)`,
		username, batch)
	if err != nil {
		return fmt.Errorf("failed to assign batch %d to %q: %w", batch, username, err)
	}
	return nil
}

// UserBatches returns the batches assigned to a user, ordered.
func (db *DB) UserBatches(username string) ([]int, error) {
	rows, err := db.Query(
		`SELECT batch FROM user_batches WHERE username = ? ORDER BY batch`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches for %q: %w", username, err)
	}
	defer rows.Close()

	var batches []int
	for rows.Next() {
		var b int
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

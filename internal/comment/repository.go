package comment

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository provides CRUD operations for comments.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a comment repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectSQL = `SELECT c.id, c.place_id, c.user_id, u.nickname, u.avatar, c.text, c.created_at
	FROM comments c JOIN users u ON u.id = c.user_id`

// Add stores a new comment on a place and returns it with its ID and timestamp.
func (r *Repository) Add(placeID, userID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrBlankText
	}

	result, err := r.db.Exec(
		"INSERT INTO comments (place_id, user_id, text) VALUES (?, ?, ?)",
		placeID, userID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a comment by ID.
func (r *Repository) GetByID(id int64) (*Comment, error) {
	c, err := scanComment(r.db.QueryRow(selectSQL+" WHERE c.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading comment %d: %w", id, err)
	}
	return c, nil
}

// ListByPlaceID returns all comments for a place, oldest first.
func (r *Repository) ListByPlaceID(placeID int64) (comments []Comment, err error) {
	rows, err := r.db.Query(selectSQL+" WHERE c.place_id = ? ORDER BY c.id ASC", placeID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	comments = make([]Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}

// UpdateText replaces the text of a comment and returns the updated comment.
func (r *Repository) UpdateText(id int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrBlankText
	}

	result, err := r.db.Exec(
		"UPDATE comments SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		text, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating comment: %w", err)
	}

	if err := requireRow(result, id); err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Delete removes a comment by ID.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return nil
}

func scanComment(row interface{ Scan(...interface{}) error }) (*Comment, error) {
	var c Comment
	if err := row.Scan(&c.ID, &c.PlaceID, &c.UserID, &c.Nickname, &c.Avatar, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

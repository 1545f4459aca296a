// Package comment provides the comment domain model and data access.
package comment

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrBlankText is returned when comment text is empty after trimming.
	ErrBlankText = errors.New("comment text is required")
	// ErrNotFound is returned when a comment does not exist.
	ErrNotFound = errors.New("comment not found")
)

// Comment is a user note on a place.
type Comment struct {
	ID        int64     `json:"id"`
	PlaceID   int64     `json:"place_id"`
	UserID    int64     `json:"user_id"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a comment that has not been stored yet. The server assigns
// the ID and timestamp.
type Draft struct {
	PlaceID  int64  `json:"place_id"`
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
	Text     string `json:"text"`
}

// IsBlank reports whether text has no content besides whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// ForPlace returns the comments belonging to placeID, keeping their order.
func ForPlace(comments []Comment, placeID int64) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if c.PlaceID == placeID {
			out = append(out, c)
		}
	}
	return out
}

// ReplaceText returns a copy of comments with the text of comment id
// replaced. Other comments and the order are unchanged.
func ReplaceText(comments []Comment, id int64, text string) []Comment {
	out := make([]Comment, len(comments))
	for i, c := range comments {
		if c.ID == id {
			c.Text = text
		}
		out[i] = c
	}
	return out
}

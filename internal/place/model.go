// Package place provides the place domain model and data access.
// A place is the parent resource that comment threads hang off.
package place

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a place does not exist.
var ErrNotFound = errors.New("place not found")

// Place is a location that users comment on.
type Place struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

package place

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Repository provides CRUD operations for places.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a place repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, name, address, created_at`

// Insert adds a new place and returns it with its generated ID.
func (r *Repository) Insert(name, address string) (*Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("place name is required")
	}

	result, err := r.db.Exec(
		"INSERT INTO places (name, address) VALUES (?, ?)",
		name, strings.TrimSpace(address),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting place: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a place by its ID.
func (r *Repository) GetByID(id int64) (*Place, error) {
	query := fmt.Sprintf("SELECT %s FROM places WHERE id = ?", selectColumns)

	var p Place
	err := r.db.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("place %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying place %d: %w", id, err)
	}

	return &p, nil
}

// List returns all places, newest first.
func (r *Repository) List() (places []*Place, err error) {
	query := fmt.Sprintf("SELECT %s FROM places ORDER BY created_at DESC, id DESC", selectColumns)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing places: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	places = make([]*Place, 0)
	for rows.Next() {
		var p Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}
		places = append(places, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating places: %w", err)
	}

	return places, nil
}

// Delete removes a place. Its comments go with it.
func (r *Repository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM places WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting place: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("place %d: %w", id, ErrNotFound)
	}

	return nil
}

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const apiKeyBytes = 32 // 256-bit keys

// ErrKeyNotFound is returned when deleting a key the user does not own.
var ErrKeyNotFound = errors.New("key not found")

// KeyPrefix starts every raw API key.
const KeyPrefix = "pn_"

// APIKey is the stored representation of an API key (no raw key).
type APIKey struct {
	ID         int64
	UserID     int64
	Name       string
	KeyPrefix  string // first 8 chars for identification
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// APIKeyStore manages API keys in SQLite.
type APIKeyStore struct {
	db *sql.DB
}

// NewAPIKeyStore creates an API key store.
func NewAPIKeyStore(db *sql.DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

// Create generates a new API key for a user.
// Returns the raw key (shown once) and the stored record.
func (s *APIKeyStore) Create(name string, userID int64) (string, *APIKey, error) {
	raw, err := generateAPIKey()
	if err != nil {
		return "", nil, fmt.Errorf("generating key: %w", err)
	}

	prefix := raw[:8]
	hash := hashAPIKey(raw)

	result, err := s.db.Exec(
		"INSERT INTO api_keys (user_id, name, key_prefix, key_hash) VALUES (?, ?, ?, ?)",
		userID, name, prefix, hash,
	)
	if err != nil {
		return "", nil, fmt.Errorf("storing key: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", nil, fmt.Errorf("getting key id: %w", err)
	}

	key := &APIKey{
		ID:        id,
		UserID:    userID,
		Name:      name,
		KeyPrefix: prefix,
	}

	return raw, key, nil
}

// List returns a user's API keys (without the raw key).
func (s *APIKeyStore) List(userID int64) (keys []APIKey, err error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, key_prefix, created_at, last_used_at FROM api_keys WHERE user_id = ? ORDER BY id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing rows: %w", cerr)
		}
	}()

	for rows.Next() {
		var k APIKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyPrefix, &k.CreatedAt, &k.LastUsedAt); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}

// Delete removes an API key owned by userID.
func (s *APIKeyStore) Delete(id, userID int64) error {
	result, err := s.db.Exec("DELETE FROM api_keys WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("deleting key: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if rows == 0 {
		return ErrKeyNotFound
	}

	return nil
}

// Validate checks a raw API key against stored hashes and returns the
// owning user ID, or 0 when the key is unknown. Updates last_used_at.
func (s *APIKeyStore) Validate(rawKey string) (int64, error) {
	hash := hashAPIKey(rawKey)

	var userID int64
	err := s.db.QueryRow("SELECT user_id FROM api_keys WHERE key_hash = ?", hash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("validating key: %w", err)
	}

	if _, err := s.db.Exec("UPDATE api_keys SET last_used_at = ? WHERE key_hash = ?", time.Now(), hash); err != nil {
		return 0, fmt.Errorf("recording key use: %w", err)
	}

	return userID, nil
}

func generateAPIKey() (string, error) {
	b := make([]byte, apiKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(b), nil
}

func hashAPIKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

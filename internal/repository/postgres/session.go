package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"userbot/internal/codec"
	"userbot/internal/repository"
)

// SessionRepo implements repository.SessionRepository on a sessions table
type SessionRepo struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

// NewSessionRepo creates a new session repository for the named session
func NewSessionRepo(db *sql.DB, name string) *SessionRepo {
	return &SessionRepo{db: db, name: name, now: time.Now}
}

// Location returns the table row the session lives in
func (r *SessionRepo) Location() string {
	return "postgres:sessions/" + r.name
}

// Load returns the stored session blob
func (r *SessionRepo) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	query := `SELECT data FROM sessions WHERE name = $1`
	err := r.db.QueryRowContext(ctx, query, r.name).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return codec.Open(data)
}

// Save upserts the session blob in a single statement
func (r *SessionRepo) Save(ctx context.Context, blob []byte) error {
	data, err := codec.Seal(blob, r.now())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, r.name, data)
	return err
}

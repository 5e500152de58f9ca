package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopsmart/apiserver/types"
)

// SessionRepository persists the login audit trail. Rows are written on
// login and kept after logout; the live auth state is elsewhere.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, record types.SessionRecord) (types.SessionRecord, error) {
	record.CreatedAt = time.Now()

	const query = `
		INSERT INTO user_sessions (session_id, user_id, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		record.SessionID,
		record.UserID,
		record.IPAddress,
		record.UserAgent,
		record.CreatedAt,
	); err != nil {
		return types.SessionRecord{}, err
	}
	return record, nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (types.SessionRecord, error) {
	const query = `
		SELECT session_id, user_id, ip_address, user_agent, created_at
		FROM user_sessions
		WHERE session_id = $1`
	var record types.SessionRecord
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&record.SessionID,
		&record.UserID,
		&record.IPAddress,
		&record.UserAgent,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.SessionRecord{}, ErrNotFound
		}
		return types.SessionRecord{}, err
	}
	return record, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopsmart/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	user_id, full_name, email, password_hash, phone, date_of_birth, gender,
	is_active, is_verified, email_verification_token, last_login, created_at`

func scanUser(row *sql.Row) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.DateOfBirth,
		&user.Gender,
		&user.IsActive,
		&user.IsVerified,
		&user.VerificationToken,
		&user.LastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT` + userColumns + `
		FROM users
		WHERE user_id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT` + userColumns + `
		FROM users
		WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.CreatedAt = time.Now()

	const query = `
		INSERT INTO users (full_name, email, password_hash, phone, date_of_birth, gender, email_verification_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING user_id, is_active, is_verified`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.DateOfBirth,
		user.Gender,
		user.VerificationToken,
		user.CreatedAt,
	).Scan(&user.ID, &user.IsActive, &user.IsVerified); err != nil {
		return types.User{}, err
	}
	return user, nil
}

// TouchLastLogin stamps the last successful login time.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int, at time.Time) error {
	const query = `UPDATE users SET last_login = $1 WHERE user_id = $2`
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

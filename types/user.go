package types

import "time"

// User represents a customer account in the system.
// It contains identity, verification state, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"user_id" db:"user_id"`

	// FullName is the user's display name as supplied at registration.
	FullName string `json:"full_name" db:"full_name"`

	// Email is the user's email address. Unique across all accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Phone is the user's optional phone number.
	Phone *string `json:"phone" db:"phone"`

	// DateOfBirth is the user's optional date of birth (YYYY-MM-DD).
	DateOfBirth *string `json:"date_of_birth" db:"date_of_birth"`

	// Gender is the user's optional self-reported gender.
	Gender *string `json:"gender" db:"gender"`

	// IsActive indicates whether the account may log in.
	// Deactivation is performed by out-of-band support tooling.
	IsActive bool `json:"is_active" db:"is_active"`

	// IsVerified indicates whether the email address has been confirmed.
	IsVerified bool `json:"is_verified" db:"is_verified"`

	// VerificationToken is the random token mailed to the user for email
	// confirmation. Never exposed in API responses.
	VerificationToken string `json:"-" db:"email_verification_token"`

	// LastLogin is the timestamp of the most recent successful login,
	// or nil if the user has never logged in.
	LastLogin *time.Time `json:"last_login,omitempty" db:"last_login"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionRecord is the audit row written on every successful login.
// It is a trail of who logged in from where, not the authentication
// state itself; that lives in the server-side session store.
type SessionRecord struct {
	// SessionID is the opaque identifier issued to the client.
	SessionID string `json:"session_id" db:"session_id"`

	// UserID references the user the session was issued to.
	UserID int `json:"user_id" db:"user_id"`

	// IPAddress is the client address observed at login time.
	IPAddress string `json:"ip_address" db:"ip_address"`

	// UserAgent is the client's User-Agent header at login time.
	UserAgent string `json:"user_agent" db:"user_agent"`

	// CreatedAt is the timestamp when the session was established.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

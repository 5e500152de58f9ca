package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/shopsmart/apiserver/internal/events"
	"github.com/shopsmart/apiserver/internal/store"
	"github.com/shopsmart/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a
	// wrong password alike, so responses never reveal which it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDeactivated is returned when the account exists but may
	// not log in.
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError reports malformed or missing registration input. The
// message is safe to surface to the client verbatim.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	emailPattern     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`\d`)
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
}

// AccountService encapsulates registration and login use-cases.
type AccountService struct {
	repo      UserRepository
	publisher *events.Publisher
}

func NewAccountService(repo UserRepository, publisher *events.Publisher) *AccountService {
	return &AccountService{repo: repo, publisher: publisher}
}

// RegisterInput is the registration request payload.
type RegisterInput struct {
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	Phone           *string `json:"phone"`
	DateOfBirth     *string `json:"date_of_birth"`
	Gender          *string `json:"gender"`
}

// Validate checks the registration input eagerly, before any
// persistence call.
func (in RegisterInput) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"full_name", in.FullName},
		{"email", in.Email},
		{"password", in.Password},
		{"confirm_password", in.ConfirmPassword},
	}
	for _, field := range required {
		if field.value == "" {
			return ValidationError(fmt.Sprintf("Field '%s' is required", field.name))
		}
	}

	if !emailPattern.MatchString(in.Email) {
		return ValidationError("Invalid email format")
	}
	if len(in.Password) < 8 {
		return ValidationError("Password must be at least 8 characters long")
	}
	if !lowercasePattern.MatchString(in.Password) ||
		!uppercasePattern.MatchString(in.Password) ||
		!digitPattern.MatchString(in.Password) {
		return ValidationError("Password must contain at least one uppercase letter, one lowercase letter, and one number")
	}
	if in.Password != in.ConfirmPassword {
		return ValidationError("Passwords do not match")
	}
	return nil
}

// Register validates the input, hashes the password and creates the
// account. The stored hash is never the plaintext, and the returned
// user carries no password material in its JSON form.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	if err := in.Validate(); err != nil {
		return types.User{}, err
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return types.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		FullName:          in.FullName,
		Email:             in.Email,
		PasswordHash:      string(hashed),
		Phone:             in.Phone,
		DateOfBirth:       in.DateOfBirth,
		Gender:            in.Gender,
		VerificationToken: generateToken(),
	})
	if err != nil {
		return types.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.publisher.UserRegistered(ctx, user); err != nil {
		log.Printf("publish registration event for user %d: %v", user.ID, err)
	}

	return user, nil
}

// Authenticate verifies the credentials and stamps the last login. An
// unknown email and a wrong password produce the same error.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	if email == "" || password == "" {
		return types.User{}, ValidationError("Email and password are required")
	}
	if !emailPattern.MatchString(email) {
		return types.User{}, ValidationError("Invalid email format")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return types.User{}, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return types.User{}, fmt.Errorf("touch last login: %w", err)
	}
	user.LastLogin = &now

	if err := s.publisher.UserLoggedIn(ctx, user); err != nil {
		log.Printf("publish login event for user %d: %v", user.ID, err)
	}

	return user, nil
}

// GetByID returns the user for the id.
func (s *AccountService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// generateToken returns a 64-character random hex token used for email
// verification.
func generateToken() string {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(buf[:])
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopsmart/apiserver/internal/services"
	"github.com/shopsmart/apiserver/internal/session"
	"github.com/shopsmart/apiserver/types"
)

// SessionAudit records session issuance for the login audit trail.
type SessionAudit interface {
	Create(ctx context.Context, record types.SessionRecord) (types.SessionRecord, error)
}

// AuthHandler provides registration, login and session endpoints.
type AuthHandler struct {
	accounts *services.AccountService
	sessions *session.Manager
	audit    SessionAudit
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(accounts *services.AccountService, sessions *session.Manager, audit SessionAudit) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		audit:    audit,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, accounts *services.AccountService, sessions *session.Manager, audit SessionAudit) {
	handler := NewAuthHandler(accounts, sessions, audit)

	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
	r.Get("/me", handler.Me)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		var validation services.ValidationError
		switch {
		case errors.As(err, &validation):
			writeError(w, http.StatusBadRequest, validation.Error())
		case errors.Is(err, services.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already registered")
		default:
			log.Printf("register: %v", err)
			writeError(w, http.StatusBadRequest, "Registration failed. Please try again.")
		}
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":    user,
		"message": "Registration successful! Please check your email to verify your account.",
	})
}

// Login verifies credentials, issues a session and records the audit row.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		var validation services.ValidationError
		switch {
		case errors.As(err, &validation):
			writeError(w, http.StatusBadRequest, validation.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid email or password")
		case errors.Is(err, services.ErrAccountDeactivated):
			writeError(w, http.StatusBadRequest, "Account is deactivated. Please contact support.")
		default:
			log.Printf("login: %v", err)
			writeError(w, http.StatusBadRequest, "Login failed. Please try again.")
		}
		return
	}

	issued, err := h.sessions.Issue(r.Context(), w, user.ID)
	if err != nil {
		log.Printf("issue session for user %d: %v", user.ID, err)
		writeError(w, http.StatusBadRequest, "Login failed. Please try again.")
		return
	}

	// Audit trail only; a failed insert must not fail the login.
	if _, err := h.audit.Create(r.Context(), types.SessionRecord{
		SessionID: issued.SessionID,
		UserID:    user.ID,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}); err != nil {
		log.Printf("record session for user %d: %v", user.ID, err)
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"user":       user,
		"session_id": issued.SessionID,
		"message":    "Login successful",
	})
}

// Logout revokes the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok || !principal.Authenticated() {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.sessions.Revoke(r.Context(), w, r); err != nil {
		log.Printf("revoke session for user %d: %v", principal.UserID, err)
		writeError(w, http.StatusBadRequest, "Logout failed. Please try again.")
		return
	}

	writeSuccess(w, http.StatusOK, "Logout successful", map[string]any{
		"message": "Logout successful",
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok || !principal.Authenticated() {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.accounts.GetByID(r.Context(), principal.UserID)
	if err != nil {
		log.Printf("load user %d: %v", principal.UserID, err)
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", map[string]any{
		"user": user,
	})
}

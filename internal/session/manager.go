package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopsmart/apiserver/config"
	"github.com/shopsmart/apiserver/types"
)

type contextKey string

const principalKey contextKey = "principal"

// guestCookieTTL outlives authenticated sessions so an anonymous cart
// survives browser restarts.
const guestCookieTTL = 30 * 24 * time.Hour

// Manager issues, resolves and revokes sessions, and derives the acting
// principal for each request. Exactly one principal is active per
// request: the authenticated user when the session cookie resolves, the
// anonymous guest identifier otherwise.
type Manager struct {
	store       Store
	cookieName  string
	guestCookie string
	ttl         time.Duration
	secure      bool
}

func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:       store,
		cookieName:  cfg.CookieName,
		guestCookie: cfg.GuestCookie,
		ttl:         time.Duration(cfg.TTLHours) * time.Hour,
		secure:      cfg.SecureCookie,
	}
}

// Issue creates a session for the user, persists it and sets the
// session cookie.
func (m *Manager) Issue(ctx context.Context, w http.ResponseWriter, userID int) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}

	s := Session{
		SessionID: id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return Session{}, err
	}

	m.setCookie(w, m.cookieName, s.SessionID, s.ExpiresAt)
	return s, nil
}

// Revoke deletes the request's session, if any, and clears the cookie.
func (m *Manager) Revoke(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		if err := m.store.Delete(ctx, cookie.Value); err != nil {
			return err
		}
	}
	m.clearCookie(w, m.cookieName)
	return nil
}

// Resolve determines the acting principal for a request. A missing or
// expired session falls back to the anonymous guest identity, issuing a
// guest cookie on first touch.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) types.Principal {
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		s, err := m.store.Get(r.Context(), cookie.Value)
		if err == nil && s != nil {
			return types.Principal{UserID: s.UserID, SessionID: s.SessionID}
		}
	}

	if cookie, err := r.Cookie(m.guestCookie); err == nil && cookie.Value != "" {
		return types.Principal{SessionID: cookie.Value}
	}

	guestID := uuid.NewString()
	m.setCookie(w, m.guestCookie, guestID, time.Now().Add(guestCookieTTL))
	return types.Principal{SessionID: guestID}
}

// Middleware resolves the principal once per request and threads it
// through the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := m.Resolve(w, r)
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the principal resolved by Middleware.
func PrincipalFromContext(ctx context.Context) (types.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(types.Principal)
	return principal, ok
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.secure,
	})
}

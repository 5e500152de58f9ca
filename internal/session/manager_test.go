package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopsmart/apiserver/config"
	"github.com/shopsmart/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		CookieName:  "test_session",
		GuestCookie: "test_guest",
		TTLHours:    24,
	}
}

func TestGenerateID(t *testing.T) {
	first, err := GenerateID()
	require.NoError(t, err)
	second, err := GenerateID()
	require.NoError(t, err)

	// 32 random bytes, base64url without padding.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	live := Session{SessionID: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	dead := Session{SessionID: "dead", UserID: 2, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, store.Create(ctx, live))
	require.NoError(t, store.Create(ctx, dead))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.UserID)

	got, err = store.Get(ctx, "dead")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Get(ctx, "never-existed")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIssueThenResolve(t *testing.T) {
	manager := NewManager(NewMemoryStore(), testSessionConfig())

	rec := httptest.NewRecorder()
	issued, err := manager.Issue(context.Background(), rec, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, issued.UserID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
	assert.Equal(t, issued.SessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	principal := manager.Resolve(httptest.NewRecorder(), req)
	assert.Equal(t, types.Principal{UserID: 42, SessionID: issued.SessionID}, principal)
	assert.True(t, principal.Authenticated())
}

func TestResolve_NewVisitorGetsGuestCookie(t *testing.T) {
	manager := NewManager(NewMemoryStore(), testSessionConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	principal := manager.Resolve(rec, req)

	assert.False(t, principal.Authenticated())
	assert.NotEmpty(t, principal.SessionID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_guest", cookies[0].Name)
	assert.Equal(t, principal.SessionID, cookies[0].Value)
}

func TestResolve_ReturningGuestKeepsIdentity(t *testing.T) {
	manager := NewManager(NewMemoryStore(), testSessionConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_guest", Value: "guest-123"})

	rec := httptest.NewRecorder()
	principal := manager.Resolve(rec, req)

	assert.Equal(t, types.Principal{SessionID: "guest-123"}, principal)
	assert.Empty(t, rec.Result().Cookies())
}

func TestResolve_StaleSessionFallsBackToGuest(t *testing.T) {
	manager := NewManager(NewMemoryStore(), testSessionConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "gone"})
	req.AddCookie(&http.Cookie{Name: "test_guest", Value: "guest-123"})

	principal := manager.Resolve(httptest.NewRecorder(), req)
	assert.Equal(t, types.Principal{SessionID: "guest-123"}, principal)
}

func TestRevoke(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, testSessionConfig())

	rec := httptest.NewRecorder()
	issued, err := manager.Issue(context.Background(), rec, 42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: issued.SessionID})

	rec = httptest.NewRecorder()
	require.NoError(t, manager.Revoke(context.Background(), rec, req))

	got, err := store.Get(context.Background(), issued.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestMiddleware_ThreadsPrincipal(t *testing.T) {
	manager := NewManager(NewMemoryStore(), testSessionConfig())

	var got types.Principal
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = PrincipalFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "test_guest", Value: "guest-abc"})
	manager.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, ok)
	assert.Equal(t, types.Principal{SessionID: "guest-abc"}, got)
}

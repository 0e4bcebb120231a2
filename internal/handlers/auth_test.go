// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authctx "github.com/akmartinez/corkboard/internal/auth"
	"github.com/akmartinez/corkboard/internal/handlers"
	"github.com/akmartinez/corkboard/internal/i18n"
	"github.com/akmartinez/corkboard/internal/models"
	"github.com/akmartinez/corkboard/internal/repository"
	"github.com/akmartinez/corkboard/internal/services/auth"
	"github.com/akmartinez/corkboard/internal/services/session"
	"github.com/akmartinez/corkboard/internal/testutil"
)

func init() {
	// Error responses carry localized messages
	_ = i18n.Init()
}

func newAuthFixture(t *testing.T) (*repository.Repository, *session.Manager, *handlers.AuthHandlers) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	sessions := session.NewManager(repo, newSessionConfig(), false)
	h := handlers.NewAuth(auth.NewService(repo), sessions, nil)
	return repo, sessions, h
}

func registerForm(username, email, password string) url.Values {
	return url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	}
}

func loginForm(email, password string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
	}
}

// authTokenCookie extracts the auth token cookie from a response, or nil.
func authTokenCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "authToken" {
			return cookie
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	repo, _, h := newAuthFixture(t)

	e := echo.New()
	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	// Cookie set, user row persisted
	cookie := authTokenCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)

	user, err := repo.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo, _, h := newAuthFixture(t)

	e := echo.New()
	c, _ := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice2", "alice@example.com", "pw456"))

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
	// Conflict leaves the cookie untouched
	assert.Nil(t, authTokenCookie(rec))

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_InvalidEmail(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "not-an-email", "pw123"))

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_AlreadyAuthenticated(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("bob", "bob@example.com", "pw123"))
	ctx := authctx.SetUser(c.Request().Context(), &models.PublicUser{ID: 1, Username: "alice"})
	c.SetRequest(c.Request().WithContext(ctx))

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, authTokenCookie(rec))
}

func TestLogin(t *testing.T) {
	_, sessions, h := newAuthFixture(t)

	e := echo.New()
	c, _ := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/login", loginForm("alice@example.com", "pw123"))

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// The new token resolves to alice on the next request
	cookie := authTokenCookie(rec)
	require.NotNil(t, cookie)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	resolved, err := sessions.Resolve(context.Background(), next)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "alice", resolved.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, _ := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))

	c, rec := testutil.NewFormContext(e, http.MethodPost, "/auth/login", loginForm("alice@example.com", "wrongpw"))

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, authTokenCookie(rec))
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, _ := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))

	c, wrongPw := testutil.NewFormContext(e, http.MethodPost, "/auth/login", loginForm("alice@example.com", "wrongpw"))
	require.NoError(t, h.Login(c))

	c, unknownEmail := testutil.NewFormContext(e, http.MethodPost, "/auth/login", loginForm("nobody@example.com", "wrongpw"))
	require.NoError(t, h.Login(c))

	// Wrong password and unknown email: identical status and body
	assert.Equal(t, wrongPw.Code, unknownEmail.Code)
	assert.Equal(t, wrongPw.Body.String(), unknownEmail.Body.String())
}

func TestLogout(t *testing.T) {
	_, sessions, h := newAuthFixture(t)

	e := echo.New()
	c, reg := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))
	cookie := authTokenCookie(reg)
	require.NotNil(t, cookie)

	// Logout with the token cookie and a resolved identity
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	ctx := authctx.SetUser(c.Request().Context(), &models.PublicUser{ID: 1, Username: "alice"})
	c.SetRequest(c.Request().WithContext(ctx))

	err := h.Logout(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	cleared := authTokenCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	// The token row is gone; replaying the old cookie stays anonymous
	replay := httptest.NewRequest(http.MethodGet, "/", nil)
	replay.AddCookie(cookie)
	resolved, err := sessions.Resolve(context.Background(), replay)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestLogout_Anonymous(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/auth/logout", nil)

	err := h.Logout(c)

	// Idempotent: no identity, still a redirect home, no error
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Nil(t, authTokenCookie(rec))
}

func TestLogout_TwiceInARow(t *testing.T) {
	_, _, h := newAuthFixture(t)

	e := echo.New()
	c, reg := testutil.NewFormContext(e, http.MethodPost, "/auth/register", registerForm("alice", "alice@example.com", "pw123"))
	require.NoError(t, h.Register(c))
	cookie := authTokenCookie(reg)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	c = e.NewContext(req, rec)
	ctx := authctx.SetUser(c.Request().Context(), &models.PublicUser{ID: 1, Username: "alice"})
	c.SetRequest(c.Request().WithContext(ctx))
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// Second logout, now without an identity
	c, rec = testutil.NewEchoContext(e, http.MethodPost, "/auth/logout", nil)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

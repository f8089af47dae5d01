package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/burenotti/go_academy_backend/internal/app/authapp"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthorizer() *authapp.Authorizer {
	return &authapp.Authorizer{
		Cost:           bcrypt.MinCost,
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
		SessionTTL:     24 * time.Hour,
	}
}

func protected(a *authapp.Authorizer) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, currentUser(c).AccountID)
	}, LoginRequired(a))
	return e
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLoginRequired(t *testing.T) {
	a := newTestAuthorizer()
	acc := auth.NewAccount("acc-1", "cadet@example.com", "password123", a)
	sess, err := acc.Login(a, "password123", auth.Device{})
	require.NoError(t, err)
	token, err := a.GenerateAccessToken(acc, sess)
	require.NoError(t, err)

	e := protected(a)

	rec := serve(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acc-1", rec.Body.String())

	rec = serve(e, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(e, "Token "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(e, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid access token")
}

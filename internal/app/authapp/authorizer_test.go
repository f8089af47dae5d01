package authapp

import (
	"testing"
	"time"

	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthorizer(now time.Time) *Authorizer {
	return &Authorizer{
		Cost:           bcrypt.MinCost,
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
		SessionTTL:     24 * time.Hour,
		Now:            func() time.Time { return now },
	}
}

func TestAuthorizer_Authorize(t *testing.T) {
	now := time.Now().UTC()
	a := newAuthorizer(now)
	acc := auth.NewAccount("acc-1", "cadet@example.com", "password123", a)

	_, err := a.Authorize(acc, "wrong-password", auth.Device{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	dev := auth.Device{Browser: "Firefox", OS: "Linux"}
	sess, err := a.Authorize(acc, "password123", dev)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Len(t, sess.Secret, 64)
	assert.Equal(t, dev, sess.Device)
	assert.True(t, sess.IsActive(now))
	assert.False(t, sess.IsActive(now.Add(25*time.Hour)))
}

func TestAuthorizer_AccessToken(t *testing.T) {
	a := newAuthorizer(time.Now().UTC())
	acc := auth.NewAccount("acc-1", "cadet@example.com", "password123", a)
	sess, err := acc.Login(a, "password123", auth.Device{})
	require.NoError(t, err)

	token, err := a.GenerateAccessToken(acc, sess)
	require.NoError(t, err)

	data, err := a.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", data.AccountID)
	assert.Equal(t, sess.ID, data.SessionID)

	other := newAuthorizer(time.Now().UTC())
	other.Secret = "another-secret"
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)

	_, err = a.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)
}

func TestAuthorizer_ExpiredAccessToken(t *testing.T) {
	issuer := newAuthorizer(time.Now().UTC().Add(-3 * time.Hour))
	acc := auth.NewAccount("acc-1", "cadet@example.com", "password123", issuer)
	sess, err := acc.Login(issuer, "password123", auth.Device{})
	require.NoError(t, err)

	token, err := issuer.GenerateAccessToken(acc, sess)
	require.NoError(t, err)

	_, err = issuer.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrAccessTokenExpired)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)
}

func TestAccount_Logout(t *testing.T) {
	a := newAuthorizer(time.Now().UTC())
	acc := auth.NewAccount("acc-1", "cadet@example.com", "password123", a)
	sess, err := acc.Login(a, "password123", auth.Device{})
	require.NoError(t, err)

	require.NoError(t, acc.Logout(sess.ID))
	assert.NotNil(t, sess.LogoutAt)
	assert.ErrorIs(t, acc.Logout(sess.ID), auth.ErrUnauthorized)
	assert.ErrorIs(t, acc.Logout("missing"), auth.ErrUnauthorized)

	events := acc.PopEvents()
	require.Len(t, events, 3)
	assert.Equal(t, auth.EventCreated, events[0].Type())
	assert.Equal(t, auth.EventNewLogin, events[1].Type())
	assert.Equal(t, auth.EventLogout, events[2].Type())
}

package auth

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"time"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrSessionExists      = errors.New("session already exists")
	ErrEmailDuplicate     = fmt.Errorf("%w: email is not unique", ErrAccountExists)
	ErrInvalidCredentials = errors.New("email or password is invalid")
	ErrUnauthorized       = errors.New("unauthorized")
)

const (
	EventCreated  = "account.created"
	EventNewLogin = "account.login"
	EventLogout   = "account.logout"
)

type Authorizer interface {
	Hash(password string) string
	Authorize(a *Account, password string, dev Device) (*Session, error)
}

type Device struct {
	Browser   string `diff:"browser"`
	OS        string `diff:"os"`
	IPAddress string `diff:"ip_address"`
	Model     string `diff:"device_model"`
}

// Session is one login. Secret is handed out as the refresh token.
type Session struct {
	ID         string     `diff:"-"`
	Secret     string     `diff:"-"`
	CreatedAt  time.Time  `diff:"-"`
	ValidUntil time.Time  `diff:"valid_until"`
	LogoutAt   *time.Time `diff:"logout_at"`
	Device     Device     `diff:"-"`
}

func (s *Session) IsActive(now time.Time) bool {
	return now.Before(s.ValidUntil) && s.LogoutAt == nil
}

type Account struct {
	domain.Aggregate `diff:"-"`
	AccountID        string     `diff:"-"`
	Email            string     `diff:"email"`
	PasswordHash     string     `diff:"password_hash"`
	CreatedAt        time.Time  `diff:"-"`
	UpdatedAt        time.Time  `diff:"updated_at"`
	Sessions         []*Session `diff:"-"`
}

func NewAccount(accountID, email, password string, hasher Authorizer) *Account {
	now := time.Now().UTC()
	a := &Account{
		AccountID:    accountID,
		Email:        email,
		PasswordHash: hasher.Hash(password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	a.PushEvent(CreatedEvent{At: now, AccountID: accountID, Email: email})
	return a
}

func (a *Account) SessionByID(id string) *Session {
	for _, s := range a.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (a *Account) SessionBySecret(secret string) *Session {
	for _, s := range a.Sessions {
		if s.Secret == secret {
			return s
		}
	}
	return nil
}

func (a *Account) Login(authorizer Authorizer, password string, dev Device) (*Session, error) {
	s, err := authorizer.Authorize(a, password, dev)
	if err != nil {
		return nil, err
	}

	a.Sessions = append(a.Sessions, s)
	a.PushEvent(LoginEvent{
		At:        s.CreatedAt,
		AccountID: a.AccountID,
		SessionID: s.ID,
		Device:    s.Device,
	})
	return s, nil
}

func (a *Account) Logout(sessionID string) error {
	s := a.SessionByID(sessionID)
	if s == nil {
		return fmt.Errorf("%w: session not found", ErrUnauthorized)
	}
	if s.LogoutAt != nil {
		return fmt.Errorf("%w: session already closed", ErrUnauthorized)
	}

	now := time.Now().UTC()
	s.LogoutAt = &now
	a.PushEvent(LogoutEvent{At: now, AccountID: a.AccountID, SessionID: s.ID})
	return nil
}

type CreatedEvent struct {
	At        time.Time
	AccountID string
	Email     string
}

func (e CreatedEvent) Type() string {
	return EventCreated
}

func (e CreatedEvent) PublishedAt() time.Time {
	return e.At
}

type LoginEvent struct {
	At        time.Time
	AccountID string
	SessionID string
	Device    Device
}

func (e LoginEvent) Type() string {
	return EventNewLogin
}

func (e LoginEvent) PublishedAt() time.Time {
	return e.At
}

type LogoutEvent struct {
	At        time.Time
	AccountID string
	SessionID string
}

func (e LogoutEvent) Type() string {
	return EventLogout
}

func (e LogoutEvent) PublishedAt() time.Time {
	return e.At
}

package authapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"log/slog"
)

var (
	ErrInvalidSession = errors.New("invalid session")
)

type Service struct {
	logger     *slog.Logger
	Authorizer *Authorizer
}

func NewService(authorizer *Authorizer, logger *slog.Logger) *Service {
	return &Service{
		logger:     logger,
		Authorizer: authorizer,
	}
}

func (s *Service) SignUp(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	accountID string,
	email string,
	password string,
) (acc *auth.Account, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		acc = auth.NewAccount(accountID, email, password, s.Authorizer)
		if err := ctx.AccountStorage.Add(ctx.Context(), acc); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) Login(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	device auth.Device,
	email string,
	password string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		acc, err := ctx.AccountStorage.GetByEmail(ctx.Context(), email)
		if err != nil {
			if errors.Is(err, auth.ErrAccountNotFound) {
				return auth.ErrInvalidCredentials
			}
			return err
		}

		sess, err := acc.Login(s.Authorizer, password, device)
		if err != nil {
			return err
		}

		accessToken, err := s.Authorizer.GenerateAccessToken(acc, sess)
		if err != nil {
			return err
		}

		if err := ctx.AccountStorage.Persist(ctx.Context(), acc); err != nil {
			return err
		}

		tokens = Tokens{
			AccessToken:  accessToken,
			RefreshToken: sess.Secret,
		}
		return ctx.Commit()
	})
	if err == nil {
		s.logger.Info("account logged in", "email", email, "browser", device.Browser, "os", device.OS)
	}
	return
}

func (s *Service) Logout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	accountID string,
	sessionID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		acc, err := ctx.AccountStorage.GetByID(ctx.Context(), accountID)
		if err != nil {
			return err
		}

		if err := acc.Logout(sessionID); err != nil {
			return err
		}

		if err := ctx.AccountStorage.Persist(ctx.Context(), acc); err != nil {
			return err
		}
		return ctx.Commit()
	})
}

// Refresh issues a new access token for the session the refresh token belongs to.
// The refresh token itself is not rotated.
func (s *Service) Refresh(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	refreshToken string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		acc, err := ctx.AccountStorage.GetBySessionSecret(ctx.Context(), refreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrAccountNotFound) {
				return fmt.Errorf("%w: unknown refresh token", ErrInvalidSession)
			}
			return err
		}

		sess := acc.SessionBySecret(refreshToken)
		if sess == nil || !sess.IsActive(s.Authorizer.now()) {
			return fmt.Errorf("%w: session is not active", ErrInvalidSession)
		}

		tokens.AccessToken, err = s.Authorizer.GenerateAccessToken(acc, sess)
		tokens.RefreshToken = sess.Secret
		return err
	})
	return
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

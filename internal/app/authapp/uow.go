package authapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	accountstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/accounts"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
	"log/slog"
)

type AccountStorage interface {
	Add(ctx context.Context, a *auth.Account) error
	GetByEmail(ctx context.Context, email string) (*auth.Account, error)
	GetByID(ctx context.Context, accountID string) (*auth.Account, error)
	GetBySessionSecret(ctx context.Context, secret string) (*auth.Account, error)
	Persist(ctx context.Context, a *auth.Account) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	AccountStorage AccountStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.AccountStorage.CollectEvents()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.AccountStorage.Close(); closeErr != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), closeErr)
	}
	return err
}

// AtomicContextFactory binds the logger used by the account store.
func AtomicContextFactory(logger *slog.Logger) func(context.Context, storage.DBContext) (*AtomicContext, error) {
	return func(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			ctx:            ctx,
			DBContext:      dbContext,
			AccountStorage: accountstorage.NewPostgresStorage(dbContext, logger),
		}, nil
	}
}

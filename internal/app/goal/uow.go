package goalservice

import (
	"context"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	goalstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/goals"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
)

type GoalStorage interface {
	Add(ctx context.Context, g *goal.Goal) error
	GetByID(ctx context.Context, goalID string) (*goal.Goal, error)
	ListByStudent(ctx context.Context, studentID string) ([]*goal.Goal, error)
	Persist(ctx context.Context, g *goal.Goal) error
	Delete(ctx context.Context, g *goal.Goal) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	GoalStorage GoalStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) Close() error {
	return a.GoalStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.GoalStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:         ctx,
		DBContext:   dbContext,
		GoalStorage: goalstorage.NewPostgresStorage(dbContext),
	}, nil
}

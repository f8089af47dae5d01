package goalservice

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"log/slog"
	"time"
)

var (
	ErrNotOwner = errors.New("goal belongs to another student")
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) CreateGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	goalID string,
	studentID string,
	title string,
	description string,
	category string,
	deadline *time.Time,
) (g *goal.Goal, err error) {
	cat, err := goal.ParseCategory(category)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		g = goal.New(goalID, studentID, title, description, cat, deadline)
		if err := ctx.GoalStorage.Add(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) ListGoals(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (goals []*goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		goals, err = ctx.GoalStorage.ListByStudent(ctx.Context(), studentID)
		return err
	})
	return
}

func (s *Service) UpdateProgress(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	goalID string,
	studentID string,
	progress int,
) (g *goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if g, err = ownedGoal(ctx, goalID, studentID); err != nil {
			return err
		}
		if err := g.UpdateProgress(progress); err != nil {
			return err
		}
		if err := ctx.GoalStorage.Persist(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) CompleteGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	goalID string,
	studentID string,
) (g *goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if g, err = ownedGoal(ctx, goalID, studentID); err != nil {
			return err
		}
		g.Complete()
		if err := ctx.GoalStorage.Persist(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) DeleteGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	goalID string,
	studentID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		g, err := ownedGoal(ctx, goalID, studentID)
		if err != nil {
			return err
		}
		if err := ctx.GoalStorage.Delete(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
}

func ownedGoal(ctx *AtomicContext, goalID, studentID string) (*goal.Goal, error) {
	g, err := ctx.GoalStorage.GetByID(ctx.Context(), goalID)
	if err != nil {
		return nil, err
	}
	if g.StudentID != studentID {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, goalID)
	}
	return g, nil
}

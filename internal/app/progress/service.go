package progressservice

import (
	"context"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/burenotti/go_academy_backend/internal/domain/progress"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"log/slog"
	"time"
)

type Service struct {
	logger        *slog.Logger
	defaultGender fitness.Gender
	now           func() time.Time
}

func New(logger *slog.Logger, defaultGender fitness.Gender) *Service {
	return &Service{
		logger:        logger,
		defaultGender: defaultGender,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Compute runs the scoring engine over everything the student has recorded.
// Nothing is written.
func (s *Service) Compute(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (rep scoring.Report, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		rep, err = s.compute(ctx, studentID)
		return err
	})
	return
}

// Recompute computes the report and stores it as the student's latest snapshot.
func (s *Service) Recompute(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (snap *progress.Snapshot, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		rep, err := s.compute(ctx, studentID)
		if err != nil {
			return err
		}

		snap = progress.FromReport(studentID, rep, s.now())
		if err := ctx.Snapshots.Upsert(ctx.Context(), snap); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) Latest(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (snap *progress.Snapshot, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		snap, err = ctx.Snapshots.GetByStudent(ctx.Context(), studentID)
		return err
	})
	return
}

func (s *Service) compute(ctx *AtomicContext, studentID string) (scoring.Report, error) {
	in := scoring.ProgressInput{Gender: s.defaultGender}

	st, err := ctx.Profiles.GetStudent(ctx.Context(), studentID)
	switch {
	case err == nil && st.Gender != "":
		in.Gender = st.Gender
	case err != nil && !errors.Is(err, profile.ErrProfileNotFound):
		return scoring.Report{}, err
	}

	if in.Goals, err = ctx.Goals.ListByStudent(ctx.Context(), studentID); err != nil {
		return scoring.Report{}, err
	}
	if in.Exercises, err = ctx.Records.ListByStudent(ctx.Context(), studentID); err != nil {
		return scoring.Report{}, err
	}
	if in.Courses, err = ctx.Courses.ListByStudent(ctx.Context(), studentID); err != nil {
		return scoring.Report{}, err
	}
	if in.Grades, err = ctx.Courses.ListGradesByStudent(ctx.Context(), studentID); err != nil {
		return scoring.Report{}, err
	}

	return scoring.ApplicationProgress(in), nil
}

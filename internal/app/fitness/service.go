package fitnessservice

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"log/slog"
	"time"
)

var (
	ErrNotOwner = errors.New("record belongs to another student")
)

type Service struct {
	logger        *slog.Logger
	defaultGender fitness.Gender
}

func New(logger *slog.Logger, defaultGender fitness.Gender) *Service {
	return &Service{
		logger:        logger,
		defaultGender: defaultGender,
	}
}

type RecordData struct {
	Type       string
	Value      float64
	Target     float64
	Unit       string
	RecordedAt time.Time
}

// Scorecard is the CFA breakdown of a student.
type Scorecard struct {
	Gender fitness.Gender
	Events []scoring.EventResult
	Score  float64
}

func (s *Service) RecordExercise(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	recordID string,
	studentID string,
	data RecordData,
) (r *fitness.Record, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		r, err = fitness.NewRecord(
			recordID,
			studentID,
			fitness.ExerciseType(data.Type),
			data.Value,
			data.Target,
			data.Unit,
			data.RecordedAt,
		)
		if err != nil {
			return err
		}
		if err := ctx.RecordStorage.Add(ctx.Context(), r); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) ListRecords(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (records []*fitness.Record, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		records, err = ctx.RecordStorage.ListByStudent(ctx.Context(), studentID)
		return err
	})
	return
}

func (s *Service) DeleteRecord(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	recordID string,
	studentID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		r, err := ctx.RecordStorage.GetByID(ctx.Context(), recordID)
		if err != nil {
			return err
		}
		if r.StudentID != studentID {
			return fmt.Errorf("%w: %s", ErrNotOwner, recordID)
		}
		if err := ctx.RecordStorage.Delete(ctx.Context(), r); err != nil {
			return err
		}
		return ctx.Commit()
	})
}

// Scorecard scores the student's latest attempt at every canonical event against the
// standards of the student's gender.
func (s *Service) Scorecard(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (card Scorecard, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		gender, err := s.genderOf(ctx, studentID)
		if err != nil {
			return err
		}

		records, err := ctx.RecordStorage.ListByStudent(ctx.Context(), studentID)
		if err != nil {
			return err
		}

		card = Scorecard{
			Gender: gender,
			Events: scoring.Scorecard(records, gender),
			Score:  scoring.CFAScore(records, gender),
		}
		return nil
	})
	return
}

func (s *Service) genderOf(ctx *AtomicContext, studentID string) (fitness.Gender, error) {
	st, err := ctx.ProfileStorage.GetStudent(ctx.Context(), studentID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		s.logger.Debug("student has no profile, using default gender", "student_id", studentID)
		return s.defaultGender, nil
	case err != nil:
		return "", err
	case st.Gender == "":
		return s.defaultGender, nil
	}
	return st.Gender, nil
}

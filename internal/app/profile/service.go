package profileapp

import (
	"context"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"log/slog"
	"time"
)

type Service struct {
	logger *slog.Logger
}

func New(
	logger *slog.Logger,
) *Service {
	return &Service{
		logger: logger,
	}
}

type StudentData struct {
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	Gender         string
	TargetAcademy  string
	GraduationYear int
}

func (s *Service) CreateStudent(
	ctx context.Context,
	userID string,
	data StudentData,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (student *profile.Student, err error) {
	gender, err := fitness.ParseGender(data.Gender)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		student = profile.NewStudent(
			userID,
			data.FirstName,
			data.LastName,
			data.BirthDate,
			gender,
			data.TargetAcademy,
			data.GraduationYear,
		)
		if err := ctx.ProfileStorage.Add(ctx.Context(), student); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) UpdateStudent(
	ctx context.Context,
	userID string,
	data StudentData,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (student *profile.Student, err error) {
	gender, err := fitness.ParseGender(data.Gender)
	if err != nil {
		return nil, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		p, err := ctx.ProfileStorage.GetByID(ctx.Context(), userID)
		if err != nil {
			return err
		}

		var ok bool
		if student, ok = p.(*profile.Student); !ok {
			return fmt.Errorf("%w: %s is not a student", profile.ErrProfileNotFound, userID)
		}

		student.Update(
			data.FirstName,
			data.LastName,
			data.BirthDate,
			gender,
			data.TargetAcademy,
			data.GraduationYear,
		)
		if err := ctx.ProfileStorage.Persist(ctx.Context(), student); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) CreateMentor(
	ctx context.Context,
	userID string,
	firstName string,
	lastName string,
	organization string,
	yearsExperience int,
	bio string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (mentor *profile.Mentor, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		mentor = profile.NewMentor(userID, firstName, lastName, organization, yearsExperience, bio)
		if err := ctx.ProfileStorage.Add(ctx.Context(), mentor); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) GetProfileByID(
	ctx context.Context,
	userID string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (p profile.Profile, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		p, err = ctx.ProfileStorage.GetByID(ctx.Context(), userID)
		return err
	})
	return
}

func (s *Service) GetStudentByID(
	ctx context.Context,
	userID string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (*profile.Student, error) {
	p, err := s.GetProfileByID(ctx, userID, uow)
	if err != nil {
		return nil, err
	}

	if st, ok := p.(*profile.Student); ok {
		return st, nil
	}
	return nil, profile.ErrProfileNotFound
}

func (s *Service) GetMentorByID(
	ctx context.Context,
	userID string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (*profile.Mentor, error) {
	p, err := s.GetProfileByID(ctx, userID, uow)
	if err != nil {
		return nil, err
	}

	if m, ok := p.(*profile.Mentor); ok {
		return m, nil
	}
	return nil, profile.ErrProfileNotFound
}

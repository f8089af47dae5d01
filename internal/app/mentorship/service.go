package mentorshipservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"log/slog"
	"sort"
	"time"
)

type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateMentorship(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	mentorshipID string,
	mentorID string,
	name string,
	description string,
) (m *mentorship.Mentorship, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if err := requireType(ctx, mentorID, profile.TypeMentor, mentorship.ErrNotMentor); err != nil {
			return err
		}

		m = mentorship.New(mentorshipID, mentorID, name, description)
		if err := ctx.MentorshipStorage.Add(ctx.Context(), m); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

// GetByID returns the mentorship if the user is its mentor or one of its students.
func (s *Service) GetByID(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	mentorshipID string,
	userID string,
) (m *mentorship.Mentorship, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		m, err = visibleMentorship(ctx, mentorshipID, userID)
		return err
	})
	return
}

func (s *Service) GetMembers(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	mentorshipID string,
	userID string,
	limit int,
	offset int,
) (members []*mentorship.Member, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if _, err := visibleMentorship(ctx, mentorshipID, userID); err != nil {
			return err
		}
		var err error
		members, err = ctx.MentorshipStorage.GetMembers(ctx.Context(), mentorshipID, limit, offset)
		return err
	})
	return
}

// ListForUser lists the mentorships a mentor runs or a student belongs to, newest first.
func (s *Service) ListForUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	limit int,
	offset int,
) (list []*mentorship.Mentorship, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		p, err := ctx.ProfilesStorage.GetByID(ctx.Context(), userID)
		if err != nil {
			return err
		}

		var found map[string]*mentorship.Mentorship
		if p.Type() == profile.TypeMentor {
			found, err = ctx.MentorshipStorage.ListByMentor(ctx.Context(), userID, limit, offset)
		} else {
			found, err = ctx.MentorshipStorage.ListByStudent(ctx.Context(), userID, limit, offset)
		}
		if err != nil {
			return err
		}

		list = lo.Values(found)
		sort.Slice(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
		return nil
	})
	return
}

func (s *Service) CreateInvite(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	mentorshipID string,
	mentorID string,
) (inv *mentorship.Invite, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := ctx.MentorshipStorage.GetByID(ctx.Context(), mentorshipID)
		if err != nil {
			return err
		}
		if m.MentorID != mentorID {
			return mentorship.ErrNotMentor
		}

		inv = mentorship.NewInvite(mentorshipID, uuid.NewString(), s.generateSecret(), s.now())
		if err := ctx.MentorshipStorage.AddInvite(ctx.Context(), inv); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) AcceptInvite(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
	secret string,
) (accept mentorship.Accept, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if err := requireType(ctx, studentID, profile.TypeStudent, mentorship.ErrNotMember); err != nil {
			return err
		}

		inv, err := ctx.MentorshipStorage.GetInviteBySecret(ctx.Context(), secret)
		if err != nil {
			return err
		}

		if accept, err = inv.Accept(studentID, secret, s.now()); err != nil {
			return err
		}

		if err := ctx.MentorshipStorage.PersistInvite(ctx.Context(), inv); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

type LogData struct {
	StudentID string
	Topic     string
	Notes     string
	MetAt     time.Time
}

func (s *Service) AddLogEntry(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	logID string,
	mentorshipID string,
	authorID string,
	data LogData,
) (entry *mentorship.LogEntry, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := ctx.MentorshipStorage.GetByID(ctx.Context(), mentorshipID)
		if err != nil {
			return err
		}

		isMember, err := ctx.MentorshipStorage.IsMember(ctx.Context(), mentorshipID, data.StudentID)
		if err != nil {
			return err
		}
		if !isMember {
			return fmt.Errorf("%w: %s", mentorship.ErrNotMember, data.StudentID)
		}

		entry, err = mentorship.NewLogEntry(logID, m, authorID, data.StudentID, data.Topic, data.Notes, data.MetAt)
		if err != nil {
			return err
		}

		if err := ctx.MentorshipStorage.AddLogEntry(ctx.Context(), entry); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

// ListLogEntries lists meeting notes. The mentor may filter by student; a student
// only ever sees the entries about themselves.
func (s *Service) ListLogEntries(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	mentorshipID string,
	userID string,
	studentID string,
) (entries []*mentorship.LogEntry, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := visibleMentorship(ctx, mentorshipID, userID)
		if err != nil {
			return err
		}
		if m.MentorID != userID {
			studentID = userID
		}

		entries, err = ctx.MentorshipStorage.ListLogEntries(ctx.Context(), mentorshipID, studentID)
		return err
	})
	return
}

func (s *Service) generateSecret() string {
	var bytes [4]byte
	if n, err := rand.Read(bytes[:]); n != len(bytes) || err != nil {
		panic("failed to generate invite secret")
	}
	return hex.EncodeToString(bytes[:])
}

func visibleMentorship(ctx *AtomicContext, mentorshipID, userID string) (*mentorship.Mentorship, error) {
	m, err := ctx.MentorshipStorage.GetByID(ctx.Context(), mentorshipID)
	if err != nil {
		return nil, err
	}
	if m.MentorID == userID {
		return m, nil
	}

	isMember, err := ctx.MentorshipStorage.IsMember(ctx.Context(), mentorshipID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, mentorship.ErrNotMember
	}
	return m, nil
}

func requireType(ctx *AtomicContext, userID, profileType string, mismatch error) error {
	p, err := ctx.ProfilesStorage.GetByID(ctx.Context(), userID)
	if err != nil {
		return err
	}
	if p.Type() != profileType {
		return fmt.Errorf("%w: %s is a %s", mismatch, userID, p.Type())
	}
	return nil
}

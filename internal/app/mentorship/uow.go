package mentorshipservice

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	mentorshipstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/mentorships"
	profilestorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/profiles"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"log/slog"
)

type MentorshipStorage interface {
	Add(ctx context.Context, m *mentorship.Mentorship) error
	GetByID(ctx context.Context, mentorshipID string) (*mentorship.Mentorship, error)
	GetMembers(ctx context.Context, mentorshipID string, limit, offset int) ([]*mentorship.Member, error)
	IsMember(ctx context.Context, mentorshipID, studentID string) (bool, error)

	ListByMentor(
		ctx context.Context,
		mentorID string,
		limit, offset int,
	) (map[string]*mentorship.Mentorship, error)

	ListByStudent(
		ctx context.Context,
		studentID string,
		limit, offset int,
	) (map[string]*mentorship.Mentorship, error)

	AddInvite(ctx context.Context, inv *mentorship.Invite) error
	GetInviteBySecret(ctx context.Context, secret string) (*mentorship.Invite, error)
	PersistInvite(ctx context.Context, inv *mentorship.Invite) error

	AddLogEntry(ctx context.Context, e *mentorship.LogEntry) error
	ListLogEntries(ctx context.Context, mentorshipID, studentID string) ([]*mentorship.LogEntry, error)

	Close() error
	CollectEvents() []domain.Event
}

type ProfilesStorage interface {
	GetByID(ctx context.Context, profileID string) (profile.Profile, error)
	Close() error
	CollectEvents() []domain.Event
}

type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	MentorshipStorage MentorshipStorage
	ProfilesStorage   ProfilesStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.MentorshipStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if closeErr := a.ProfilesStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}
	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	mentorshipEvents := a.MentorshipStorage.CollectEvents()
	profileEvents := a.ProfilesStorage.CollectEvents()

	events := make([]domain.Event, 0, len(mentorshipEvents)+len(profileEvents))
	events = append(events, mentorshipEvents...)
	events = append(events, profileEvents...)
	return events
}

func AtomicContextFactory(logger *slog.Logger) func(context.Context, storage.DBContext) (*AtomicContext, error) {
	return func(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			ctx:               ctx,
			DBContext:         dbContext,
			MentorshipStorage: mentorshipstorage.NewPostgresStorage(dbContext, logger),
			ProfilesStorage:   profilestorage.NewPostgresStorage(dbContext),
		}, nil
	}
}

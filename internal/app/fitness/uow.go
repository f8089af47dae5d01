package fitnessservice

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	fitnessstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/fitness"
	profilestorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/profiles"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
)

type RecordStorage interface {
	Add(ctx context.Context, r *fitness.Record) error
	GetByID(ctx context.Context, recordID string) (*fitness.Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]*fitness.Record, error)
	Delete(ctx context.Context, r *fitness.Record) error
	CollectEvents() []domain.Event
	Close() error
}

type ProfileStorage interface {
	GetStudent(ctx context.Context, userID string) (*profile.Student, error)
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	RecordStorage  RecordStorage
	ProfileStorage ProfileStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.RecordStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if closeErr := a.ProfileStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}
	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	recordEvents := a.RecordStorage.CollectEvents()
	profileEvents := a.ProfileStorage.CollectEvents()

	events := make([]domain.Event, 0, len(recordEvents)+len(profileEvents))
	events = append(events, recordEvents...)
	events = append(events, profileEvents...)
	return events
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:            ctx,
		DBContext:      dbContext,
		RecordStorage:  fitnessstorage.NewPostgresStorage(dbContext),
		ProfileStorage: profilestorage.NewPostgresStorage(dbContext),
	}, nil
}

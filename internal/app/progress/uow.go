package progressservice

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	coursestorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/courses"
	fitnessstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/fitness"
	goalstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/goals"
	profilestorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/profiles"
	progressstorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/progress"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
	"github.com/burenotti/go_academy_backend/internal/domain/progress"
)

type CourseStorage interface {
	ListByStudent(ctx context.Context, studentID string) ([]*course.Course, error)
	ListGradesByStudent(ctx context.Context, studentID string) ([]*course.Grade, error)
	Close() error
}

type RecordStorage interface {
	ListByStudent(ctx context.Context, studentID string) ([]*fitness.Record, error)
	Close() error
}

type GoalStorage interface {
	ListByStudent(ctx context.Context, studentID string) ([]*goal.Goal, error)
	Close() error
}

type ProfileStorage interface {
	GetStudent(ctx context.Context, userID string) (*profile.Student, error)
	Close() error
}

type SnapshotStorage interface {
	Upsert(ctx context.Context, snap *progress.Snapshot) error
	GetByStudent(ctx context.Context, studentID string) (*progress.Snapshot, error)
	Close() error
}

// AtomicContext only reads records and writes snapshots, so it raises no events.
type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	Courses   CourseStorage
	Records   RecordStorage
	Goals     GoalStorage
	Profiles  ProfileStorage
	Snapshots SnapshotStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) Close() (err error) {
	closers := []interface{ Close() error }{a.Courses, a.Records, a.Goals, a.Profiles, a.Snapshots}
	for _, c := range closers {
		if closeErr := c.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}
	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}
	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return nil
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:       ctx,
		DBContext: dbContext,
		Courses:   coursestorage.NewPostgresStorage(dbContext),
		Records:   fitnessstorage.NewPostgresStorage(dbContext),
		Goals:     goalstorage.NewPostgresStorage(dbContext),
		Profiles:  profilestorage.NewPostgresStorage(dbContext),
		Snapshots: progressstorage.NewPostgresStorage(dbContext),
	}, nil
}

package courseservice

import (
	"context"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	coursestorage "github.com/burenotti/go_academy_backend/internal/adapter/storage/courses"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
)

type CourseStorage interface {
	Add(ctx context.Context, c *course.Course) error
	GetByID(ctx context.Context, courseID string) (*course.Course, error)
	ListByStudent(ctx context.Context, studentID string) ([]*course.Course, error)
	Persist(ctx context.Context, c *course.Course) error
	Delete(ctx context.Context, c *course.Course) error

	AddGrade(ctx context.Context, g *course.Grade) error
	GetGrade(ctx context.Context, gradeID string) (*course.Grade, error)
	ListGrades(ctx context.Context, courseID string) ([]*course.Grade, error)
	ListGradesByStudent(ctx context.Context, studentID string) ([]*course.Grade, error)
	DeleteGrade(ctx context.Context, g *course.Grade) error

	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx context.Context
	storage.DBContext
	CourseStorage CourseStorage
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.DBContext.Commit()
}

func (a *AtomicContext) Close() error {
	return a.CourseStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.CourseStorage.CollectEvents()
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:           ctx,
		DBContext:     dbContext,
		CourseStorage: coursestorage.NewPostgresStorage(dbContext),
	}, nil
}

package courseservice

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct{}

func (fakeDB) Begin(context.Context) (storage.DBContext, error) { return fakeDB{}, nil }
func (fakeDB) Commit() error                                   { return nil }
func (fakeDB) Rollback() error                                 { return nil }

func (fakeDB) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errors.New("not implemented")
}

func (fakeDB) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (fakeDB) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type memStore struct {
	courses []*course.Course
	grades  []*course.Grade
	seen    []domain.EventSource
}

func (m *memStore) Add(_ context.Context, c *course.Course) error {
	if _, err := m.GetByID(context.Background(), c.CourseID); err == nil {
		return course.ErrCourseExists
	}
	m.courses = append(m.courses, c)
	m.seen = append(m.seen, c)
	return nil
}

func (m *memStore) GetByID(_ context.Context, courseID string) (*course.Course, error) {
	for _, c := range m.courses {
		if c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, course.ErrCourseNotFound
}

func (m *memStore) ListByStudent(_ context.Context, studentID string) (out []*course.Course, _ error) {
	for _, c := range m.courses {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Persist(_ context.Context, c *course.Course) error {
	m.seen = append(m.seen, c)
	return nil
}

func (m *memStore) Delete(_ context.Context, c *course.Course) error {
	c.MarkDeleted()
	m.seen = append(m.seen, c)
	for i, item := range m.courses {
		if item.CourseID == c.CourseID {
			m.courses = append(m.courses[:i], m.courses[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) AddGrade(_ context.Context, g *course.Grade) error {
	m.grades = append(m.grades, g)
	m.seen = append(m.seen, g)
	return nil
}

func (m *memStore) GetGrade(_ context.Context, gradeID string) (*course.Grade, error) {
	for _, g := range m.grades {
		if g.GradeID == gradeID {
			return g, nil
		}
	}
	return nil, course.ErrGradeNotFound
}

func (m *memStore) ListGrades(_ context.Context, courseID string) (out []*course.Grade, _ error) {
	for _, g := range m.grades {
		if g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) ListGradesByStudent(_ context.Context, studentID string) (out []*course.Grade, _ error) {
	for _, g := range m.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) DeleteGrade(_ context.Context, g *course.Grade) error {
	g.MarkDeleted()
	m.seen = append(m.seen, g)
	for i, item := range m.grades {
		if item.GradeID == g.GradeID {
			m.grades = append(m.grades[:i], m.grades[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) CollectEvents() (events []domain.Event) {
	for _, src := range m.seen {
		events = append(events, src.PopEvents()...)
	}
	m.seen = nil
	return events
}

func (m *memStore) Close() error { return nil }

type recordingBus struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBus) PublishEvents(events ...domain.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range events {
		b.events = append(b.events, e.Type())
	}
	return nil
}

func setup(store *memStore, bus *recordingBus) *unitofwork.UnitOfWork[*AtomicContext] {
	return unitofwork.New(fakeDB{}, func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{ctx: ctx, DBContext: db, CourseStorage: store}, nil
	}, bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_CoursesAndGPA(t *testing.T) {
	store := &memStore{}
	bus := &recordingBus{}
	uow := setup(store, bus)
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	_, graded, err := svc.GPA(ctx, uow, "s1")
	require.NoError(t, err)
	assert.False(t, graded)

	_, err = svc.CreateCourse(ctx, uow, "calc", "s1", CourseData{Name: "Calculus", Credits: 1, IsAP: true})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, uow, "hist", "s1", CourseData{Name: "History", Credits: 1})
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, uow, "g1", "calc", "s1", GradeData{Score: 85, MaxScore: 100, Weight: 1})
	require.NoError(t, err)
	_, err = svc.RecordGrade(ctx, uow, "g2", "hist", "s1", GradeData{Score: 95, MaxScore: 100, Weight: 1})
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, uow, "g3", "hist", "s1", GradeData{Score: 120, MaxScore: 100, Weight: 1})
	assert.ErrorIs(t, err, course.ErrInvalidGrade)

	summary, err := svc.CourseSummary(ctx, uow, "s1")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Calculus", summary[0].Course.Name)
	assert.Equal(t, scoring.B, summary[0].Letter)
	// B is worth 3.0, plus the AP bonus
	assert.InDelta(t, 4.0, summary[0].Points, 1e-9)
	assert.Equal(t, scoring.A, summary[1].Letter)

	gpa, graded, err := svc.GPA(ctx, uow, "s1")
	require.NoError(t, err)
	assert.True(t, graded)
	assert.InDelta(t, 4.0, gpa, 1e-9)

	assert.Equal(t, []string{
		course.EventCourseChanged,
		course.EventCourseChanged,
		course.EventGradeRecorded,
		course.EventGradeRecorded,
	}, bus.events)
}

func TestService_Ownership(t *testing.T) {
	store := &memStore{}
	uow := setup(store, &recordingBus{})
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, uow, "calc", "s1", CourseData{Name: "Calculus", Credits: 1})
	require.NoError(t, err)
	_, err = svc.RecordGrade(ctx, uow, "g1", "calc", "s1", GradeData{Score: 9, MaxScore: 10, Weight: 1})
	require.NoError(t, err)

	_, err = svc.RecordGrade(ctx, uow, "g2", "calc", "s2", GradeData{Score: 9, MaxScore: 10, Weight: 1})
	assert.ErrorIs(t, err, course.ErrStudentMismatch)
	_, err = svc.ListGrades(ctx, uow, "calc", "s2")
	assert.ErrorIs(t, err, course.ErrStudentMismatch)
	assert.ErrorIs(t, svc.DeleteGrade(ctx, uow, "g1", "s2"), course.ErrStudentMismatch)
	assert.ErrorIs(t, svc.DeleteCourse(ctx, uow, "calc", "s2"), course.ErrStudentMismatch)
	assert.ErrorIs(t, svc.DeleteCourse(ctx, uow, "missing", "s1"), course.ErrCourseNotFound)

	_, err = svc.UpdateCourse(ctx, uow, "calc", "s1", CourseData{Name: "Calculus BC", Credits: 0})
	assert.ErrorIs(t, err, course.ErrInvalidCredits)

	updated, err := svc.UpdateCourse(ctx, uow, "calc", "s1", CourseData{Name: "Calculus BC", Credits: 2, IsAP: true})
	require.NoError(t, err)
	assert.Equal(t, "Calculus BC", updated.Name)

	require.NoError(t, svc.DeleteGrade(ctx, uow, "g1", "s1"))
	grades, err := svc.ListGrades(ctx, uow, "calc", "s1")
	require.NoError(t, err)
	assert.Empty(t, grades)
}

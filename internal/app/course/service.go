package courseservice

import (
	"context"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/samber/lo"
	"log/slog"
	"time"
)

type Service struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

type CourseData struct {
	Name     string
	Category string
	Credits  float64
	IsAP     bool
}

type GradeData struct {
	Title    string
	Score    float64
	MaxScore float64
	Weight   float64
	Date     time.Time
}

// Summary pairs a course with its scored result.
type Summary struct {
	Course *course.Course
	scoring.CourseResult
}

func (s *Service) CreateCourse(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	courseID string,
	studentID string,
	data CourseData,
) (c *course.Course, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		c, err = course.New(courseID, studentID, data.Name, data.Category, data.Credits, data.IsAP)
		if err != nil {
			return err
		}
		if err := ctx.CourseStorage.Add(ctx.Context(), c); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) ListCourses(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (courses []*course.Course, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		courses, err = ctx.CourseStorage.ListByStudent(ctx.Context(), studentID)
		return err
	})
	return
}

func (s *Service) UpdateCourse(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	courseID string,
	studentID string,
	data CourseData,
) (c *course.Course, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if c, err = ownedCourse(ctx, courseID, studentID); err != nil {
			return err
		}
		if err := c.Update(data.Name, data.Category, data.Credits, data.IsAP); err != nil {
			return err
		}
		if err := ctx.CourseStorage.Persist(ctx.Context(), c); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) DeleteCourse(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	courseID string,
	studentID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		c, err := ownedCourse(ctx, courseID, studentID)
		if err != nil {
			return err
		}
		if err := ctx.CourseStorage.Delete(ctx.Context(), c); err != nil {
			return err
		}
		return ctx.Commit()
	})
}

func (s *Service) RecordGrade(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	gradeID string,
	courseID string,
	studentID string,
	data GradeData,
) (g *course.Grade, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		c, err := ownedCourse(ctx, courseID, studentID)
		if err != nil {
			return err
		}

		g, err = course.NewGrade(gradeID, c, data.Title, data.Score, data.MaxScore, data.Weight, data.Date)
		if err != nil {
			return err
		}
		if err := ctx.CourseStorage.AddGrade(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) ListGrades(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	courseID string,
	studentID string,
) (grades []*course.Grade, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if _, err := ownedCourse(ctx, courseID, studentID); err != nil {
			return err
		}
		var err error
		grades, err = ctx.CourseStorage.ListGrades(ctx.Context(), courseID)
		return err
	})
	return
}

func (s *Service) DeleteGrade(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	gradeID string,
	studentID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		g, err := ctx.CourseStorage.GetGrade(ctx.Context(), gradeID)
		if err != nil {
			return err
		}
		if g.StudentID != studentID {
			return fmt.Errorf("%w: grade %s", course.ErrStudentMismatch, gradeID)
		}
		if err := ctx.CourseStorage.DeleteGrade(ctx.Context(), g); err != nil {
			return err
		}
		return ctx.Commit()
	})
}

// CourseSummary scores every course of the student, in the order the courses were created.
func (s *Service) CourseSummary(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (summary []Summary, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		courses, grades, err := studentRecords(ctx, studentID)
		if err != nil {
			return err
		}

		byID := lo.KeyBy(courses, func(c *course.Course) string { return c.CourseID })
		summary = lo.Map(scoring.CourseResults(courses, grades), func(r scoring.CourseResult, _ int) Summary {
			return Summary{Course: byID[r.CourseID], CourseResult: r}
		})
		return nil
	})
	return
}

// GPA reports the weighted GPA and whether any course contributed to it.
func (s *Service) GPA(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	studentID string,
) (gpa float64, graded bool, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		courses, grades, err := studentRecords(ctx, studentID)
		if err != nil {
			return err
		}
		gpa, graded = scoring.GradedGPA(courses, grades)
		return nil
	})
	return
}

func studentRecords(ctx *AtomicContext, studentID string) ([]*course.Course, []*course.Grade, error) {
	courses, err := ctx.CourseStorage.ListByStudent(ctx.Context(), studentID)
	if err != nil {
		return nil, nil, err
	}
	grades, err := ctx.CourseStorage.ListGradesByStudent(ctx.Context(), studentID)
	if err != nil {
		return nil, nil, err
	}
	return courses, grades, nil
}

func ownedCourse(ctx *AtomicContext, courseID, studentID string) (*course.Course, error) {
	c, err := ctx.CourseStorage.GetByID(ctx.Context(), courseID)
	if err != nil {
		return nil, err
	}
	if c.StudentID != studentID {
		return nil, fmt.Errorf("%w: course %s", course.ErrStudentMismatch, courseID)
	}
	return c, nil
}

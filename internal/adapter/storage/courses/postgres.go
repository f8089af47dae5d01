package coursestorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/leporo/sqlf"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, c *course.Course) error {
	q := sqlf.InsertInto("courses").
		Set("course_id", c.CourseID).
		Set("student_id", c.StudentID).
		Set("name", c.Name).
		Set("category", c.Category).
		Set("credits", c.Credits).
		Set("is_ap", c.IsAP).
		Set("created_at", c.CreatedAt).
		Set("updated_at", c.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "courses_pkey") {
			return course.ErrCourseExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(c.CourseID, c)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt),
) ([]*course.Course, error) {
	var tmp courseRow

	q := sqlf.From("courses c").
		Select("c.course_id").To(&tmp.CourseID).
		Select("c.student_id").To(&tmp.StudentID).
		Select("c.name").To(&tmp.Name).
		Select("c.category").To(&tmp.Category).
		Select("c.credits").To(&tmp.Credits).
		Select("c.is_ap").To(&tmp.IsAP).
		Select("c.created_at").To(&tmp.CreatedAt).
		Select("c.updated_at").To(&tmp.UpdatedAt)

	modify(q)

	var result []*course.Course
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, tmp.toDomain())
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, courseID string) (*course.Course, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("c.course_id = ?", courseID)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, course.ErrCourseNotFound
	}
	return result[0], nil
}

func (s *PostgresStorage) ListByStudent(ctx context.Context, studentID string) ([]*course.Course, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("c.student_id = ?", studentID).OrderBy("c.created_at")
	})
}

func (s *PostgresStorage) Persist(ctx context.Context, c *course.Course) error {
	stored, err := s.GetByID(ctx, c.CourseID)
	if err != nil {
		return err
	}

	changes, err := pgutil.Changes(stored, c)
	if err != nil {
		return storage.InternalError(err)
	}

	if len(changes) != 0 {
		q := pgutil.MakeUpdateQuery(sqlf.Update("courses"), changes).
			Where("course_id = ?", c.CourseID)
		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, course.ErrCourseNotFound); err != nil {
			return err
		}
	}

	s.base.MarkSeen(c.CourseID, c)
	return nil
}

// Delete removes the course together with its grades.
func (s *PostgresStorage) Delete(ctx context.Context, c *course.Course) error {
	if _, err := sqlf.DeleteFrom("grades").
		Where("course_id = ?", c.CourseID).
		ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}

	res, err := sqlf.DeleteFrom("courses").
		Where("course_id = ?", c.CourseID).
		ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, course.ErrCourseNotFound); err != nil {
		return err
	}

	c.MarkDeleted()
	s.base.MarkSeen(c.CourseID, c)
	return nil
}

func (s *PostgresStorage) AddGrade(ctx context.Context, g *course.Grade) error {
	q := sqlf.InsertInto("grades").
		Set("grade_id", g.GradeID).
		Set("course_id", g.CourseID).
		Set("student_id", g.StudentID).
		Set("title", g.Title).
		Set("score", g.Score).
		Set("max_score", g.MaxScore).
		Set("weight", g.Weight).
		Set("graded_at", g.Date)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		switch {
		case pgutil.ViolatesConstraint(err, "grades_pkey"):
			return course.ErrGradeExists
		case pgutil.IsForeignKeyViolation(err):
			return fmt.Errorf("%w: %s", course.ErrCourseNotFound, g.CourseID)
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen("grade:"+g.GradeID, g)
	return nil
}

func (s *PostgresStorage) getGrades(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt),
) ([]*course.Grade, error) {
	var tmp gradeRow

	q := sqlf.From("grades g").
		Select("g.grade_id").To(&tmp.GradeID).
		Select("g.course_id").To(&tmp.CourseID).
		Select("g.student_id").To(&tmp.StudentID).
		Select("g.title").To(&tmp.Title).
		Select("g.score").To(&tmp.Score).
		Select("g.max_score").To(&tmp.MaxScore).
		Select("g.weight").To(&tmp.Weight).
		Select("g.graded_at").To(&tmp.Date)

	modify(q)

	var result []*course.Grade
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, tmp.toDomain())
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetGrade(ctx context.Context, gradeID string) (*course.Grade, error) {
	grades, err := s.getGrades(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("g.grade_id = ?", gradeID)
	})
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, course.ErrGradeNotFound
	}
	return grades[0], nil
}

func (s *PostgresStorage) ListGrades(ctx context.Context, courseID string) ([]*course.Grade, error) {
	return s.getGrades(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("g.course_id = ?", courseID).OrderBy("g.graded_at DESC")
	})
}

func (s *PostgresStorage) ListGradesByStudent(ctx context.Context, studentID string) ([]*course.Grade, error) {
	return s.getGrades(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("g.student_id = ?", studentID).OrderBy("g.graded_at DESC")
	})
}

func (s *PostgresStorage) DeleteGrade(ctx context.Context, g *course.Grade) error {
	res, err := sqlf.DeleteFrom("grades").
		Where("grade_id = ?", g.GradeID).
		ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, course.ErrGradeNotFound); err != nil {
		return err
	}

	g.MarkDeleted()
	s.base.MarkSeen("grade:"+g.GradeID, g)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type courseRow struct {
	CourseID  string
	StudentID string
	Name      string
	Category  string
	Credits   float64
	IsAP      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *courseRow) toDomain() *course.Course {
	return &course.Course{
		CourseID:  r.CourseID,
		StudentID: r.StudentID,
		Name:      r.Name,
		Category:  r.Category,
		Credits:   r.Credits,
		IsAP:      r.IsAP,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type gradeRow struct {
	GradeID   string
	CourseID  string
	StudentID string
	Title     string
	Score     float64
	MaxScore  float64
	Weight    float64
	Date      time.Time
}

func (r *gradeRow) toDomain() *course.Grade {
	return &course.Grade{
		GradeID:   r.GradeID,
		CourseID:  r.CourseID,
		StudentID: r.StudentID,
		Title:     r.Title,
		Score:     r.Score,
		MaxScore:  r.MaxScore,
		Weight:    r.Weight,
		Date:      r.Date,
	}
}

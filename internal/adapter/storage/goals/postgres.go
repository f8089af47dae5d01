package goalstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
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

func (s *PostgresStorage) Add(ctx context.Context, g *goal.Goal) error {
	q := sqlf.InsertInto("goals").
		Set("goal_id", g.GoalID).
		Set("student_id", g.StudentID).
		Set("title", g.Title).
		Set("description", g.Description).
		Set("category", string(g.Category)).
		Set("progress", g.Progress).
		Set("completed", g.Completed).
		Set("deadline", g.Deadline).
		Set("created_at", g.CreatedAt).
		Set("updated_at", g.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "goals_pkey") {
			return goal.ErrGoalExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(g.GoalID, g)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt),
) ([]*goal.Goal, error) {
	var tmp goalRow

	q := sqlf.From("goals g").
		Select("g.goal_id").To(&tmp.GoalID).
		Select("g.student_id").To(&tmp.StudentID).
		Select("g.title").To(&tmp.Title).
		Select("g.description").To(&tmp.Description).
		Select("g.category").To(&tmp.Category).
		Select("g.progress").To(&tmp.Progress).
		Select("g.completed").To(&tmp.Completed).
		Select("g.deadline").To(&tmp.Deadline).
		Select("g.created_at").To(&tmp.CreatedAt).
		Select("g.updated_at").To(&tmp.UpdatedAt)

	modify(q)

	var result []*goal.Goal
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, tmp.toDomain())
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, goalID string) (*goal.Goal, error) {
	result, err := s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("g.goal_id = ?", goalID)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, goal.ErrGoalNotFound
	}
	return result[0], nil
}

func (s *PostgresStorage) ListByStudent(ctx context.Context, studentID string) ([]*goal.Goal, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("g.student_id = ?", studentID).
			OrderBy("g.completed", "g.deadline NULLS LAST", "g.created_at")
	})
}

func (s *PostgresStorage) Persist(ctx context.Context, g *goal.Goal) error {
	stored, err := s.GetByID(ctx, g.GoalID)
	if err != nil {
		return err
	}

	changes, err := pgutil.Changes(stored, g)
	if err != nil {
		return storage.InternalError(err)
	}

	if len(changes) != 0 {
		q := pgutil.MakeUpdateQuery(sqlf.Update("goals"), changes).
			Where("goal_id = ?", g.GoalID)
		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, goal.ErrGoalNotFound); err != nil {
			return err
		}
	}

	s.base.MarkSeen(g.GoalID, g)
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, g *goal.Goal) error {
	res, err := sqlf.DeleteFrom("goals").
		Where("goal_id = ?", g.GoalID).
		ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, goal.ErrGoalNotFound); err != nil {
		return err
	}

	g.MarkDeleted()
	s.base.MarkSeen(g.GoalID, g)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type goalRow struct {
	GoalID      string
	StudentID   string
	Title       string
	Description string
	Category    string
	Progress    int
	Completed   bool
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *goalRow) toDomain() *goal.Goal {
	return &goal.Goal{
		GoalID:      r.GoalID,
		StudentID:   r.StudentID,
		Title:       r.Title,
		Description: r.Description,
		Category:    goal.Category(r.Category),
		Progress:    r.Progress,
		Completed:   r.Completed,
		Deadline:    r.Deadline,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

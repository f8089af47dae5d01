package progressstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/progress"
	"github.com/leporo/sqlf"
)

type PostgresStorage struct {
	db storage.DBContext
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

// Upsert keeps a single snapshot per student, replacing the previous one.
func (s *PostgresStorage) Upsert(ctx context.Context, snap *progress.Snapshot) error {
	q := sqlf.InsertInto("application_progress").
		Set("student_id", snap.StudentID).
		Set("overall", snap.Overall).
		Set("goals", snap.Goals).
		Set("fitness", snap.Fitness).
		Set("gpa", snap.GPA).
		Set("computed_at", snap.ComputedAt).
		Clause("ON CONFLICT (student_id) DO UPDATE SET " +
			"overall = EXCLUDED.overall, goals = EXCLUDED.goals, fitness = EXCLUDED.fitness, " +
			"gpa = EXCLUDED.gpa, computed_at = EXCLUDED.computed_at")

	if _, err := q.ExecAndClose(ctx, s.db); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) GetByStudent(ctx context.Context, studentID string) (*progress.Snapshot, error) {
	snap := &progress.Snapshot{}

	q := sqlf.From("application_progress p").
		Where("p.student_id = ?", studentID).
		Select("p.student_id").To(&snap.StudentID).
		Select("p.overall").To(&snap.Overall).
		Select("p.goals").To(&snap.Goals).
		Select("p.fitness").To(&snap.Fitness).
		Select("p.gpa").To(&snap.GPA).
		Select("p.computed_at").To(&snap.ComputedAt)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, progress.ErrSnapshotNotFound
		}
		return nil, storage.InternalError(err)
	}
	return snap, nil
}

// CollectEvents returns nothing: snapshots are derived data and raise no events.
func (s *PostgresStorage) CollectEvents() []domain.Event {
	return nil
}

func (s *PostgresStorage) Close() error {
	return nil
}

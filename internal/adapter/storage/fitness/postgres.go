package fitnessstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
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

func (s *PostgresStorage) Add(ctx context.Context, r *fitness.Record) error {
	q := sqlf.InsertInto("exercise_records").
		Set("record_id", r.RecordID).
		Set("student_id", r.StudentID).
		Set("exercise_type", string(r.Type)).
		Set("value", r.Value).
		Set("target", r.Target).
		Set("unit", r.Unit).
		Set("recorded_at", r.RecordedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "exercise_records_pkey") {
			return fitness.ErrRecordExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(r.RecordID, r)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt),
) (map[string]*fitness.Record, []string, error) {
	var tmp recordRow

	q := sqlf.From("exercise_records r").
		Select("r.record_id").To(&tmp.RecordID).
		Select("r.student_id").To(&tmp.StudentID).
		Select("r.exercise_type").To(&tmp.Type).
		Select("r.value").To(&tmp.Value).
		Select("r.target").To(&tmp.Target).
		Select("r.unit").To(&tmp.Unit).
		Select("r.recorded_at").To(&tmp.RecordedAt)

	modify(q)

	result := make(map[string]*fitness.Record)
	var order []string

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result[tmp.RecordID] = tmp.toDomain()
		order = append(order, tmp.RecordID)
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, order, nil
	}
	return nil, nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, recordID string) (*fitness.Record, error) {
	result, _, err := s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("r.record_id = ?", recordID)
	})
	return pgutil.PeekOrErr(result, err, fitness.ErrRecordNotFound)
}

// ListByStudent returns the student's records, newest first.
func (s *PostgresStorage) ListByStudent(ctx context.Context, studentID string) ([]*fitness.Record, error) {
	result, order, err := s.get(ctx, func(stmt *sqlf.Stmt) {
		stmt.Where("r.student_id = ?", studentID).OrderBy("r.recorded_at DESC")
	})
	if err != nil {
		return nil, err
	}

	records := make([]*fitness.Record, 0, len(order))
	for _, id := range order {
		records = append(records, result[id])
	}
	return records, nil
}

func (s *PostgresStorage) Delete(ctx context.Context, r *fitness.Record) error {
	res, err := sqlf.DeleteFrom("exercise_records").
		Where("record_id = ?", r.RecordID).
		ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, fitness.ErrRecordNotFound); err != nil {
		return err
	}

	r.MarkDeleted()
	s.base.MarkSeen(r.RecordID, r)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type recordRow struct {
	RecordID   string
	StudentID  string
	Type       string
	Value      float64
	Target     float64
	Unit       string
	RecordedAt time.Time
}

func (r *recordRow) toDomain() *fitness.Record {
	return &fitness.Record{
		RecordID:   r.RecordID,
		StudentID:  r.StudentID,
		Type:       fitness.ExerciseType(r.Type),
		Value:      r.Value,
		Target:     r.Target,
		Unit:       r.Unit,
		RecordedAt: r.RecordedAt,
	}
}

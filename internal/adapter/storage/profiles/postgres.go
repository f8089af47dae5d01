package profilestorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
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

func (s *PostgresStorage) Add(ctx context.Context, p profile.Profile) error {
	switch v := p.(type) {
	case *profile.Student:
		return s.AddStudent(ctx, v)
	case *profile.Mentor:
		return s.AddMentor(ctx, v)
	default:
		panic("unknown profile type")
	}
}

func (s *PostgresStorage) AddStudent(ctx context.Context, st *profile.Student) error {
	q := sqlf.InsertInto("students_profiles").
		Set("user_id", st.UserID).
		Set("first_name", st.FirstName).
		Set("last_name", st.LastName).
		Set("birth_date", st.BirthDate).
		Set("gender", string(st.Gender)).
		Set("target_academy", st.TargetAcademy).
		Set("graduation_year", st.GraduationYear)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "students_profiles_pkey") {
			return profile.ErrProfileExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(st.UserID, st)
	return nil
}

func (s *PostgresStorage) AddMentor(ctx context.Context, m *profile.Mentor) error {
	q := sqlf.InsertInto("mentors_profiles").
		Set("user_id", m.UserID).
		Set("first_name", m.FirstName).
		Set("last_name", m.LastName).
		Set("organization", m.Organization).
		Set("years_experience", m.YearsExperience).
		Set("bio", m.Bio)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "mentors_profiles_pkey") {
			return profile.ErrProfileExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(m.UserID, m)
	return nil
}

// GetByID resolves the account to whichever profile it owns.
func (s *PostgresStorage) GetByID(ctx context.Context, userID string) (profile.Profile, error) {
	var r getByIDRow
	q := sqlf.PostgreSQL.From("accounts a").
		LeftJoin("mentors_profiles m", "a.account_id = m.user_id").
		LeftJoin("students_profiles s", "a.account_id = s.user_id").
		Where("a.account_id = ?", userID).
		Select("s.user_id AS student_id").To(&r.StudentID).
		Select("s.first_name").To(&r.StudentFirstName).
		Select("s.last_name").To(&r.StudentLastName).
		Select("s.birth_date").To(&r.StudentBirthDate).
		Select("s.gender").To(&r.StudentGender).
		Select("s.target_academy").To(&r.StudentTargetAcademy).
		Select("s.graduation_year").To(&r.StudentGraduationYear).
		Select("m.user_id AS mentor_id").To(&r.MentorID).
		Select("m.first_name").To(&r.MentorFirstName).
		Select("m.last_name").To(&r.MentorLastName).
		Select("m.organization").To(&r.MentorOrganization).
		Select("m.years_experience").To(&r.MentorYearsExperience).
		Select("m.bio").To(&r.MentorBio)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, storage.InternalError(err)
	}

	if r.MentorID != nil {
		return &profile.Mentor{
			UserID:          *r.MentorID,
			FirstName:       *r.MentorFirstName,
			LastName:        *r.MentorLastName,
			Organization:    *r.MentorOrganization,
			YearsExperience: *r.MentorYearsExperience,
			Bio:             *r.MentorBio,
		}, nil
	}

	if r.StudentID != nil {
		return &profile.Student{
			UserID:         *r.StudentID,
			FirstName:      *r.StudentFirstName,
			LastName:       *r.StudentLastName,
			BirthDate:      r.StudentBirthDate,
			Gender:         fitness.Gender(*r.StudentGender),
			TargetAcademy:  *r.StudentTargetAcademy,
			GraduationYear: *r.StudentGraduationYear,
		}, nil
	}

	return nil, profile.ErrProfileNotFound
}

func (s *PostgresStorage) GetStudent(ctx context.Context, userID string) (*profile.Student, error) {
	p, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, ok := p.(*profile.Student)
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return st, nil
}

func (s *PostgresStorage) Persist(ctx context.Context, p profile.Profile) error {
	switch v := p.(type) {
	case *profile.Student:
		return s.PersistStudent(ctx, v)
	case *profile.Mentor:
		return s.PersistMentor(ctx, v)
	default:
		panic("unknown profile type")
	}
}

func (s *PostgresStorage) PersistStudent(ctx context.Context, st *profile.Student) error {
	stored, err := s.GetStudent(ctx, st.UserID)
	if err != nil {
		return err
	}

	changes, err := pgutil.Changes(stored, st)
	if err != nil {
		return storage.InternalError(err)
	}

	if len(changes) != 0 {
		q := pgutil.MakeUpdateQuery(sqlf.Update("students_profiles"), changes).
			Where("user_id = ?", st.UserID)
		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, profile.ErrProfileNotFound); err != nil {
			return err
		}
	}

	s.base.MarkSeen(st.UserID, st)
	return nil
}

func (s *PostgresStorage) PersistMentor(ctx context.Context, m *profile.Mentor) error {
	q := sqlf.Update("mentors_profiles").
		Where("user_id = ?", m.UserID).
		Set("first_name", m.FirstName).
		Set("last_name", m.LastName).
		Set("organization", m.Organization).
		Set("bio", m.Bio).
		Set("years_experience", m.YearsExperience)

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, profile.ErrProfileNotFound); err != nil {
		return err
	}

	s.base.MarkSeen(m.UserID, m)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type getByIDRow struct {
	MentorID              *string
	MentorFirstName       *string
	MentorLastName        *string
	MentorOrganization    *string
	MentorYearsExperience *int
	MentorBio             *string

	StudentID             *string
	StudentFirstName      *string
	StudentLastName       *string
	StudentBirthDate      *time.Time
	StudentGender         *string
	StudentTargetAcademy  *string
	StudentGraduationYear *int
}

package mentorshipstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/leporo/sqlf"
	"log/slog"
	"time"
)

type PostgresStorage struct {
	base   *pgutil.BasePostgresStorage
	logger *slog.Logger
}

func NewPostgresStorage(db storage.DBContext, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{
		base:   pgutil.NewBasePostgresStorage(db),
		logger: logger,
	}
}

func (s *PostgresStorage) Add(ctx context.Context, m *mentorship.Mentorship) error {
	q := sqlf.InsertInto("mentorships").
		Set("mentorship_id", m.MentorshipID).
		Set("mentor_id", m.MentorID).
		Set("name", m.Name).
		Set("description", m.Description).
		Set("created_at", m.CreatedAt).
		Set("updated_at", m.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "mentorships_pkey") {
			return mentorship.ErrMentorshipExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(m.MentorshipID, m)
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (map[string]*mentorship.Mentorship, error) {
	var tmp struct {
		MentorshipID string
		MentorID     string
		Name         string
		Description  string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	q := sqlf.From("mentorships m").
		Select("m.mentorship_id").To(&tmp.MentorshipID).
		Select("m.mentor_id").To(&tmp.MentorID).
		Select("m.name").To(&tmp.Name).
		Select("m.description").To(&tmp.Description).
		Select("m.created_at").To(&tmp.CreatedAt).
		Select("m.updated_at").To(&tmp.UpdatedAt)

	q = modify(q)

	result := make(map[string]*mentorship.Mentorship)
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result[tmp.MentorshipID] = &mentorship.Mentorship{
			MentorshipID: tmp.MentorshipID,
			MentorID:     tmp.MentorID,
			Name:         tmp.Name,
			Description:  tmp.Description,
			CreatedAt:    tmp.CreatedAt,
			UpdatedAt:    tmp.UpdatedAt,
		}
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetByID(ctx context.Context, mentorshipID string) (*mentorship.Mentorship, error) {
	m, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("m.mentorship_id = ?", mentorshipID)
	})
	return pgutil.PeekOrErr(m, err, mentorship.ErrMentorshipNotFound)
}

func (s *PostgresStorage) ListByMentor(
	ctx context.Context,
	mentorID string,
	limit, offset int,
) (map[string]*mentorship.Mentorship, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("m.mentor_id = ?", mentorID).Offset(offset).Limit(limit)
	})
}

func (s *PostgresStorage) ListByStudent(
	ctx context.Context,
	studentID string,
	limit, offset int,
) (map[string]*mentorship.Mentorship, error) {
	return s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("m.mentorship_id IN (SELECT i.mentorship_id FROM invites i "+
			"JOIN invite_accepts ia ON ia.invite_id = i.invite_id WHERE ia.student_id = ?)", studentID).
			Offset(offset).
			Limit(limit)
	})
}

// GetMembers lists the students who accepted any invite of the mentorship.
func (s *PostgresStorage) GetMembers(
	ctx context.Context,
	mentorshipID string,
	limit, offset int,
) (result []*mentorship.Member, err error) {
	var tmp struct {
		StudentID string
		Email     string
		FirstName string
		LastName  string
		JoinedAt  time.Time
	}

	q := sqlf.From("invites i").
		Join("invite_accepts ia", "i.invite_id = ia.invite_id").
		Join("students_profiles sp", "sp.user_id = ia.student_id").
		Join("accounts a", "a.account_id = sp.user_id").
		Where("i.mentorship_id = ?", mentorshipID).
		OrderBy("ia.accepted_at").
		Limit(limit).
		Offset(offset).
		Select("sp.user_id").To(&tmp.StudentID).
		Select("a.email").To(&tmp.Email).
		Select("sp.first_name").To(&tmp.FirstName).
		Select("sp.last_name").To(&tmp.LastName).
		Select("ia.accepted_at").To(&tmp.JoinedAt)

	err = q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &mentorship.Member{
			StudentID: tmp.StudentID,
			Email:     tmp.Email,
			FirstName: tmp.FirstName,
			LastName:  tmp.LastName,
			JoinedAt:  tmp.JoinedAt,
		})
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) IsMember(ctx context.Context, mentorshipID, studentID string) (bool, error) {
	var count int
	q := sqlf.From("invites i").
		Join("invite_accepts ia", "i.invite_id = ia.invite_id").
		Where("i.mentorship_id = ?", mentorshipID).
		Where("ia.student_id = ?", studentID).
		Select("COUNT(*)").To(&count)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		return false, storage.InternalError(err)
	}
	return count > 0, nil
}

func (s *PostgresStorage) AddInvite(ctx context.Context, inv *mentorship.Invite) error {
	q := sqlf.InsertInto("invites").
		Set("invite_id", inv.InviteID).
		Set("mentorship_id", inv.MentorshipID).
		Set("secret", inv.Secret).
		Set("created_at", inv.CreatedAt).
		Set("valid_until", inv.ValidUntil)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "invites_pkey") {
			return mentorship.ErrInviteExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen("invite:"+inv.InviteID, inv)
	return nil
}

func (s *PostgresStorage) getInvites(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (map[string]*mentorship.Invite, error) {
	var tmp struct {
		InviteID     string
		MentorshipID string
		Secret       string
		ValidUntil   time.Time
		CreatedAt    time.Time
		StudentID    *string
		AcceptedAt   *time.Time
	}

	q := sqlf.From("invites i").
		LeftJoin("invite_accepts a", "i.invite_id = a.invite_id").
		Select("i.invite_id").To(&tmp.InviteID).
		Select("i.mentorship_id").To(&tmp.MentorshipID).
		Select("i.valid_until").To(&tmp.ValidUntil).
		Select("i.secret").To(&tmp.Secret).
		Select("i.created_at").To(&tmp.CreatedAt).
		Select("a.student_id").To(&tmp.StudentID).
		Select("a.accepted_at").To(&tmp.AcceptedAt)

	q = modify(q)

	invites := make(map[string]*mentorship.Invite)
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		inv, ok := invites[tmp.InviteID]
		if !ok {
			inv = &mentorship.Invite{
				InviteID:     tmp.InviteID,
				MentorshipID: tmp.MentorshipID,
				AcceptedBy:   make(map[string]mentorship.Accept),
				Secret:       tmp.Secret,
				CreatedAt:    tmp.CreatedAt,
				ValidUntil:   tmp.ValidUntil,
			}
			invites[tmp.InviteID] = inv
		}
		if tmp.StudentID != nil {
			inv.AcceptedBy[*tmp.StudentID] = mentorship.Accept{
				InviteID:   tmp.InviteID,
				StudentID:  *tmp.StudentID,
				AcceptedAt: *tmp.AcceptedAt,
			}
		}
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return invites, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) GetInvite(ctx context.Context, inviteID string) (*mentorship.Invite, error) {
	invites, err := s.getInvites(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("i.invite_id = ?", inviteID)
	})
	return pgutil.PeekOrErr(invites, err, mentorship.ErrInviteNotFound)
}

func (s *PostgresStorage) GetInviteBySecret(ctx context.Context, secret string) (*mentorship.Invite, error) {
	invites, err := s.getInvites(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("i.secret = ?", secret)
	})
	return pgutil.PeekOrErr(invites, err, mentorship.ErrInviteNotFound)
}

// PersistInvite stores new accepts. Accepts are never modified or removed.
func (s *PostgresStorage) PersistInvite(ctx context.Context, inv *mentorship.Invite) error {
	stored, err := s.GetInvite(ctx, inv.InviteID)
	if err != nil {
		return err
	}

	for studentID, accept := range inv.AcceptedBy {
		if _, ok := stored.AcceptedBy[studentID]; ok {
			continue
		}
		if err := s.addAccept(ctx, accept); err != nil {
			return err
		}
	}

	s.base.MarkSeen("invite:"+inv.InviteID, inv)
	return nil
}

func (s *PostgresStorage) addAccept(ctx context.Context, accept mentorship.Accept) error {
	q := sqlf.InsertInto("invite_accepts").
		Set("invite_id", accept.InviteID).
		Set("student_id", accept.StudentID).
		Set("accepted_at", accept.AcceptedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "invite_accepts_pkey") {
			return mentorship.ErrInviteAlreadyAccepted
		}
		return storage.InternalError(err)
	}

	s.logger.Debug("invite accepted",
		slog.String("invite_id", accept.InviteID),
		slog.String("student_id", accept.StudentID),
	)
	return nil
}

func (s *PostgresStorage) AddLogEntry(ctx context.Context, e *mentorship.LogEntry) error {
	q := sqlf.InsertInto("mentorship_logs").
		Set("log_id", e.LogID).
		Set("mentorship_id", e.MentorshipID).
		Set("mentor_id", e.MentorID).
		Set("student_id", e.StudentID).
		Set("topic", e.Topic).
		Set("notes", e.Notes).
		Set("met_at", e.MetAt).
		Set("created_at", e.CreatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "mentorship_logs_pkey") {
			return mentorship.ErrLogExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen("log:"+e.LogID, e)
	return nil
}

// ListLogEntries returns the meeting log of a mentorship, newest first. An empty
// studentID lists entries for every member.
func (s *PostgresStorage) ListLogEntries(
	ctx context.Context,
	mentorshipID, studentID string,
) (result []*mentorship.LogEntry, err error) {
	var tmp struct {
		LogID        string
		MentorshipID string
		MentorID     string
		StudentID    string
		Topic        string
		Notes        string
		MetAt        time.Time
		CreatedAt    time.Time
	}

	q := sqlf.From("mentorship_logs l").
		Where("l.mentorship_id = ?", mentorshipID).
		Select("l.log_id").To(&tmp.LogID).
		Select("l.mentorship_id").To(&tmp.MentorshipID).
		Select("l.mentor_id").To(&tmp.MentorID).
		Select("l.student_id").To(&tmp.StudentID).
		Select("l.topic").To(&tmp.Topic).
		Select("l.notes").To(&tmp.Notes).
		Select("l.met_at").To(&tmp.MetAt).
		Select("l.created_at").To(&tmp.CreatedAt).
		OrderBy("l.met_at DESC")

	if studentID != "" {
		q.Where("l.student_id = ?", studentID)
	}

	err = q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		result = append(result, &mentorship.LogEntry{
			LogID:        tmp.LogID,
			MentorshipID: tmp.MentorshipID,
			MentorID:     tmp.MentorID,
			StudentID:    tmp.StudentID,
			Topic:        tmp.Topic,
			Notes:        tmp.Notes,
			MetAt:        tmp.MetAt,
			CreatedAt:    tmp.CreatedAt,
		})
	})

	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return result, nil
	}
	return nil, storage.InternalError(err)
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

package accountstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/auth"
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

func (s *PostgresStorage) Add(ctx context.Context, a *auth.Account) error {
	q := sqlf.InsertInto("accounts").
		Set("account_id", a.AccountID).
		Set("email", a.Email).
		Set("password_hash", a.PasswordHash).
		Set("created_at", a.CreatedAt).
		Set("updated_at", a.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		switch {
		case pgutil.ViolatesConstraint(err, "accounts_pkey"):
			return errors.Join(fmt.Errorf("account exists: %w", err), auth.ErrAccountExists)
		case pgutil.ViolatesConstraint(err, "accounts_email_key"):
			return auth.ErrEmailDuplicate
		}
		return storage.InternalError(err)
	}

	for _, sess := range a.Sessions {
		if err := s.addSession(ctx, a.AccountID, sess); err != nil {
			return err
		}
	}

	s.base.MarkSeen(a.AccountID, a)
	return nil
}

func (s *PostgresStorage) addSession(ctx context.Context, accountID string, sess *auth.Session) error {
	q := sqlf.InsertInto("sessions").
		Set("session_id", sess.ID).
		Set("account_id", accountID).
		Set("secret", sess.Secret).
		Set("created_at", sess.CreatedAt).
		Set("valid_until", sess.ValidUntil).
		Set("logout_at", sess.LogoutAt).
		Set("browser", sess.Device.Browser).
		Set("os", sess.Device.OS).
		Set("ip_address", sess.Device.IPAddress).
		Set("device_model", sess.Device.Model)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "sessions_pkey") {
			return auth.ErrSessionExists
		}
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) get(
	ctx context.Context,
	whereClause string,
	whereArgs ...any,
) ([]*auth.Account, error) {
	var tmp accountWithSessionRow

	// Filtering on a session column would drop the account's other sessions,
	// so the condition selects account ids first.
	q := sqlf.From("accounts a").
		LeftJoin("sessions s", "a.account_id = s.account_id").
		Where("a.account_id IN (SELECT a.account_id FROM accounts a LEFT JOIN sessions s ON a.account_id = s.account_id WHERE "+whereClause+")", whereArgs...).
		Select("a.account_id").To(&tmp.AccountID).
		Select("a.email").To(&tmp.Email).
		Select("a.password_hash").To(&tmp.PasswordHash).
		Select("a.created_at").To(&tmp.CreatedAt).
		Select("a.updated_at").To(&tmp.UpdatedAt).
		Select("s.session_id").To(&tmp.SessionID).
		Select("s.secret").To(&tmp.Secret).
		Select("s.created_at").To(&tmp.SessionCreatedAt).
		Select("s.valid_until").To(&tmp.ValidUntil).
		Select("s.logout_at").To(&tmp.LogoutAt).
		Select("s.browser").To(&tmp.Browser).
		Select("s.os").To(&tmp.OS).
		Select("s.ip_address").To(&tmp.IPAddress).
		Select("s.device_model").To(&tmp.Model).
		OrderBy("s.created_at")

	var fetched []accountWithSessionRow
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		fetched = append(fetched, tmp)
	})

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return rowsToDomain(fetched), nil
}

func (s *PostgresStorage) getOne(ctx context.Context, whereClause string, whereArgs ...any) (*auth.Account, error) {
	accounts, err := s.get(ctx, whereClause, whereArgs...)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, auth.ErrAccountNotFound
	}
	return accounts[0], nil
}

func (s *PostgresStorage) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	return s.getOne(ctx, "a.email = ?", email)
}

func (s *PostgresStorage) GetByID(ctx context.Context, accountID string) (*auth.Account, error) {
	return s.getOne(ctx, "a.account_id = ?", accountID)
}

func (s *PostgresStorage) GetBySessionID(ctx context.Context, sessionID string) (*auth.Account, error) {
	return s.getOne(ctx, "s.session_id = ?", sessionID)
}

func (s *PostgresStorage) GetBySessionSecret(ctx context.Context, secret string) (*auth.Account, error) {
	return s.getOne(ctx, "s.secret = ?", secret)
}

func (s *PostgresStorage) Persist(ctx context.Context, a *auth.Account) error {
	stored, err := s.GetByID(ctx, a.AccountID)
	if err != nil {
		return err
	}

	changes, err := pgutil.Changes(stored, a)
	if err != nil {
		return storage.InternalError(err)
	}

	if len(changes) != 0 {
		q := pgutil.MakeUpdateQuery(sqlf.Update("accounts"), changes).
			Where("account_id = ?", a.AccountID)
		res, err := q.ExecAndClose(ctx, s.base.DB)
		if err := pgutil.AssertUpdated(res, err, auth.ErrAccountNotFound); err != nil {
			return fmt.Errorf("can't persist account: %w", err)
		}
	}

	for _, sess := range a.Sessions {
		storedSess := stored.SessionByID(sess.ID)
		if storedSess == nil {
			if err := s.addSession(ctx, a.AccountID, sess); err != nil {
				return err
			}
			continue
		}
		if err := s.persistSession(ctx, storedSess, sess); err != nil {
			return err
		}
	}

	s.base.MarkSeen(a.AccountID, a)
	return nil
}

func (s *PostgresStorage) persistSession(ctx context.Context, stored, changed *auth.Session) error {
	changes, err := pgutil.Changes(stored, changed)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	s.logger.Debug("persisting session", slog.String("session_id", stored.ID), slog.Int("changes", len(changes)))

	q := pgutil.MakeUpdateQuery(sqlf.Update("sessions"), changes).
		Where("session_id = ?", stored.ID)
	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, auth.ErrUnauthorized)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type accountWithSessionRow struct {
	AccountID    string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	SessionID        *string
	Secret           *string
	SessionCreatedAt *time.Time
	ValidUntil       *time.Time
	LogoutAt         *time.Time

	IPAddress *string
	Browser   *string
	OS        *string
	Model     *string
}

func rowsToDomain(rows []accountWithSessionRow) []*auth.Account {
	accounts := make(map[string]*auth.Account)
	var order []string

	for _, row := range rows {
		acc, ok := accounts[row.AccountID]
		if !ok {
			acc = &auth.Account{
				AccountID:    row.AccountID,
				Email:        row.Email,
				PasswordHash: row.PasswordHash,
				CreatedAt:    row.CreatedAt,
				UpdatedAt:    row.UpdatedAt,
				Sessions:     make([]*auth.Session, 0),
			}
			accounts[row.AccountID] = acc
			order = append(order, row.AccountID)
		}

		if row.SessionID == nil {
			continue
		}
		acc.Sessions = append(acc.Sessions, &auth.Session{
			ID:         *row.SessionID,
			Secret:     *row.Secret,
			CreatedAt:  *row.SessionCreatedAt,
			ValidUntil: *row.ValidUntil,
			LogoutAt:   row.LogoutAt,
			Device: auth.Device{
				Browser:   deref(row.Browser),
				OS:        deref(row.OS),
				IPAddress: deref(row.IPAddress),
				Model:     deref(row.Model),
			},
		})
	}

	result := make([]*auth.Account, 0, len(order))
	for _, id := range order {
		result = append(result, accounts[id])
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

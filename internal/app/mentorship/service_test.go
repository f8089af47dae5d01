package mentorshipservice

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/burenotti/go_academy_backend/internal/adapter/storage"
	"github.com/burenotti/go_academy_backend/internal/app/unitofwork"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/mentorship"
	"github.com/burenotti/go_academy_backend/internal/domain/profile"
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
	mentorships map[string]*mentorship.Mentorship
	invites     []*mentorship.Invite
	logs        []*mentorship.LogEntry
	seen        []domain.EventSource
}

func newMemStore() *memStore {
	return &memStore{mentorships: map[string]*mentorship.Mentorship{}}
}

func (m *memStore) Add(_ context.Context, ms *mentorship.Mentorship) error {
	if _, ok := m.mentorships[ms.MentorshipID]; ok {
		return mentorship.ErrMentorshipExists
	}
	m.mentorships[ms.MentorshipID] = ms
	return nil
}

func (m *memStore) GetByID(_ context.Context, mentorshipID string) (*mentorship.Mentorship, error) {
	ms, ok := m.mentorships[mentorshipID]
	if !ok {
		return nil, mentorship.ErrMentorshipNotFound
	}
	return ms, nil
}

func (m *memStore) GetMembers(_ context.Context, mentorshipID string, limit, offset int) ([]*mentorship.Member, error) {
	var members []*mentorship.Member
	for _, inv := range m.invites {
		if inv.MentorshipID != mentorshipID {
			continue
		}
		for _, a := range inv.AcceptedBy {
			members = append(members, &mentorship.Member{StudentID: a.StudentID, JoinedAt: a.AcceptedAt})
		}
	}
	if offset >= len(members) {
		return nil, nil
	}
	members = members[offset:]
	if limit < len(members) {
		members = members[:limit]
	}
	return members, nil
}

func (m *memStore) IsMember(_ context.Context, mentorshipID, studentID string) (bool, error) {
	for _, inv := range m.invites {
		if _, ok := inv.AcceptedBy[studentID]; ok && inv.MentorshipID == mentorshipID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByMentor(_ context.Context, mentorID string, _, _ int) (map[string]*mentorship.Mentorship, error) {
	out := map[string]*mentorship.Mentorship{}
	for id, ms := range m.mentorships {
		if ms.MentorID == mentorID {
			out[id] = ms
		}
	}
	return out, nil
}

func (m *memStore) ListByStudent(ctx context.Context, studentID string, _, _ int) (map[string]*mentorship.Mentorship, error) {
	out := map[string]*mentorship.Mentorship{}
	for id, ms := range m.mentorships {
		if ok, _ := m.IsMember(ctx, id, studentID); ok {
			out[id] = ms
		}
	}
	return out, nil
}

func (m *memStore) AddInvite(_ context.Context, inv *mentorship.Invite) error {
	m.invites = append(m.invites, inv)
	return nil
}

func (m *memStore) GetInviteBySecret(_ context.Context, secret string) (*mentorship.Invite, error) {
	for _, inv := range m.invites {
		if inv.Secret == secret {
			return inv, nil
		}
	}
	return nil, mentorship.ErrInviteNotFound
}

func (m *memStore) PersistInvite(_ context.Context, inv *mentorship.Invite) error {
	m.seen = append(m.seen, inv)
	return nil
}

func (m *memStore) AddLogEntry(_ context.Context, e *mentorship.LogEntry) error {
	m.logs = append(m.logs, e)
	m.seen = append(m.seen, e)
	return nil
}

func (m *memStore) ListLogEntries(_ context.Context, mentorshipID, studentID string) (out []*mentorship.LogEntry, _ error) {
	for _, e := range m.logs {
		if e.MentorshipID == mentorshipID && (studentID == "" || e.StudentID == studentID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CollectEvents() (events []domain.Event) {
	for _, src := range m.seen {
		events = append(events, src.PopEvents()...)
	}
	m.seen = nil
	return events
}

func (m *memStore) Close() error { return nil }

type memProfiles map[string]profile.Profile

func (p memProfiles) GetByID(_ context.Context, profileID string) (profile.Profile, error) {
	found, ok := p[profileID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return found, nil
}

func (memProfiles) Close() error                  { return nil }
func (memProfiles) CollectEvents() []domain.Event { return nil }

type recordingBus struct {
	events []string
}

func (b *recordingBus) PublishEvents(events ...domain.Event) error {
	for _, e := range events {
		b.events = append(b.events, e.Type())
	}
	return nil
}

func setup(store *memStore, bus *recordingBus) *unitofwork.UnitOfWork[*AtomicContext] {
	profiles := memProfiles{
		"mentor":  profile.NewMentor("mentor", "John", "Smith", "USMA", 10, ""),
		"other":   profile.NewMentor("other", "Kate", "Brown", "USAFA", 3, ""),
		"cadet-1": profile.NewStudent("cadet-1", "Ann", "Lee", nil, "female", "USMA", 2027),
		"cadet-2": profile.NewStudent("cadet-2", "Tom", "Fox", nil, "male", "USMA", 2027),
	}
	return unitofwork.New(fakeDB{}, func(ctx context.Context, db storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{ctx: ctx, DBContext: db, MentorshipStorage: store, ProfilesStorage: profiles}, nil
	}, bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_InviteFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	bus := &recordingBus{}
	uow := setup(store, bus)
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.CreateMentorship(ctx, uow, "m1", "cadet-1", "Prep", "")
	assert.ErrorIs(t, err, mentorship.ErrNotMentor)

	m, err := svc.CreateMentorship(ctx, uow, "m1", "mentor", "West Point prep", "")
	require.NoError(t, err)
	assert.Equal(t, "mentor", m.MentorID)

	_, err = svc.CreateInvite(ctx, uow, "m1", "other")
	assert.ErrorIs(t, err, mentorship.ErrNotMentor)

	inv, err := svc.CreateInvite(ctx, uow, "m1", "mentor")
	require.NoError(t, err)
	assert.Len(t, inv.Secret, 8)

	_, err = svc.AcceptInvite(ctx, uow, "other", inv.Secret)
	assert.ErrorIs(t, err, mentorship.ErrNotMember)

	_, err = svc.AcceptInvite(ctx, uow, "cadet-1", "deadbeef-wrong")
	assert.ErrorIs(t, err, mentorship.ErrInviteNotFound)

	accept, err := svc.AcceptInvite(ctx, uow, "cadet-1", inv.Secret)
	require.NoError(t, err)
	assert.Equal(t, "cadet-1", accept.StudentID)

	_, err = svc.AcceptInvite(ctx, uow, "cadet-1", inv.Secret)
	assert.ErrorIs(t, err, mentorship.ErrInviteAlreadyAccepted)

	// one invite serves every student of the mentorship
	_, err = svc.AcceptInvite(ctx, uow, "cadet-2", inv.Secret)
	require.NoError(t, err)

	members, err := svc.GetMembers(ctx, uow, "m1", "mentor", 20, 0)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	assert.Equal(t, []string{mentorship.EventInviteAccepted, mentorship.EventInviteAccepted}, bus.events)
}

func TestService_ExpiredInvite(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uow := setup(store, &recordingBus{})
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.CreateMentorship(ctx, uow, "m1", "mentor", "Prep", "")
	require.NoError(t, err)
	inv, err := svc.CreateInvite(ctx, uow, "m1", "mentor")
	require.NoError(t, err)

	svc.now = func() time.Time { return inv.ValidUntil.Add(time.Minute) }
	_, err = svc.AcceptInvite(ctx, uow, "cadet-1", inv.Secret)
	assert.ErrorIs(t, err, mentorship.ErrInviteExpired)
}

func TestService_Visibility(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uow := setup(store, &recordingBus{})
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.CreateMentorship(ctx, uow, "m1", "mentor", "Prep", "")
	require.NoError(t, err)
	inv, err := svc.CreateInvite(ctx, uow, "m1", "mentor")
	require.NoError(t, err)
	_, err = svc.AcceptInvite(ctx, uow, "cadet-1", inv.Secret)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, uow, "m1", "mentor")
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, uow, "m1", "cadet-1")
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, uow, "m1", "cadet-2")
	assert.ErrorIs(t, err, mentorship.ErrNotMember)
	_, err = svc.GetMembers(ctx, uow, "m1", "other", 20, 0)
	assert.ErrorIs(t, err, mentorship.ErrNotMember)
	_, err = svc.GetByID(ctx, uow, "missing", "mentor")
	assert.ErrorIs(t, err, mentorship.ErrMentorshipNotFound)

	list, err := svc.ListForUser(ctx, uow, "cadet-1", 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "m1", list[0].MentorshipID)

	list, err = svc.ListForUser(ctx, uow, "cadet-2", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_LogEntries(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	uow := setup(store, &recordingBus{})
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := svc.CreateMentorship(ctx, uow, "m1", "mentor", "Prep", "")
	require.NoError(t, err)
	inv, err := svc.CreateInvite(ctx, uow, "m1", "mentor")
	require.NoError(t, err)
	for _, id := range []string{"cadet-1", "cadet-2"} {
		_, err = svc.AcceptInvite(ctx, uow, id, inv.Secret)
		require.NoError(t, err)
	}

	_, err = svc.AddLogEntry(ctx, uow, "l0", "m1", "mentor", LogData{StudentID: "stranger", Notes: "hi"})
	assert.ErrorIs(t, err, mentorship.ErrNotMember)

	_, err = svc.AddLogEntry(ctx, uow, "l0", "m1", "cadet-1", LogData{StudentID: "cadet-1", Notes: "hi"})
	assert.ErrorIs(t, err, mentorship.ErrNotMentor)

	_, err = svc.AddLogEntry(ctx, uow, "l0", "m1", "mentor", LogData{StudentID: "cadet-1", Notes: "  "})
	assert.ErrorIs(t, err, mentorship.ErrEmptyNotes)

	_, err = svc.AddLogEntry(ctx, uow, "l1", "m1", "mentor", LogData{StudentID: "cadet-1", Notes: "Nomination letters"})
	require.NoError(t, err)
	_, err = svc.AddLogEntry(ctx, uow, "l2", "m1", "mentor", LogData{StudentID: "cadet-2", Notes: "Mile time"})
	require.NoError(t, err)

	entries, err := svc.ListLogEntries(ctx, uow, "m1", "mentor", "")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = svc.ListLogEntries(ctx, uow, "m1", "mentor", "cadet-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "l2", entries[0].LogID)

	// a student's filter is ignored, they only see their own entries
	entries, err = svc.ListLogEntries(ctx, uow, "m1", "cadet-1", "cadet-2")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "l1", entries[0].LogID)
}

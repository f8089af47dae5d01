package mentorship

import (
	"errors"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"strings"
	"time"
)

var (
	ErrMentorshipNotFound    = errors.New("mentorship not found")
	ErrMentorshipExists      = errors.New("mentorship already exists")
	ErrNotMentor             = errors.New("only the mentor may do this")
	ErrNotMember             = errors.New("student is not a member of this mentorship")
	ErrInviteExists          = errors.New("invite already exists")
	ErrInviteExpired         = errors.New("invite expired")
	ErrInviteNotFound        = errors.New("invite not found")
	ErrInviteAlreadyAccepted = errors.New("invite already accepted")
	ErrInvalidSecret         = errors.New("invalid invite secret")
	ErrEmptyNotes            = errors.New("log entry notes are empty")
	ErrLogExists             = errors.New("log entry already exists")
)

const (
	EventInviteAccepted = "mentorship.invite_accepted"
	EventLogAdded       = "mentorship.log_added"
)

const InviteTTL = 24 * time.Hour

type Mentorship struct {
	domain.Aggregate
	MentorshipID string
	MentorID     string
	Name         string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func New(mentorshipID, mentorID, name, description string) *Mentorship {
	now := time.Now().UTC()
	return &Mentorship{
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		Name:         name,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type Member struct {
	StudentID string
	Email     string
	FirstName string
	LastName  string
	JoinedAt  time.Time
}

type Invite struct {
	domain.Aggregate
	InviteID     string
	MentorshipID string
	AcceptedBy   map[string]Accept
	Secret       string
	CreatedAt    time.Time
	ValidUntil   time.Time
}

type Accept struct {
	InviteID   string
	StudentID  string
	AcceptedAt time.Time
}

func NewInvite(mentorshipID, inviteID, secret string, now time.Time) *Invite {
	return &Invite{
		InviteID:     inviteID,
		MentorshipID: mentorshipID,
		AcceptedBy:   make(map[string]Accept),
		Secret:       secret,
		CreatedAt:    now,
		ValidUntil:   now.Add(InviteTTL),
	}
}

func (i *Invite) Accept(studentID, secret string, now time.Time) (Accept, error) {
	if accept, ok := i.AcceptedBy[studentID]; ok {
		return accept, ErrInviteAlreadyAccepted
	}
	if now.After(i.ValidUntil) {
		return Accept{}, ErrInviteExpired
	}
	if i.Secret != secret {
		return Accept{}, ErrInvalidSecret
	}

	accept := Accept{
		InviteID:   i.InviteID,
		StudentID:  studentID,
		AcceptedAt: now,
	}
	if i.AcceptedBy == nil {
		i.AcceptedBy = make(map[string]Accept)
	}
	i.AcceptedBy[studentID] = accept
	i.PushEvent(InviteAcceptedEvent{
		At:           now,
		MentorshipID: i.MentorshipID,
		StudentID:    studentID,
	})
	return accept, nil
}

// LogEntry is a note about one mentoring meeting with a student.
type LogEntry struct {
	domain.Aggregate
	LogID        string
	MentorshipID string
	MentorID     string
	StudentID    string
	Topic        string
	Notes        string
	MetAt        time.Time
	CreatedAt    time.Time
}

func NewLogEntry(
	logID string,
	m *Mentorship,
	authorID, studentID, topic, notes string,
	metAt time.Time,
) (*LogEntry, error) {
	if m.MentorID != authorID {
		return nil, ErrNotMentor
	}
	if strings.TrimSpace(notes) == "" {
		return nil, ErrEmptyNotes
	}

	now := time.Now().UTC()
	if metAt.IsZero() {
		metAt = now
	}

	e := &LogEntry{
		LogID:        logID,
		MentorshipID: m.MentorshipID,
		MentorID:     m.MentorID,
		StudentID:    studentID,
		Topic:        topic,
		Notes:        notes,
		MetAt:        metAt,
		CreatedAt:    now,
	}
	e.PushEvent(LogAddedEvent{At: now, MentorshipID: m.MentorshipID, StudentID: studentID})
	return e, nil
}

type InviteAcceptedEvent struct {
	At           time.Time
	MentorshipID string
	StudentID    string
}

func (e InviteAcceptedEvent) Type() string {
	return EventInviteAccepted
}

func (e InviteAcceptedEvent) PublishedAt() time.Time {
	return e.At
}

type LogAddedEvent struct {
	At           time.Time
	MentorshipID string
	StudentID    string
}

func (e LogAddedEvent) Type() string {
	return EventLogAdded
}

func (e LogAddedEvent) PublishedAt() time.Time {
	return e.At
}

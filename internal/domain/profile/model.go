package profile

import (
	"errors"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"time"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

const (
	TypeStudent = "student"
	TypeMentor  = "mentor"
)

const EventStudentUpdated = "student.updated"

type Profile interface {
	Type() string
	ID() string
}

type Student struct {
	domain.Aggregate `diff:"-"`
	UserID           string         `diff:"-"`
	FirstName        string         `diff:"first_name"`
	LastName         string         `diff:"last_name"`
	BirthDate        *time.Time     `diff:"birth_date"`
	Gender           fitness.Gender `diff:"gender"`
	TargetAcademy    string         `diff:"target_academy"`
	GraduationYear   int            `diff:"graduation_year"`
}

func NewStudent(
	userID string,
	firstName string,
	lastName string,
	birthDate *time.Time,
	gender fitness.Gender,
	targetAcademy string,
	graduationYear int,
) *Student {
	return &Student{
		UserID:         userID,
		FirstName:      firstName,
		LastName:       lastName,
		BirthDate:      birthDate,
		Gender:         gender,
		TargetAcademy:  targetAcademy,
		GraduationYear: graduationYear,
	}
}

func (s *Student) ID() string {
	return s.UserID
}

func (*Student) Type() string {
	return TypeStudent
}

// Update replaces the editable fields. A gender change selects another CFA table,
// so it is announced to recompute the student's progress.
func (s *Student) Update(
	firstName, lastName string,
	birthDate *time.Time,
	gender fitness.Gender,
	targetAcademy string,
	graduationYear int,
) {
	genderChanged := s.Gender != gender
	s.FirstName = firstName
	s.LastName = lastName
	s.BirthDate = birthDate
	s.Gender = gender
	s.TargetAcademy = targetAcademy
	s.GraduationYear = graduationYear
	if genderChanged {
		s.PushEvent(StudentUpdatedEvent{At: time.Now().UTC(), StudentID: s.UserID})
	}
}

type Mentor struct {
	domain.Aggregate
	UserID          string
	FirstName       string
	LastName        string
	Organization    string
	YearsExperience int
	Bio             string
}

func NewMentor(
	userID string,
	firstName string,
	lastName string,
	organization string,
	yearsExperience int,
	bio string,
) *Mentor {
	return &Mentor{
		UserID:          userID,
		FirstName:       firstName,
		LastName:        lastName,
		Organization:    organization,
		YearsExperience: yearsExperience,
		Bio:             bio,
	}
}

func (m *Mentor) ID() string {
	return m.UserID
}

func (*Mentor) Type() string {
	return TypeMentor
}

type StudentUpdatedEvent struct {
	At        time.Time
	StudentID string
}

func (e StudentUpdatedEvent) Type() string {
	return EventStudentUpdated
}

func (e StudentUpdatedEvent) PublishedAt() time.Time {
	return e.At
}

func (e StudentUpdatedEvent) Student() string {
	return e.StudentID
}

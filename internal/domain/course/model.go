package course

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"math"
	"time"
)

var (
	ErrCourseExists    = errors.New("course already exists")
	ErrCourseNotFound  = errors.New("course not found")
	ErrGradeExists     = errors.New("grade already exists")
	ErrGradeNotFound   = errors.New("grade not found")
	ErrInvalidCredits  = errors.New("invalid credits")
	ErrInvalidGrade    = errors.New("invalid grade")
	ErrStudentMismatch = errors.New("course belongs to another student")
)

const (
	EventCourseChanged = "course.changed"
	EventGradeRecorded = "grade.recorded"
	EventGradeDeleted  = "grade.deleted"
)

const (
	CategoryCore     = "core"
	CategoryElective = "elective"
	CategoryLanguage = "language"
	CategoryScience  = "science"
	CategoryOther    = "other"
)

type Course struct {
	domain.Aggregate `diff:"-"`
	CourseID         string    `diff:"-"`
	StudentID        string    `diff:"-"`
	Name             string    `diff:"name"`
	Category         string    `diff:"category"`
	Credits          float64   `diff:"credits"`
	IsAP             bool      `diff:"is_ap"`
	CreatedAt        time.Time `diff:"-"`
	UpdatedAt        time.Time `diff:"updated_at"`
}

func New(courseID, studentID, name, category string, credits float64, isAP bool) (*Course, error) {
	if err := validateCredits(credits); err != nil {
		return nil, err
	}
	if category == "" {
		category = CategoryOther
	}

	now := time.Now().UTC()
	c := &Course{
		CourseID:  courseID,
		StudentID: studentID,
		Name:      name,
		Category:  category,
		Credits:   credits,
		IsAP:      isAP,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.PushEvent(ChangedEvent{At: now, StudentID: studentID, CourseID: courseID})
	return c, nil
}

func (c *Course) Update(name, category string, credits float64, isAP bool) error {
	if err := validateCredits(credits); err != nil {
		return err
	}
	c.Name = name
	if category != "" {
		c.Category = category
	}
	c.Credits = credits
	c.IsAP = isAP
	c.UpdatedAt = time.Now().UTC()
	c.PushEvent(ChangedEvent{At: c.UpdatedAt, StudentID: c.StudentID, CourseID: c.CourseID})
	return nil
}

// MarkDeleted records the removal so that dependent scores get recomputed.
func (c *Course) MarkDeleted() {
	c.PushEvent(ChangedEvent{At: time.Now().UTC(), StudentID: c.StudentID, CourseID: c.CourseID})
}

func validateCredits(credits float64) error {
	if math.IsNaN(credits) || credits <= 0 {
		return fmt.Errorf("%w: credits must be positive, got %v", ErrInvalidCredits, credits)
	}
	return nil
}

type Grade struct {
	domain.Aggregate
	GradeID   string
	CourseID  string
	StudentID string
	Title     string
	Score     float64
	MaxScore  float64
	Weight    float64
	Date      time.Time
}

// NewGrade validates a grade entry. Score must lie in [0, maxScore], maxScore must be
// positive and weight must not be negative.
func NewGrade(
	gradeID string,
	c *Course,
	title string,
	score, maxScore, weight float64,
	date time.Time,
) (*Grade, error) {
	if err := ValidateGrade(score, maxScore, weight); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	g := &Grade{
		GradeID:   gradeID,
		CourseID:  c.CourseID,
		StudentID: c.StudentID,
		Title:     title,
		Score:     score,
		MaxScore:  maxScore,
		Weight:    weight,
		Date:      date,
	}
	g.PushEvent(GradeRecordedEvent{
		At:        time.Now().UTC(),
		StudentID: g.StudentID,
		CourseID:  g.CourseID,
		GradeID:   g.GradeID,
	})
	return g, nil
}

func ValidateGrade(score, maxScore, weight float64) error {
	switch {
	case math.IsNaN(maxScore) || maxScore <= 0:
		return fmt.Errorf("%w: max score must be positive", ErrInvalidGrade)
	case math.IsNaN(score) || score < 0 || score > maxScore:
		return fmt.Errorf("%w: score must be between 0 and %v", ErrInvalidGrade, maxScore)
	case math.IsNaN(weight) || weight < 0:
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidGrade)
	}
	return nil
}

func (g *Grade) Percentage() float64 {
	if g.MaxScore <= 0 {
		return 0
	}
	return g.Score / g.MaxScore * 100
}

func (g *Grade) MarkDeleted() {
	g.PushEvent(GradeDeletedEvent{
		At:        time.Now().UTC(),
		StudentID: g.StudentID,
		CourseID:  g.CourseID,
		GradeID:   g.GradeID,
	})
}

type ChangedEvent struct {
	At        time.Time
	StudentID string
	CourseID  string
}

func (e ChangedEvent) Type() string {
	return EventCourseChanged
}

func (e ChangedEvent) PublishedAt() time.Time {
	return e.At
}

func (e ChangedEvent) Student() string {
	return e.StudentID
}

type GradeRecordedEvent struct {
	At        time.Time
	StudentID string
	CourseID  string
	GradeID   string
}

func (e GradeRecordedEvent) Type() string {
	return EventGradeRecorded
}

func (e GradeRecordedEvent) PublishedAt() time.Time {
	return e.At
}

func (e GradeRecordedEvent) Student() string {
	return e.StudentID
}

type GradeDeletedEvent struct {
	At        time.Time
	StudentID string
	CourseID  string
	GradeID   string
}

func (e GradeDeletedEvent) Type() string {
	return EventGradeDeleted
}

func (e GradeDeletedEvent) PublishedAt() time.Time {
	return e.At
}

func (e GradeDeletedEvent) Student() string {
	return e.StudentID
}

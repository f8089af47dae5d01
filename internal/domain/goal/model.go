package goal

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"time"
)

var (
	ErrGoalExists      = errors.New("goal already exists")
	ErrGoalNotFound    = errors.New("goal not found")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidCategory = errors.New("invalid goal category")
)

const (
	EventUpdated = "goal.updated"
	EventDeleted = "goal.deleted"
)

type Category string

const (
	CategoryAcademic    Category = "Academic"
	CategoryFitness     Category = "Fitness"
	CategoryApplication Category = "Application"
	CategoryOther       Category = "Other"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryAcademic, CategoryFitness, CategoryApplication, CategoryOther:
		return c, nil
	case "":
		return CategoryOther, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

type Goal struct {
	domain.Aggregate `diff:"-"`
	GoalID           string     `diff:"-"`
	StudentID        string     `diff:"-"`
	Title            string     `diff:"title"`
	Description      string     `diff:"description"`
	Category         Category   `diff:"category"`
	Progress         int        `diff:"progress"`
	Completed        bool       `diff:"completed"`
	Deadline         *time.Time `diff:"deadline"`
	CreatedAt        time.Time  `diff:"-"`
	UpdatedAt        time.Time  `diff:"updated_at"`
}

func New(
	goalID, studentID string,
	title, description string,
	category Category,
	deadline *time.Time,
) *Goal {
	now := time.Now().UTC()
	g := &Goal{
		GoalID:      goalID,
		StudentID:   studentID,
		Title:       title,
		Description: description,
		Category:    category,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.pushUpdated()
	return g
}

// UpdateProgress sets the progress percentage. Reaching 100 completes the goal,
// dropping below 100 reopens it.
func (g *Goal) UpdateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidProgress, progress)
	}
	g.Progress = progress
	g.Completed = progress == 100
	g.UpdatedAt = time.Now().UTC()
	g.pushUpdated()
	return nil
}

func (g *Goal) Complete() {
	if g.Completed {
		return
	}
	g.Progress = 100
	g.Completed = true
	g.UpdatedAt = time.Now().UTC()
	g.pushUpdated()
}

func (g *Goal) IsOverdue(now time.Time) bool {
	return !g.Completed && g.Deadline != nil && now.After(*g.Deadline)
}

func (g *Goal) MarkDeleted() {
	g.PushEvent(DeletedEvent{At: time.Now().UTC(), StudentID: g.StudentID, GoalID: g.GoalID})
}

func (g *Goal) pushUpdated() {
	g.PushEvent(UpdatedEvent{
		At:        g.UpdatedAt,
		StudentID: g.StudentID,
		GoalID:    g.GoalID,
		Progress:  g.Progress,
		Completed: g.Completed,
	})
}

type UpdatedEvent struct {
	At        time.Time
	StudentID string
	GoalID    string
	Progress  int
	Completed bool
}

func (e UpdatedEvent) Type() string {
	return EventUpdated
}

func (e UpdatedEvent) PublishedAt() time.Time {
	return e.At
}

func (e UpdatedEvent) Student() string {
	return e.StudentID
}

type DeletedEvent struct {
	At        time.Time
	StudentID string
	GoalID    string
}

func (e DeletedEvent) Type() string {
	return EventDeleted
}

func (e DeletedEvent) PublishedAt() time.Time {
	return e.At
}

func (e DeletedEvent) Student() string {
	return e.StudentID
}

package fitness

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain"
	"math"
	"strings"
	"time"
)

var (
	ErrRecordExists   = errors.New("exercise record already exists")
	ErrRecordNotFound = errors.New("exercise record not found")
	ErrInvalidValue   = errors.New("invalid exercise value")
	ErrInvalidGender  = errors.New("invalid gender")
)

const (
	EventRecorded = "exercise.recorded"
	EventDeleted  = "exercise.deleted"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

type ExerciseType string

// Canonical CFA events. Any other label is a custom exercise.
const (
	BasketballThrow ExerciseType = "Basketball Throw"
	PullUps         ExerciseType = "Pull-ups"
	ShuttleRun      ExerciseType = "Shuttle Run"
	Crunches        ExerciseType = "Crunches"
	PushUps         ExerciseType = "Push-ups"
	MileRun         ExerciseType = "1-Mile Run"
)

var CanonicalEvents = []ExerciseType{
	BasketballThrow,
	PullUps,
	ShuttleRun,
	Crunches,
	PushUps,
	MileRun,
}

func (t ExerciseType) IsCanonical() bool {
	for _, e := range CanonicalEvents {
		if e == t {
			return true
		}
	}
	return false
}

type Record struct {
	domain.Aggregate
	RecordID   string
	StudentID  string
	Type       ExerciseType
	Value      float64
	Target     float64
	Unit       string
	RecordedAt time.Time
}

func NewRecord(
	recordID, studentID string,
	exerciseType ExerciseType,
	value, target float64,
	unit string,
	recordedAt time.Time,
) (*Record, error) {
	if strings.TrimSpace(string(exerciseType)) == "" {
		return nil, fmt.Errorf("%w: exercise type is empty", ErrInvalidValue)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return nil, fmt.Errorf("%w: value must be a non-negative number", ErrInvalidValue)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return nil, fmt.Errorf("%w: target must be a non-negative number", ErrInvalidValue)
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	r := &Record{
		RecordID:   recordID,
		StudentID:  studentID,
		Type:       exerciseType,
		Value:      value,
		Target:     target,
		Unit:       unit,
		RecordedAt: recordedAt,
	}
	r.PushEvent(RecordedEvent{
		At:        time.Now().UTC(),
		StudentID: studentID,
		RecordID:  recordID,
		Exercise:  exerciseType,
	})
	return r, nil
}

func (r *Record) MarkDeleted() {
	r.PushEvent(DeletedEvent{
		At:        time.Now().UTC(),
		StudentID: r.StudentID,
		RecordID:  r.RecordID,
	})
}

type RecordedEvent struct {
	At        time.Time
	StudentID string
	RecordID  string
	Exercise  ExerciseType
}

func (e RecordedEvent) Type() string {
	return EventRecorded
}

func (e RecordedEvent) PublishedAt() time.Time {
	return e.At
}

func (e RecordedEvent) Student() string {
	return e.StudentID
}

type DeletedEvent struct {
	At        time.Time
	StudentID string
	RecordID  string
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

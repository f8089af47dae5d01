package progress

import (
	"errors"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("progress snapshot not found")
)

// Snapshot is the stored result of an application progress computation.
// Nil component pointers mean the component had no underlying records.
type Snapshot struct {
	StudentID  string
	Overall    int
	Goals      *float64
	Fitness    *float64
	GPA        *float64
	ComputedAt time.Time
}

func FromReport(studentID string, rep scoring.Report, at time.Time) *Snapshot {
	s := &Snapshot{
		StudentID:  studentID,
		Overall:    rep.Overall,
		ComputedAt: at,
	}
	for _, c := range rep.Components {
		v := c.Value
		switch c.Name {
		case scoring.ComponentGoals:
			s.Goals = &v
		case scoring.ComponentFitness:
			s.Fitness = &v
		case scoring.ComponentGPA:
			s.GPA = &v
		}
	}
	return s
}

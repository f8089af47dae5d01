package scoring

import (
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"math"
)

const (
	ComponentGoals   = "goals"
	ComponentFitness = "fitness"
	ComponentGPA     = "gpa"
)

type ProgressInput struct {
	Goals     []*goal.Goal
	Exercises []*fitness.Record
	Gender    fitness.Gender
	Courses   []*course.Course
	Grades    []*course.Grade
}

type Component struct {
	Name  string
	Value float64
}

type Report struct {
	Overall    int
	Components []Component
	GPA        float64
	CFAScore   float64
}

func (r Report) Component(name string) (Component, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// GoalCompletion is the share of completed goals in percent.
func GoalCompletion(goals []*goal.Goal) (float64, bool) {
	total, done := 0, 0
	for _, g := range goals {
		if g == nil {
			continue
		}
		total++
		if g.Completed {
			done++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(done) / float64(total) * 100, true
}

// NormalizeGPA maps a 4.0 scale GPA onto 0..100.
func NormalizeGPA(gpa float64) float64 {
	return clamp01(gpa/MaxPoints) * 100
}

// ApplicationProgress averages the goal, fitness and GPA components with equal weight.
// A component with no underlying records is left out rather than counted as zero.
func ApplicationProgress(in ProgressInput) Report {
	var rep Report

	if v, ok := GoalCompletion(in.Goals); ok {
		rep.Components = append(rep.Components, Component{Name: ComponentGoals, Value: v})
	}
	if v, ok := cfaScore(in.Exercises, in.Gender); ok {
		rep.CFAScore = v
		rep.Components = append(rep.Components, Component{Name: ComponentFitness, Value: v})
	}
	if v, ok := GradedGPA(in.Courses, in.Grades); ok {
		rep.GPA = v
		rep.Components = append(rep.Components, Component{Name: ComponentGPA, Value: NormalizeGPA(v)})
	}

	if len(rep.Components) == 0 {
		return rep
	}
	var sum float64
	for _, c := range rep.Components {
		sum += c.Value
	}
	rep.Overall = int(math.Round(sum / float64(len(rep.Components))))
	return rep
}

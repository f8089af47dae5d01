package scoring

import (
	"testing"
	"time"

	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalCompletion(t *testing.T) {
	_, ok := GoalCompletion(nil)
	assert.False(t, ok)

	v, ok := GoalCompletion([]*goal.Goal{
		{GoalID: "1", Completed: true},
		{GoalID: "2"},
		{GoalID: "3"},
		{GoalID: "4", Completed: true},
	})
	require.True(t, ok)
	assert.Equal(t, 50.0, v)
}

func TestNormalizeGPA(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeGPA(0))
	assert.InDelta(t, 92.5, NormalizeGPA(3.7), 1e-9)
	assert.Equal(t, 100.0, NormalizeGPA(4.0))
	assert.Equal(t, 100.0, NormalizeGPA(5.2))
	assert.Equal(t, 0.0, NormalizeGPA(-1))
}

func TestApplicationProgress(t *testing.T) {
	courses := []*course.Course{{CourseID: "calc", Credits: 4, IsAP: true}}
	grades := []*course.Grade{grade("calc", 90, 100, 1), grade("calc", 70, 100, 1)}
	goals := []*goal.Goal{{GoalID: "1", Completed: true}, {GoalID: "2"}}

	t.Run("nothing recorded", func(t *testing.T) {
		rep := ApplicationProgress(ProgressInput{Gender: fitness.Male})
		assert.Equal(t, 0, rep.Overall)
		assert.Empty(t, rep.Components)
	})

	t.Run("missing fitness is excluded", func(t *testing.T) {
		rep := ApplicationProgress(ProgressInput{
			Goals:   goals,
			Gender:  fitness.Male,
			Courses: courses,
			Grades:  grades,
		})
		require.Len(t, rep.Components, 2)
		_, hasFitness := rep.Component(ComponentFitness)
		assert.False(t, hasFitness)
		assert.Equal(t, 3.7, rep.GPA)
		// (50 + 92.5) / 2
		assert.Equal(t, 71, rep.Overall)
	})

	t.Run("all components", func(t *testing.T) {
		rep := ApplicationProgress(ProgressInput{
			Goals:     goals,
			Exercises: []*fitness.Record{record(fitness.MileRun, 7.0, day)},
			Gender:    fitness.Male,
			Courses:   courses,
			Grades:    grades,
		})
		require.Len(t, rep.Components, 3)
		c, ok := rep.Component(ComponentFitness)
		require.True(t, ok)
		assert.Equal(t, 50.0, c.Value)
		assert.Equal(t, 50.0, rep.CFAScore)
		// (50 + 50 + 92.5) / 3 = 64.17
		assert.Equal(t, 64, rep.Overall)
	})

	t.Run("courses without grades do not count", func(t *testing.T) {
		rep := ApplicationProgress(ProgressInput{
			Goals:   []*goal.Goal{{GoalID: "1", Completed: true}},
			Courses: courses,
		})
		require.Len(t, rep.Components, 1)
		assert.Equal(t, 100, rep.Overall)
	})

	t.Run("custom exercises only", func(t *testing.T) {
		rep := ApplicationProgress(ProgressInput{
			Exercises: []*fitness.Record{record("Plank", 200, day)},
			Gender:    fitness.Female,
		})
		assert.Empty(t, rep.Components)
		assert.Equal(t, 0, rep.Overall)
	})
}

func engineInput() ProgressInput {
	return ProgressInput{
		Goals: []*goal.Goal{
			{GoalID: "2", Title: "Essay"},
			{GoalID: "1", Title: "Nomination", Completed: true, Progress: 100},
		},
		Exercises: []*fitness.Record{
			record(fitness.MileRun, 7.5, day.Add(time.Hour)),
			record(fitness.PushUps, 40, day.Add(2*time.Hour)),
			record(fitness.PushUps, 60, day),
			record("Plank", 120, day),
		},
		Gender: fitness.Male,
		Courses: []*course.Course{
			{CourseID: "hist", Credits: 3},
			{CourseID: "calc", Credits: 4, IsAP: true},
			{CourseID: "calc", Credits: 1},
		},
		Grades: []*course.Grade{
			{GradeID: "g3", CourseID: "calc", Score: 70, MaxScore: 100, Weight: 1},
			{GradeID: "g1", CourseID: "hist", Score: 45, MaxScore: 50, Weight: 2},
			{GradeID: "g2", CourseID: "calc", Score: -5, MaxScore: 100, Weight: 1},
		},
	}
}

func TestEngine_LeavesInputsUntouched(t *testing.T) {
	in := engineInput()

	_ = CalculateGPA(in.Courses, in.Grades)
	_ = CourseResults(in.Courses, in.Grades)
	_ = CFAScore(in.Exercises, in.Gender)
	_ = Scorecard(in.Exercises, in.Gender)
	_ = LatestByType(in.Exercises)
	_, _ = GoalCompletion(in.Goals)
	_ = ApplicationProgress(in)

	assert.Equal(t, engineInput(), in)
}

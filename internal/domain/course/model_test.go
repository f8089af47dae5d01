package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New("c1", "s1", "Calculus BC", "", 4, true)
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, c.Category)

	events := c.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventCourseChanged, events[0].Type())
	assert.Empty(t, c.PopEvents())

	for _, credits := range []float64{0, -1} {
		_, err := New("c2", "s1", "Study Hall", CategoryElective, credits, false)
		assert.ErrorIs(t, err, ErrInvalidCredits)
	}
}

func TestCourse_Update(t *testing.T) {
	c, err := New("c1", "s1", "Physics", CategoryScience, 3, false)
	require.NoError(t, err)
	c.PopEvents()

	require.NoError(t, c.Update("AP Physics", "", 4, true))
	assert.Equal(t, CategoryScience, c.Category)
	assert.True(t, c.IsAP)
	assert.Len(t, c.PopEvents(), 1)

	assert.ErrorIs(t, c.Update("AP Physics", "", 0, true), ErrInvalidCredits)
	assert.Equal(t, 4.0, c.Credits)
}

func TestValidateGrade(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		maxScore float64
		weight   float64
		wantErr  bool
	}{
		{name: "valid", score: 45, maxScore: 50, weight: 1},
		{name: "perfect", score: 50, maxScore: 50, weight: 1},
		{name: "zero score", score: 0, maxScore: 50, weight: 0},
		{name: "score above max", score: 51, maxScore: 50, weight: 1, wantErr: true},
		{name: "negative score", score: -1, maxScore: 50, weight: 1, wantErr: true},
		{name: "zero max", score: 0, maxScore: 0, weight: 1, wantErr: true},
		{name: "negative max", score: 0, maxScore: -10, weight: 1, wantErr: true},
		{name: "negative weight", score: 10, maxScore: 50, weight: -0.5, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGrade(tt.score, tt.maxScore, tt.weight)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGrade)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewGrade(t *testing.T) {
	c, err := New("c1", "s1", "English", CategoryCore, 1, false)
	require.NoError(t, err)

	g, err := NewGrade("g1", c, "Essay", 18, 20, 2, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "c1", g.CourseID)
	assert.Equal(t, "s1", g.StudentID)
	assert.False(t, g.Date.IsZero())
	assert.Equal(t, 90.0, g.Percentage())

	events := g.PopEvents()
	require.Len(t, events, 1)
	recorded, ok := events[0].(GradeRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, "s1", recorded.Student())

	_, err = NewGrade("g2", c, "Quiz", 25, 20, 1, time.Time{})
	assert.ErrorIs(t, err, ErrInvalidGrade)
}

package fitness

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	g, err := ParseGender(" Female ")
	require.NoError(t, err)
	assert.Equal(t, Female, g)

	g, err = ParseGender("male")
	require.NoError(t, err)
	assert.Equal(t, Male, g)

	_, err = ParseGender("x")
	assert.ErrorIs(t, err, ErrInvalidGender)
}

func TestExerciseType_IsCanonical(t *testing.T) {
	for _, e := range CanonicalEvents {
		assert.True(t, e.IsCanonical(), string(e))
	}
	assert.False(t, ExerciseType("Plank").IsCanonical())
	assert.False(t, ExerciseType("pull-ups").IsCanonical())
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2026, 2, 1, 7, 0, 0, 0, time.UTC)
	r, err := NewRecord("r1", "s1", MileRun, 6.8, 6.5, "min", at)
	require.NoError(t, err)
	assert.Equal(t, at, r.RecordedAt)

	events := r.PopEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventRecorded, events[0].Type())

	_, err = NewRecord("r2", "s1", "", 1, 0, "", at)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = NewRecord("r3", "s1", PushUps, -3, 0, "reps", at)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = NewRecord("r4", "s1", PushUps, math.NaN(), 0, "reps", at)
	assert.ErrorIs(t, err, ErrInvalidValue)

	r, err = NewRecord("r5", "s1", "Plank", 90, 120, "sec", time.Time{})
	require.NoError(t, err)
	assert.False(t, r.RecordedAt.IsZero())
}

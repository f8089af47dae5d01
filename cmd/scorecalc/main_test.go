package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `
gender: male
courses:
  - id: calc
    name: Calculus
    credits: 1
grades:
  - course_id: calc
    score: 95
    max_score: 100
exercises:
  - type: Pull-ups
    value: 8
    recorded_at: 2026-03-01T10:00:00Z
goals:
  - title: Visit campus
    category: Application
    completed: true
  - title: Write essay
    category: Application
    progress: 40
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScorecalc_JSON(t *testing.T) {
	out, err := run(t, sampleSnapshot, "--json")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Equal(t, "male", rep.Gender)
	assert.InDelta(t, 4.0, rep.GPA, 1e-9)
	// (8-3)/(18-3) of the male pull-up range
	assert.Equal(t, 33.0, rep.CFAScore)
	// goals 50, fitness 33, gpa 100
	assert.Equal(t, 61, rep.Overall)
	require.Len(t, rep.Courses, 1)
	assert.Equal(t, "Calculus", rep.Courses[0].Name)
	assert.Equal(t, "A", rep.Courses[0].Letter)
	require.Len(t, rep.Events, 1)
	assert.Equal(t, "Needs Work", rep.Events[0].Status)
}

func TestScorecalc_GenderOverride(t *testing.T) {
	out, err := run(t, sampleSnapshot, "--json", "--gender", "female")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, string(fitness.Female), rep.Gender)
	assert.Equal(t, 100.0, rep.CFAScore)
	assert.Equal(t, 83, rep.Overall)
}

func TestScorecalc_TextFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o600))

	out, err := run(t, "", path)
	require.NoError(t, err)
	assert.Contains(t, out, "GPA:")
	assert.Contains(t, out, "4.00")
	assert.Contains(t, out, "61%")
	assert.Contains(t, out, "Calculus")
	assert.Contains(t, out, "Pull-ups")
}

func TestScorecalc_EmptySnapshot(t *testing.T) {
	out, err := run(t, "", "--json", "--gender", "male")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 0, rep.Overall)
	assert.Empty(t, rep.Courses)
}

func TestScorecalc_NoGenderWithoutExercises(t *testing.T) {
	out, err := run(t, `
courses:
  - id: calc
    credits: 1
grades:
  - course_id: calc
    score: 95
    max_score: 100
`, "--json")
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Empty(t, rep.Gender)
	assert.InDelta(t, 4.0, rep.GPA, 1e-9)
	assert.Equal(t, 100, rep.Overall)
}

func TestScorecalc_Errors(t *testing.T) {
	_, err := run(t, "gender: robot\n")
	assert.ErrorIs(t, err, fitness.ErrInvalidGender)

	_, err = run(t, `
exercises:
  - type: Pull-ups
    value: 8
`)
	assert.ErrorIs(t, err, fitness.ErrInvalidGender)

	_, err = run(t, `
gender: male
grades:
  - course_id: missing
    score: 1
    max_score: 2
`)
	assert.ErrorIs(t, err, course.ErrCourseNotFound)

	_, err = run(t, `
gender: male
courses:
  - id: c1
    credits: 1
grades:
  - course_id: c1
    score: 120
    max_score: 100
`)
	assert.ErrorIs(t, err, course.ErrInvalidGrade)

	_, err = run(t, "unknown_field: 1\n", "--gender", "male")
	assert.Error(t, err)
}

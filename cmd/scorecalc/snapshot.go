package main

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/burenotti/go_academy_backend/internal/domain/goal"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
	"io"
	"strconv"
	"time"
)

const snapshotStudent = "local"

// snapshot is the YAML document scorecalc reads.
type snapshot struct {
	Gender string `yaml:"gender"`

	Courses []struct {
		ID       string  `yaml:"id"`
		Name     string  `yaml:"name"`
		Category string  `yaml:"category"`
		Credits  float64 `yaml:"credits"`
		IsAP     bool    `yaml:"is_ap"`
	} `yaml:"courses"`

	Grades []struct {
		CourseID string    `yaml:"course_id"`
		Title    string    `yaml:"title"`
		Score    float64   `yaml:"score"`
		MaxScore float64   `yaml:"max_score"`
		Weight   *float64  `yaml:"weight"`
		Date     time.Time `yaml:"date"`
	} `yaml:"grades"`

	Exercises []struct {
		Type       string    `yaml:"type"`
		Value      float64   `yaml:"value"`
		RecordedAt time.Time `yaml:"recorded_at"`
	} `yaml:"exercises"`

	Goals []struct {
		Title     string `yaml:"title"`
		Category  string `yaml:"category"`
		Progress  int    `yaml:"progress"`
		Completed bool   `yaml:"completed"`
	} `yaml:"goals"`
}

func readSnapshot(r io.Reader) (*snapshot, error) {
	var snap snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// input validates the snapshot through the domain constructors and builds the
// progress engine input. A non-empty gender overrides the one in the file. Gender
// may only be omitted when there are no exercises to score.
func (s *snapshot) input(gender string) (scoring.ProgressInput, error) {
	var in scoring.ProgressInput

	if gender == "" {
		gender = s.Gender
	}
	if gender != "" || len(s.Exercises) > 0 {
		g, err := fitness.ParseGender(gender)
		if err != nil {
			return in, err
		}
		in.Gender = g
	}

	byID := make(map[string]*course.Course, len(s.Courses))
	for i, c := range s.Courses {
		id := lo.Ternary(c.ID != "", c.ID, strconv.Itoa(i+1))
		if _, ok := byID[id]; ok {
			continue
		}
		parsed, err := course.New(id, snapshotStudent, c.Name, c.Category, c.Credits, c.IsAP)
		if err != nil {
			return in, fmt.Errorf("course %s: %w", id, err)
		}
		byID[id] = parsed
		in.Courses = append(in.Courses, parsed)
	}

	for i, gr := range s.Grades {
		c, ok := byID[gr.CourseID]
		if !ok {
			return in, fmt.Errorf("grade %d: %w: %q", i+1, course.ErrCourseNotFound, gr.CourseID)
		}
		parsed, err := course.NewGrade(strconv.Itoa(i+1), c, gr.Title, gr.Score, gr.MaxScore, lo.FromPtrOr(gr.Weight, 1), gr.Date)
		if err != nil {
			return in, fmt.Errorf("grade %d: %w", i+1, err)
		}
		in.Grades = append(in.Grades, parsed)
	}

	for i, e := range s.Exercises {
		r, err := fitness.NewRecord(strconv.Itoa(i+1), snapshotStudent, fitness.ExerciseType(e.Type), e.Value, 0, "", e.RecordedAt)
		if err != nil {
			return in, fmt.Errorf("exercise %d: %w", i+1, err)
		}
		in.Exercises = append(in.Exercises, r)
	}

	for i, item := range s.Goals {
		category, err := goal.ParseCategory(item.Category)
		if err != nil {
			return in, fmt.Errorf("goal %d: %w", i+1, err)
		}
		parsed := goal.New(strconv.Itoa(i+1), snapshotStudent, item.Title, "", category, nil)
		if item.Completed {
			parsed.Complete()
		} else if err := parsed.UpdateProgress(item.Progress); err != nil {
			return in, fmt.Errorf("goal %d: %w", i+1, err)
		}
		in.Goals = append(in.Goals, parsed)
	}

	return in, nil
}

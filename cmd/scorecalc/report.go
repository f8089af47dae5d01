package main

import (
	"encoding/json"
	"fmt"
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/burenotti/go_academy_backend/internal/domain/scoring"
	"github.com/samber/lo"
	"io"
	"text/tabwriter"
)

type courseLine struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Letter  string  `json:"letter"`
	Points  float64 `json:"points"`
	Graded  bool    `json:"graded"`
}

type eventLine struct {
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Score  int     `json:"score"`
	Status string  `json:"status"`
}

type report struct {
	Gender     string             `json:"gender"`
	GPA        float64            `json:"gpa"`
	CFAScore   float64            `json:"cfa_score"`
	Overall    int                `json:"overall"`
	Components map[string]float64 `json:"components"`
	Courses    []courseLine       `json:"courses"`
	Events     []eventLine        `json:"events"`
}

func buildReport(in scoring.ProgressInput) report {
	rep := scoring.ApplicationProgress(in)

	names := lo.SliceToMap(in.Courses, func(c *course.Course) (string, string) {
		return c.CourseID, c.Name
	})

	return report{
		Gender:   string(in.Gender),
		GPA:      rep.GPA,
		CFAScore: rep.CFAScore,
		Overall:  rep.Overall,
		Components: lo.SliceToMap(rep.Components, func(c scoring.Component) (string, float64) {
			return c.Name, c.Value
		}),
		Courses: lo.Map(scoring.CourseResults(in.Courses, in.Grades), func(r scoring.CourseResult, _ int) courseLine {
			return courseLine{
				Name:    names[r.CourseID],
				Average: r.Average,
				Letter:  string(r.Letter),
				Points:  r.Points,
				Graded:  r.Graded,
			}
		}),
		Events: lo.Map(scoring.Scorecard(in.Exercises, in.Gender), func(e scoring.EventResult, _ int) eventLine {
			return eventLine{
				Type:   string(e.Type),
				Value:  e.Record.Value,
				Score:  e.Progress.Score,
				Status: string(e.Status),
			}
		}),
	}
}

func (r report) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Gender:\t%s\n", r.Gender)
	fmt.Fprintf(tw, "GPA:\t%.2f\n", r.GPA)
	fmt.Fprintf(tw, "CFA score:\t%.1f\n", r.CFAScore)
	fmt.Fprintf(tw, "Application progress:\t%d%%\n", r.Overall)

	if len(r.Courses) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "COURSE\tAVERAGE\tLETTER\tPOINTS")
		for _, c := range r.Courses {
			if !c.Graded {
				fmt.Fprintf(tw, "%s\t-\t-\t-\n", c.Name)
				continue
			}
			fmt.Fprintf(tw, "%s\t%.1f\t%s\t%.1f\n", c.Name, c.Average, c.Letter, c.Points)
		}
	}

	if len(r.Events) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "EVENT\tVALUE\tSCORE\tSTATUS")
		for _, e := range r.Events {
			fmt.Fprintf(tw, "%s\t%g\t%d\t%s\n", e.Type, e.Value, e.Score, e.Status)
		}
	}
	return tw.Flush()
}

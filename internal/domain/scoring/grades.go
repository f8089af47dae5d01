// Package scoring turns course, fitness and goal records into normalized scores.
//
// Every function here is pure: inputs are read, never modified, and degenerate input
// (no records, zero weights, unknown labels) resolves to a zero value instead of an error.
package scoring

import (
	"github.com/burenotti/go_academy_backend/internal/domain/course"
	"github.com/samber/lo"
	"math"
)

type Letter string

const (
	APlus  Letter = "A+"
	A      Letter = "A"
	AMinus Letter = "A-"
	BPlus  Letter = "B+"
	B      Letter = "B"
	BMinus Letter = "B-"
	CPlus  Letter = "C+"
	C      Letter = "C"
	CMinus Letter = "C-"
	DPlus  Letter = "D+"
	D      Letter = "D"
	DMinus Letter = "D-"
	F      Letter = "F"
)

// APBonus is added to the base points of an AP course before clamping to MaxPoints.
const (
	APBonus   = 1.0
	MaxPoints = 4.0
)

// Inclusive lower bounds, highest first.
var letterThresholds = []struct {
	min    float64
	letter Letter
}{
	{97, APlus},
	{93, A},
	{90, AMinus},
	{87, BPlus},
	{83, B},
	{80, BMinus},
	{77, CPlus},
	{73, C},
	{70, CMinus},
	{67, DPlus},
	{63, D},
	{60, DMinus},
}

var letterPoints = map[Letter]float64{
	APlus:  4.0,
	A:      4.0,
	AMinus: 3.7,
	BPlus:  3.3,
	B:      3.0,
	BMinus: 2.7,
	CPlus:  2.3,
	C:      2.0,
	CMinus: 1.7,
	DPlus:  1.3,
	D:      1.0,
	DMinus: 0.7,
	F:      0.0,
}

// CourseAverage returns the weight-normalized mean percentage of the grades.
// Grades that course.ValidateGrade rejects are ignored.
func CourseAverage(grades []*course.Grade) float64 {
	var sum, weights float64
	for _, g := range grades {
		if g == nil || course.ValidateGrade(g.Score, g.MaxScore, g.Weight) != nil {
			continue
		}
		sum += g.Score / g.MaxScore * 100 * g.Weight
		weights += g.Weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

func PercentageToLetter(percentage float64) Letter {
	for _, t := range letterThresholds {
		if percentage >= t.min {
			return t.letter
		}
	}
	return F
}

// LetterToPoints maps a letter to grade points. Unknown letters are worth nothing.
func LetterToPoints(letter Letter, isAP bool) float64 {
	points, ok := letterPoints[letter]
	if !ok {
		return 0
	}
	if isAP {
		points = math.Min(points+APBonus, MaxPoints)
	}
	return points
}

// CourseResult is the per-course breakdown behind a GPA.
type CourseResult struct {
	CourseID string
	Average  float64
	Letter   Letter
	Points   float64
	Credits  float64
	Graded   bool
}

// CourseContribution scores one course from its grades. Grades of other courses and
// invalid grades are ignored. A course without valid grades is reported as not graded.
func CourseContribution(c *course.Course, grades []*course.Grade) CourseResult {
	own := lo.Filter(grades, func(g *course.Grade, _ int) bool {
		return g != nil && g.CourseID == c.CourseID && course.ValidateGrade(g.Score, g.MaxScore, g.Weight) == nil
	})
	res := CourseResult{CourseID: c.CourseID, Credits: c.Credits}
	if len(own) == 0 {
		return res
	}
	res.Graded = true
	res.Average = CourseAverage(own)
	res.Letter = PercentageToLetter(res.Average)
	res.Points = LetterToPoints(res.Letter, c.IsAP)
	return res
}

// CourseResults scores every course, keeping the input order of courses.
func CourseResults(courses []*course.Course, grades []*course.Grade) []CourseResult {
	byCourse := lo.GroupBy(
		lo.Filter(grades, func(g *course.Grade, _ int) bool { return g != nil }),
		func(g *course.Grade) string { return g.CourseID },
	)
	results := make([]CourseResult, 0, len(courses))
	for _, c := range courses {
		if c == nil {
			continue
		}
		results = append(results, CourseContribution(c, byCourse[c.CourseID]))
	}
	return results
}

// GradedGPA is CalculateGPA that also reports whether any course contributed.
func GradedGPA(courses []*course.Course, grades []*course.Grade) (float64, bool) {
	seen := make(map[string]struct{}, len(courses))
	var totalPoints, totalCredits float64

	for _, r := range CourseResults(courses, grades) {
		if _, dup := seen[r.CourseID]; dup {
			continue
		}
		seen[r.CourseID] = struct{}{}
		if !r.Graded || !(r.Credits > 0) {
			continue
		}
		totalPoints += r.Points * r.Credits
		totalCredits += r.Credits
	}

	if totalCredits == 0 {
		return 0, false
	}
	return round2(totalPoints / totalCredits), true
}

// CalculateGPA returns the credit-weighted grade point average rounded to two decimals.
// Courses without grades and courses without positive credits are left out entirely.
func CalculateGPA(courses []*course.Course, grades []*course.Grade) float64 {
	gpa, _ := GradedGPA(courses, grades)
	return gpa
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

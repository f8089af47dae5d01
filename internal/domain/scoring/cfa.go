package scoring

import (
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"math"
)

type Status string

const (
	StatusExcellent    Status = "Excellent"
	StatusGood         Status = "Good"
	StatusNeedsWork    Status = "Needs Work"
	StatusBelowMinimum Status = "Below Minimum"
	StatusUnknown      Status = "Unknown"
)

type Progress struct {
	Percentage float64
	Score      int
}

// ratio is the unclamped position of value between the standard's bounds:
// 0 at the minimum standard, 1 at the competitive end. For reversed events the
// minimum standard is Max and the competitive end is Min.
func ratio(s Standard, value float64) (float64, bool) {
	span := s.Max - s.Min
	if !(span > 0) || math.IsNaN(value) {
		return 0, false
	}
	if s.IsReversed {
		return (s.Max - value) / span, true
	}
	return (value - s.Min) / span, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ExerciseProgress scores a single record against the gender's standards.
// Records without a standard score zero.
func ExerciseProgress(r *fitness.Record, gender fitness.Gender) Progress {
	if r == nil {
		return Progress{}
	}
	s, ok := lookup(gender, r.Type)
	if !ok {
		return Progress{}
	}
	return progressFor(s, r.Value)
}

func progressFor(s Standard, value float64) Progress {
	x, ok := ratio(s, value)
	if !ok {
		return Progress{}
	}
	pct := clamp01(x) * 100
	return Progress{Percentage: pct, Score: int(math.Round(pct))}
}

// Classify places a record into a status band, using the same orientation as
// ExerciseProgress.
func Classify(r *fitness.Record, gender fitness.Gender) Status {
	if r == nil {
		return StatusUnknown
	}
	s, ok := lookup(gender, r.Type)
	if !ok {
		return StatusUnknown
	}
	return classify(s, r.Value)
}

func classify(s Standard, value float64) Status {
	x, ok := ratio(s, value)
	switch {
	case !ok:
		return StatusUnknown
	case x >= 1:
		return StatusExcellent
	case x >= 0.5:
		return StatusGood
	case x >= 0:
		return StatusNeedsWork
	default:
		return StatusBelowMinimum
	}
}

// LatestByType keeps the most recent record of every exercise type. Ties on
// RecordedAt keep the record that comes later in the input.
func LatestByType(records []*fitness.Record) map[fitness.ExerciseType]*fitness.Record {
	latest := make(map[fitness.ExerciseType]*fitness.Record)
	for _, r := range records {
		if r == nil {
			continue
		}
		if cur, ok := latest[r.Type]; !ok || !r.RecordedAt.Before(cur.RecordedAt) {
			latest[r.Type] = r
		}
	}
	return latest
}

type EventResult struct {
	Type     fitness.ExerciseType
	Record   *fitness.Record
	Standard Standard
	Progress Progress
	Status   Status
}

// Scorecard scores the latest record of each canonical event, in canonical order.
// Events without a record are omitted.
func Scorecard(records []*fitness.Record, gender fitness.Gender) []EventResult {
	latest := LatestByType(records)
	out := make([]EventResult, 0, len(fitness.CanonicalEvents))
	for _, t := range fitness.CanonicalEvents {
		r, ok := latest[t]
		if !ok {
			continue
		}
		s, ok := lookup(gender, t)
		if !ok {
			continue
		}
		out = append(out, EventResult{
			Type:     t,
			Record:   r,
			Standard: s,
			Progress: progressFor(s, r.Value),
			Status:   classify(s, r.Value),
		})
	}
	return out
}

// CFAScore is the mean score of the canonical events present. Missing events
// do not count as zero; no events means a score of zero.
func CFAScore(records []*fitness.Record, gender fitness.Gender) float64 {
	score, _ := cfaScore(records, gender)
	return score
}

func cfaScore(records []*fitness.Record, gender fitness.Gender) (float64, bool) {
	card := Scorecard(records, gender)
	if len(card) == 0 {
		return 0, false
	}
	total := 0
	for _, e := range card {
		total += e.Progress.Score
	}
	return float64(total) / float64(len(card)), true
}

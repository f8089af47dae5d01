package scoring

import (
	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
)

// Standard bounds one CFA event. For reversed events (timed runs) Min is the better,
// faster value and Max the slowest value that still scores.
type Standard struct {
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	Unit       string  `json:"unit" yaml:"unit"`
	IsReversed bool    `json:"is_reversed" yaml:"is_reversed"`
}

func (s Standard) Midpoint() float64 {
	return (s.Min + s.Max) / 2
}

type StandardTable map[fitness.ExerciseType]Standard

var maleStandards = StandardTable{
	fitness.BasketballThrow: {Min: 40, Max: 85, Unit: "ft"},
	fitness.PullUps:         {Min: 3, Max: 18, Unit: "reps"},
	fitness.ShuttleRun:      {Min: 8.1, Max: 10.5, Unit: "sec", IsReversed: true},
	fitness.Crunches:        {Min: 40, Max: 95, Unit: "reps"},
	fitness.PushUps:         {Min: 30, Max: 75, Unit: "reps"},
	fitness.MileRun:         {Min: 5.5, Max: 8.5, Unit: "min", IsReversed: true},
}

var femaleStandards = StandardTable{
	fitness.BasketballThrow: {Min: 25, Max: 55, Unit: "ft"},
	fitness.PullUps:         {Min: 1, Max: 8, Unit: "reps"},
	fitness.ShuttleRun:      {Min: 9.0, Max: 11.5, Unit: "sec", IsReversed: true},
	fitness.Crunches:        {Min: 40, Max: 95, Unit: "reps"},
	fitness.PushUps:         {Min: 15, Max: 50, Unit: "reps"},
	fitness.MileRun:         {Min: 6.5, Max: 10.0, Unit: "min", IsReversed: true},
}

// Standards returns a copy of the table for the given gender. Unknown genders
// get an empty table, so every exercise scores zero.
func Standards(g fitness.Gender) StandardTable {
	var src StandardTable
	switch g {
	case fitness.Male:
		src = maleStandards
	case fitness.Female:
		src = femaleStandards
	default:
		return StandardTable{}
	}

	out := make(StandardTable, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func lookup(g fitness.Gender, t fitness.ExerciseType) (Standard, bool) {
	switch g {
	case fitness.Male:
		s, ok := maleStandards[t]
		return s, ok
	case fitness.Female:
		s, ok := femaleStandards[t]
		return s, ok
	default:
		return Standard{}, false
	}
}

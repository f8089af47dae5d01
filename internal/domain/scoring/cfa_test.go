package scoring

import (
	"testing"
	"time"

	"github.com/burenotti/go_academy_backend/internal/domain/fitness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func record(t fitness.ExerciseType, value float64, at time.Time) *fitness.Record {
	return &fitness.Record{RecordID: string(t) + at.String(), Type: t, Value: value, RecordedAt: at}
}

func TestProgressFor_Reversed(t *testing.T) {
	s := Standard{Min: 7.0, Max: 9.0, Unit: "min", IsReversed: true}

	tests := []struct {
		name    string
		value   float64
		wantPct float64
	}{
		{name: "at min is full marks", value: 7.0, wantPct: 100},
		{name: "below min clamps to full marks", value: 6.2, wantPct: 100},
		{name: "midway", value: 8.0, wantPct: 50},
		{name: "at max is zero", value: 9.0, wantPct: 0},
		{name: "beyond max clamps to zero", value: 11.0, wantPct: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := progressFor(s, tt.value)
			assert.InDelta(t, tt.wantPct, p.Percentage, 1e-9)
			assert.Equal(t, int(tt.wantPct), p.Score)
		})
	}
}

func TestProgressFor_Normal(t *testing.T) {
	s := Standard{Min: 30, Max: 75, Unit: "reps"}

	assert.Equal(t, Progress{Percentage: 0, Score: 0}, progressFor(s, 10))
	assert.Equal(t, Progress{Percentage: 0, Score: 0}, progressFor(s, 30))
	assert.Equal(t, Progress{Percentage: 100, Score: 100}, progressFor(s, 75))
	assert.Equal(t, Progress{Percentage: 100, Score: 100}, progressFor(s, 90))

	p := progressFor(s, 40)
	assert.InDelta(t, 22.222, p.Percentage, 1e-3)
	assert.Equal(t, 22, p.Score)
}

func TestProgressFor_DegenerateStandard(t *testing.T) {
	assert.Equal(t, Progress{}, progressFor(Standard{Min: 5, Max: 5}, 5))
	assert.Equal(t, Progress{}, progressFor(Standard{Min: 9, Max: 5}, 7))
}

func TestExerciseProgress(t *testing.T) {
	t.Run("custom exercise scores zero", func(t *testing.T) {
		p := ExerciseProgress(record("Plank", 120, day), fitness.Male)
		assert.Equal(t, Progress{Percentage: 0, Score: 0}, p)
	})

	t.Run("unknown gender scores zero", func(t *testing.T) {
		assert.Equal(t, Progress{}, ExerciseProgress(record(fitness.PushUps, 75, day), "other"))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.Equal(t, Progress{}, ExerciseProgress(nil, fitness.Male))
	})

	t.Run("tables differ per gender", func(t *testing.T) {
		r := record(fitness.PushUps, 50, day)
		male := ExerciseProgress(r, fitness.Male)
		female := ExerciseProgress(r, fitness.Female)
		assert.Equal(t, 100, female.Score)
		assert.Less(t, male.Score, female.Score)
	})

	t.Run("mile run is reversed", func(t *testing.T) {
		fast := ExerciseProgress(record(fitness.MileRun, 5.5, day), fitness.Male)
		slow := ExerciseProgress(record(fitness.MileRun, 8.5, day), fitness.Male)
		assert.Equal(t, 100, fast.Score)
		assert.Equal(t, 0, slow.Score)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  *fitness.Record
		want Status
	}{
		{name: "push-ups at max", rec: record(fitness.PushUps, 75, day), want: StatusExcellent},
		{name: "push-ups beyond max", rec: record(fitness.PushUps, 80, day), want: StatusExcellent},
		{name: "push-ups past midpoint", rec: record(fitness.PushUps, 53, day), want: StatusGood},
		{name: "push-ups at min", rec: record(fitness.PushUps, 30, day), want: StatusNeedsWork},
		{name: "push-ups below min", rec: record(fitness.PushUps, 29, day), want: StatusBelowMinimum},
		{name: "mile at best time", rec: record(fitness.MileRun, 5.5, day), want: StatusExcellent},
		{name: "mile at midpoint", rec: record(fitness.MileRun, 7.0, day), want: StatusGood},
		{name: "mile at slowest standard", rec: record(fitness.MileRun, 8.5, day), want: StatusNeedsWork},
		{name: "mile too slow", rec: record(fitness.MileRun, 9.0, day), want: StatusBelowMinimum},
		{name: "custom", rec: record("Plank", 9.0, day), want: StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, fitness.Male))
		})
	}
}

func TestClassify_AgreesWithProgress(t *testing.T) {
	for _, ev := range fitness.CanonicalEvents {
		s := Standards(fitness.Female)[ev]
		for _, v := range []float64{s.Min, s.Midpoint(), s.Max} {
			r := record(ev, v, day)
			p := ExerciseProgress(r, fitness.Female)
			switch Classify(r, fitness.Female) {
			case StatusExcellent:
				assert.Equal(t, 100, p.Score, "%s at %v", ev, v)
			case StatusGood:
				assert.GreaterOrEqual(t, p.Score, 50, "%s at %v", ev, v)
			case StatusNeedsWork:
				assert.Less(t, p.Score, 50, "%s at %v", ev, v)
			default:
				t.Fatalf("%s at %v: unexpected status", ev, v)
			}
		}
	}
}

func TestLatestByType(t *testing.T) {
	older := record(fitness.PushUps, 75, day)
	newer := record(fitness.PushUps, 30, day.Add(24*time.Hour))
	mile := record(fitness.MileRun, 7, day)

	latest := LatestByType([]*fitness.Record{newer, mile, older, nil})
	require.Len(t, latest, 2)
	assert.Same(t, newer, latest[fitness.PushUps])
	assert.Same(t, mile, latest[fitness.MileRun])
}

func TestCFAScore(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, CFAScore(nil, fitness.Male))
		assert.Equal(t, 0.0, CFAScore([]*fitness.Record{}, fitness.Female))
	})

	t.Run("only custom exercises", func(t *testing.T) {
		assert.Equal(t, 0.0, CFAScore([]*fitness.Record{record("Plank", 300, day)}, fitness.Male))
	})

	t.Run("latest record per event wins", func(t *testing.T) {
		records := []*fitness.Record{
			record(fitness.PushUps, 75, day),                   // superseded, would score 100
			record(fitness.PushUps, 30, day.Add(48*time.Hour)), // 0
			record(fitness.MileRun, 7.0, day),                  // 50
			record("Plank", 300, day),                          // ignored
		}
		assert.Equal(t, 25.0, CFAScore(records, fitness.Male))
	})

	t.Run("missing events are not zeros", func(t *testing.T) {
		records := []*fitness.Record{record(fitness.PullUps, 18, day)}
		assert.Equal(t, 100.0, CFAScore(records, fitness.Male))
	})

	t.Run("mean is not rounded", func(t *testing.T) {
		records := []*fitness.Record{
			record(fitness.PullUps, 8, day),  // 33
			record(fitness.PushUps, 30, day), // 0
		}
		assert.InDelta(t, 16.5, CFAScore(records, fitness.Male), 1e-9)
	})

	t.Run("input is not modified", func(t *testing.T) {
		records := []*fitness.Record{
			record(fitness.Crunches, 95, day),
			record(fitness.Crunches, 40, day.Add(time.Hour)),
		}
		_ = CFAScore(records, fitness.Male)
		assert.Equal(t, 95.0, records[0].Value)
		assert.Equal(t, 40.0, records[1].Value)
		assert.Len(t, records, 2)
	})
}

func TestScorecard_CanonicalOrder(t *testing.T) {
	records := []*fitness.Record{
		record(fitness.MileRun, 6, day),
		record(fitness.BasketballThrow, 60, day),
		record(fitness.ShuttleRun, 9, day),
	}
	card := Scorecard(records, fitness.Male)
	require.Len(t, card, 3)
	assert.Equal(t, fitness.BasketballThrow, card[0].Type)
	assert.Equal(t, fitness.ShuttleRun, card[1].Type)
	assert.Equal(t, fitness.MileRun, card[2].Type)
}

func TestStandards_ReturnsCopy(t *testing.T) {
	table := Standards(fitness.Male)
	table[fitness.PushUps] = Standard{Min: 0, Max: 1}

	assert.Equal(t, 30.0, Standards(fitness.Male)[fitness.PushUps].Min)
	assert.Empty(t, Standards("unknown"))
	assert.Len(t, Standards(fitness.Female), len(fitness.CanonicalEvents))
}

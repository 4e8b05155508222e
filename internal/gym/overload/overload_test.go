package overload_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/overload"
)

func plan() gym.Plan {
	return gym.Plan{
		ID:    "p1",
		Title: "Strength",
		Workouts: []gym.Workout{
			{
				ID:   "w1",
				Name: "Workout A",
				Items: []gym.PlanExercise{
					{ExerciseID: "bench", Sets: 3, RepMin: 8, RepMax: 12, CurrentWeightKg: 50, StepKg: 2.5, RequireAllSets: true},
					{ExerciseID: "row", Sets: 2, RepMin: 6, RepMax: 10, CurrentWeightKg: 40, StepKg: 5},
				},
			},
			{
				ID:    "w2",
				Name:  "Workout B",
				Items: []gym.PlanExercise{{ExerciseID: "bench", Sets: 3, RepMin: 8, CurrentWeightKg: 70, StepKg: 2.5}},
			},
		},
	}
}

func reps(exerciseID string, rs ...int) gym.PerformedExercise {
	sets := make([]gym.PerformedSet, 0, len(rs))
	for _, r := range rs {
		sets = append(sets, gym.PerformedSet{Reps: r, WeightKg: 50})
	}
	return gym.PerformedExercise{ExerciseID: exerciseID, Sets: sets}
}

func TestApply_IncreaseOnlyRule(t *testing.T) {
	tests := []struct {
		name    string
		reps    []int
		wantKg  float64
		outcome overload.Outcome
	}{
		{name: "one set short of rep min", reps: []int{8, 8, 7}, wantKg: 50, outcome: overload.OutcomeBelowRepMin},
		{name: "all sets at or above rep min", reps: []int{8, 9, 10}, wantKg: 52.5, outcome: overload.OutcomeIncreased},
		{name: "extra set ignored", reps: []int{8, 8, 8, 8}, wantKg: 52.5, outcome: overload.OutcomeIncreased},
		{name: "extra failed set ignored", reps: []int{8, 8, 8, 2}, wantKg: 52.5, outcome: overload.OutcomeIncreased},
		{name: "too few sets", reps: []int{12, 12}, wantKg: 50, outcome: overload.OutcomeMissingSets},
		{name: "nothing performed", reps: nil, wantKg: 50, outcome: overload.OutcomeMissingSets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := plan()
			got, changes, err := overload.Apply(in, "w1", []gym.PerformedExercise{reps("bench", tt.reps...)})
			require.NoError(t, err)

			assert.Equal(t, tt.wantKg, got.Workouts[0].Items[0].CurrentWeightKg)
			require.Len(t, changes, 2)
			assert.Equal(t, tt.outcome, changes[0].Outcome)
			assert.Equal(t, 50.0, changes[0].FromKg)
			assert.Equal(t, tt.wantKg, changes[0].ToKg)

			assert.Equal(t, 50.0, in.Workouts[0].Items[0].CurrentWeightKg, "input must not be mutated")
			assert.Equal(t, 70.0, got.Workouts[1].Items[0].CurrentWeightKg, "other workouts untouched")
		})
	}
}

func TestApply_ExercisesAreIndependent(t *testing.T) {
	got, changes, err := overload.Apply(plan(), "w1", []gym.PerformedExercise{
		reps("bench", 5, 5, 5),
		reps("row", 6, 7),
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, got.Workouts[0].Items[0].CurrentWeightKg)
	assert.Equal(t, 45.0, got.Workouts[0].Items[1].CurrentWeightKg)
	assert.Equal(t, 1, overload.Increases(changes))
	assert.False(t, changes[0].Increased())
	assert.True(t, changes[1].Increased())
}

func TestApply_FirstEntryPerExerciseCounts(t *testing.T) {
	got, _, err := overload.Apply(plan(), "w1", []gym.PerformedExercise{
		reps("bench", 8, 8, 8),
		reps("bench", 1, 1, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 52.5, got.Workouts[0].Items[0].CurrentWeightKg)
}

func TestApply_EdgeCases(t *testing.T) {
	_, _, err := overload.Apply(plan(), "nope", nil)
	assert.ErrorIs(t, err, overload.ErrWorkoutNotFound)

	p := plan()
	p.Workouts[0].Items[0].StepKg = 0
	p.Workouts[0].Items[1].Sets = 0
	got, changes, err := overload.Apply(p, "w1", []gym.PerformedExercise{
		reps("bench", 10, 10, 10),
		reps("row"),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Workouts[0].Items[0].CurrentWeightKg)
	assert.Equal(t, 40.0, got.Workouts[0].Items[1].CurrentWeightKg)
	assert.Equal(t, overload.OutcomeNotPrescribed, changes[0].Outcome)
	assert.Equal(t, overload.OutcomeNotPrescribed, changes[1].Outcome)
	assert.Zero(t, overload.Increases(changes))
}

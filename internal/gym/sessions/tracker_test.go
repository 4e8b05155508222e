package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/sessions"
)

func liveSession() gym.Session {
	return gym.Session{
		ID:        "s1",
		Name:      "Push",
		StartedAt: start,
		Status:    gym.StatusInProgress,
		Exercises: []gym.SessionExercise{
			{
				ID:  "ex1",
				Ref: benchRef,
				Sets: []gym.SessionSet{
					{ID: "set1", TargetReps: gym.Reps(8), TargetKg: gym.Kg(60)},
					{ID: "set2", TargetReps: gym.Reps(8), TargetKg: gym.Kg(60)},
				},
			},
			{
				ID:   "ex2",
				Ref:  rowRef,
				Sets: []gym.SessionSet{{ID: "set3", TargetReps: gym.Reps(10), TargetKg: gym.Kg(40)}},
			},
		},
	}
}

func TestToggleSet_ExerciseDoneFollowsSets(t *testing.T) {
	s := liveSession()

	s, err := sessions.ToggleSet(s, "ex1", "set1")
	require.NoError(t, err)
	assert.True(t, s.Exercises[0].Sets[0].Done)
	assert.False(t, s.Exercises[0].Done)

	s, err = sessions.ToggleSet(s, "ex1", "set2")
	require.NoError(t, err)
	assert.True(t, s.Exercises[0].Done)

	// off again flips the exercise, on again restores it
	off, err := sessions.ToggleSet(s, "ex1", "set2")
	require.NoError(t, err)
	assert.False(t, off.Exercises[0].Done)
	assert.True(t, s.Exercises[0].Done, "input must not be mutated")

	on, err := sessions.ToggleSet(off, "ex1", "set2")
	require.NoError(t, err)
	assert.True(t, on.Exercises[0].Done)
	assert.Equal(t, s, on)

	assert.False(t, on.Exercises[1].Done)
}

func TestToggleSet_Errors(t *testing.T) {
	s := liveSession()

	_, err := sessions.ToggleSet(s, "nope", "set1")
	assert.ErrorIs(t, err, sessions.ErrExerciseNotFound)
	_, err = sessions.ToggleSet(s, "ex1", "set3")
	assert.ErrorIs(t, err, sessions.ErrSetNotFound)

	s.Status = gym.StatusFinished
	got, err := sessions.ToggleSet(s, "ex1", "set1")
	assert.ErrorIs(t, err, sessions.ErrSessionLocked)
	assert.False(t, got.Exercises[0].Sets[0].Done)

	// unfinished sessions can still be completed
	s.Status = gym.StatusUnfinished
	got, err = sessions.ToggleSet(s, "ex1", "set1")
	require.NoError(t, err)
	assert.True(t, got.Exercises[0].Sets[0].Done)
}

func TestEditSet(t *testing.T) {
	s := liveSession()

	tests := []struct {
		name     string
		field    sessions.Field
		raw      string
		wantReps *int
		wantKg   *float64
	}{
		{name: "reps", field: sessions.FieldReps, raw: "12", wantReps: gym.Reps(12), wantKg: gym.Kg(60)},
		{name: "reps with spaces", field: sessions.FieldReps, raw: " 5 ", wantReps: gym.Reps(5), wantKg: gym.Kg(60)},
		{name: "reps decimal", field: sessions.FieldReps, raw: "7.0", wantReps: gym.Reps(7), wantKg: gym.Kg(60)},
		{name: "reps cleared", field: sessions.FieldReps, raw: "", wantReps: nil, wantKg: gym.Kg(60)},
		{name: "reps malformed", field: sessions.FieldReps, raw: "ten", wantReps: gym.Reps(8), wantKg: gym.Kg(60)},
		{name: "reps negative", field: sessions.FieldReps, raw: "-3", wantReps: gym.Reps(8), wantKg: gym.Kg(60)},
		{name: "kg", field: sessions.FieldKg, raw: "62.5", wantReps: gym.Reps(8), wantKg: gym.Kg(62.5)},
		{name: "kg comma", field: sessions.FieldKg, raw: "62,5", wantReps: gym.Reps(8), wantKg: gym.Kg(62.5)},
		{name: "kg cleared", field: sessions.FieldKg, raw: "  ", wantReps: gym.Reps(8), wantKg: nil},
		{name: "kg malformed", field: sessions.FieldKg, raw: "heavy", wantReps: gym.Reps(8), wantKg: gym.Kg(60)},
		{name: "kg nan", field: sessions.FieldKg, raw: "NaN", wantReps: gym.Reps(8), wantKg: gym.Kg(60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sessions.EditSet(s, "ex1", "set1", tt.field, tt.raw)
			require.NoError(t, err)
			set := got.Exercises[0].Sets[0]
			assert.Equal(t, tt.wantReps, set.TargetReps)
			assert.Equal(t, tt.wantKg, set.TargetKg)
		})
	}

	_, err := sessions.EditSet(s, "ex1", "set1", "rest", "90")
	assert.ErrorIs(t, err, sessions.ErrUnknownField)

	s.Status = gym.StatusFinished
	_, err = sessions.EditSet(s, "ex1", "set1", sessions.FieldKg, "100")
	assert.ErrorIs(t, err, sessions.ErrSessionLocked)
}

func TestFinish(t *testing.T) {
	now := start.Add(45 * time.Minute)
	s := liveSession()

	// incomplete without confirmation: nothing changes
	got, err := sessions.Finish(s, false, now)
	assert.ErrorIs(t, err, sessions.ErrNeedsConfirmation)
	assert.Equal(t, gym.StatusInProgress, got.Status)
	assert.Nil(t, got.FinishedAt)

	got, err = sessions.Finish(s, true, now)
	require.NoError(t, err)
	assert.Equal(t, gym.StatusUnfinished, got.Status)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, now, *got.FinishedAt)
	require.NotNil(t, got.DurationSec)
	assert.Equal(t, 45*60, *got.DurationSec)
	assert.Equal(t, start, got.StartedAt)
	assert.Nil(t, s.FinishedAt, "input must not be mutated")

	// completing the rest later and finishing again
	for _, ids := range [][2]string{{"ex1", "set1"}, {"ex1", "set2"}, {"ex2", "set3"}} {
		got, err = sessions.ToggleSet(got, ids[0], ids[1])
		require.NoError(t, err)
	}
	assert.False(t, sessions.IsIncomplete(got))
	later := now.Add(10 * time.Minute)
	got, err = sessions.Finish(got, false, later)
	require.NoError(t, err)
	assert.Equal(t, gym.StatusFinished, got.Status)
	assert.Equal(t, later, *got.FinishedAt)

	_, err = sessions.Finish(got, true, later.Add(time.Minute))
	assert.ErrorIs(t, err, sessions.ErrSessionLocked)
}

func TestIsIncomplete_ZeroSetExercises(t *testing.T) {
	s := gym.Session{Exercises: []gym.SessionExercise{{ID: "legacy", Done: true}}}
	assert.False(t, sessions.IsIncomplete(s))

	s.Exercises[0].Done = false
	assert.True(t, sessions.IsIncomplete(s))
}

func TestElapsed(t *testing.T) {
	s := liveSession()
	assert.Equal(t, 30*time.Minute, sessions.Elapsed(s, start.Add(30*time.Minute)))
	assert.Zero(t, sessions.Elapsed(s, start.Add(-time.Minute)))

	finishedAt := start.Add(time.Hour)
	s.FinishedAt = &finishedAt
	assert.Equal(t, time.Hour, sessions.Elapsed(s, start.Add(5*time.Hour)))
}

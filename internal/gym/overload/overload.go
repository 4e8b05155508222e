// Package overload decides prescribed weight increases for plan workouts.
package overload

import (
	"errors"

	"github.com/2beens/gymprogress/internal/gym"
)

var ErrWorkoutNotFound = errors.New("workout not found in plan")

type Outcome string

const (
	OutcomeIncreased     Outcome = "increased"
	OutcomeMissingSets   Outcome = "missing-sets"
	OutcomeBelowRepMin   Outcome = "below-rep-min"
	OutcomeNotPrescribed Outcome = "not-prescribed"
)

// Change reports what happened to one prescribed exercise.
type Change struct {
	ExerciseID string  `json:"exerciseId"`
	FromKg     float64 `json:"fromKg"`
	ToKg       float64 `json:"toKg"`
	Outcome    Outcome `json:"outcome"`
}

func (c Change) Increased() bool {
	return c.Outcome == OutcomeIncreased
}

// Apply returns a copy of plan where every exercise of the workout that hit
// repMin on all of its prescribed sets got stepKg added to its weight. Sets
// beyond the prescribed count are ignored. Weights never go down.
func Apply(plan gym.Plan, workoutID string, performed []gym.PerformedExercise) (gym.Plan, []Change, error) {
	_, wIdx, ok := plan.Workout(workoutID)
	if !ok {
		return plan, nil, ErrWorkoutNotFound
	}

	byExercise := make(map[string][]gym.PerformedSet, len(performed))
	for _, p := range performed {
		// first entry per exercise counts
		if _, seen := byExercise[p.ExerciseID]; !seen {
			byExercise[p.ExerciseID] = p.Sets
		}
	}

	out := plan.Clone()
	items := out.Workouts[wIdx].Items
	changes := make([]Change, 0, len(items))
	for i := range items {
		item := &items[i]
		outcome := evaluate(*item, byExercise[item.ExerciseID])
		change := Change{
			ExerciseID: item.ExerciseID,
			FromKg:     item.CurrentWeightKg,
			ToKg:       item.CurrentWeightKg,
			Outcome:    outcome,
		}
		if outcome == OutcomeIncreased {
			item.CurrentWeightKg += item.StepKg
			change.ToKg = item.CurrentWeightKg
		}
		changes = append(changes, change)
	}
	return out, changes, nil
}

func evaluate(item gym.PlanExercise, sets []gym.PerformedSet) Outcome {
	if item.Sets <= 0 || item.StepKg <= 0 {
		return OutcomeNotPrescribed
	}
	if len(sets) < item.Sets {
		return OutcomeMissingSets
	}
	for _, s := range sets[:item.Sets] {
		if s.Reps < item.RepMin {
			return OutcomeBelowRepMin
		}
	}
	return OutcomeIncreased
}

// Increases counts the exercises that went up.
func Increases(changes []Change) int {
	n := 0
	for _, c := range changes {
		if c.Increased() {
			n++
		}
	}
	return n
}

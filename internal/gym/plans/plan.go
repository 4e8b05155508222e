// Package plans keeps the older plan/workout model alive: plans are edited,
// their workouts are logged, and progressive overload moves their weights.
package plans

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/gymprogress/internal/gym"
)

var (
	ErrInvalidPlan      = errors.New("invalid plan")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrWorkoutNotFound  = errors.New("workout not found in plan")
	ErrExerciseNotFound = errors.New("exercise not found in workout")
)

// Defaults for an exercise added to a plan workout.
const (
	DefaultSets     = 3
	DefaultRepMin   = 6
	DefaultRepMax   = 10
	DefaultRestSec  = 90
	DefaultStepKg   = 2.5
	DefaultWeightKg = 0.0
)

func NewPlanExercise(ref gym.ExerciseRef) gym.PlanExercise {
	primary, secondary := ref.PrimaryMuscles, ref.SecondaryMuscles
	if primary == nil {
		primary = []string{}
	}
	if secondary == nil {
		secondary = []string{}
	}
	return gym.PlanExercise{
		ExerciseID:       ref.ExerciseID,
		Name:             ref.Name,
		ImageURL:         ref.Image,
		PrimaryMuscles:   append([]string(nil), primary...),
		SecondaryMuscles: append([]string(nil), secondary...),
		Sets:             DefaultSets,
		RepMin:           DefaultRepMin,
		RepMax:           DefaultRepMax,
		RestSec:          DefaultRestSec,
		CurrentWeightKg:  DefaultWeightKg,
		StepKg:           DefaultStepKg,
		RequireAllSets:   true,
	}
}

// NewPlan starts a plan with a single empty "Workout A".
func NewPlan(title string, newID gym.IDGenerator) gym.Plan {
	return gym.Plan{
		Title: strings.TrimSpace(title),
		Workouts: []gym.Workout{{
			ID:    newID(),
			Name:  gym.WorkoutName(0),
			Items: []gym.PlanExercise{},
		}},
	}
}

// Validate requires a title and at least one workout.
func Validate(p gym.Plan) error {
	if strings.TrimSpace(p.Title) == "" {
		return errors.Join(ErrInvalidPlan, errors.New("title is empty"))
	}
	if len(p.Workouts) == 0 {
		return errors.Join(ErrInvalidPlan, errors.New("plan has no workouts"))
	}
	return nil
}

// AddWorkout appends an empty workout named after its position.
func AddWorkout(p gym.Plan, newID gym.IDGenerator) gym.Plan {
	out := p.Clone()
	out.Workouts = append(out.Workouts, gym.Workout{
		ID:    newID(),
		Name:  gym.WorkoutName(len(p.Workouts)),
		Items: []gym.PlanExercise{},
	})
	return out
}

func RenameWorkout(p gym.Plan, workoutID, name string) gym.Plan {
	out := p.Clone()
	for i := range out.Workouts {
		if out.Workouts[i].ID == workoutID {
			out.Workouts[i].Name = name
		}
	}
	return out
}

// RemoveWorkout keeps the last remaining workout.
func RemoveWorkout(p gym.Plan, workoutID string) gym.Plan {
	if len(p.Workouts) <= 1 {
		return p.Clone()
	}
	out := p.Clone()
	kept := out.Workouts[:0]
	for _, w := range out.Workouts {
		if w.ID != workoutID {
			kept = append(kept, w)
		}
	}
	out.Workouts = kept
	return out
}

// AddExercise is a no-op when the workout already has the exercise.
func AddExercise(p gym.Plan, workoutID string, ref gym.ExerciseRef) gym.Plan {
	out := p.Clone()
	for i := range out.Workouts {
		w := &out.Workouts[i]
		if w.ID != workoutID {
			continue
		}
		for _, it := range w.Items {
			if it.ExerciseID == ref.ExerciseID {
				return out
			}
		}
		w.Items = append(w.Items, NewPlanExercise(ref))
	}
	return out
}

func RemoveExercise(p gym.Plan, workoutID, exerciseID string) gym.Plan {
	out := p.Clone()
	for i := range out.Workouts {
		w := &out.Workouts[i]
		if w.ID != workoutID {
			continue
		}
		kept := w.Items[:0]
		for _, it := range w.Items {
			if it.ExerciseID != exerciseID {
				kept = append(kept, it)
			}
		}
		w.Items = kept
	}
	return out
}

// ExercisePatch holds raw form values; nil fields are left alone.
// Malformed numbers become 0.
type ExercisePatch struct {
	Sets            *string `json:"sets,omitempty"`
	RepMin          *string `json:"repMin,omitempty"`
	RepMax          *string `json:"repMax,omitempty"`
	RestSec         *string `json:"restSec,omitempty"`
	CurrentWeightKg *string `json:"currentWeightKg,omitempty"`
	StepKg          *string `json:"stepKg,omitempty"`
	RequireAllSets  *bool   `json:"requireAllSets,omitempty"`
}

func UpdateExercise(p gym.Plan, workoutID, exerciseID string, patch ExercisePatch) gym.Plan {
	out := p.Clone()
	for i := range out.Workouts {
		if out.Workouts[i].ID != workoutID {
			continue
		}
		for j := range out.Workouts[i].Items {
			it := &out.Workouts[i].Items[j]
			if it.ExerciseID != exerciseID {
				continue
			}
			setInt(&it.Sets, patch.Sets)
			setInt(&it.RepMin, patch.RepMin)
			setInt(&it.RepMax, patch.RepMax)
			setInt(&it.RestSec, patch.RestSec)
			setFloat(&it.CurrentWeightKg, patch.CurrentWeightKg)
			setFloat(&it.StepKg, patch.StepKg)
			if patch.RequireAllSets != nil {
				it.RequireAllSets = *patch.RequireAllSets
			}
		}
	}
	return out
}

// KeepProgress returns incoming with every exercise that already exists in
// stored (same workout and exercise id) carrying at least its stored weight.
// Exercises new to the plan keep the weight they were given.
func KeepProgress(stored, incoming gym.Plan) gym.Plan {
	out := incoming.Clone()
	for i := range out.Workouts {
		w, _, ok := stored.Workout(out.Workouts[i].ID)
		if !ok {
			continue
		}
		for j := range out.Workouts[i].Items {
			it := &out.Workouts[i].Items[j]
			for _, prev := range w.Items {
				if prev.ExerciseID == it.ExerciseID && prev.CurrentWeightKg > it.CurrentWeightKg {
					it.CurrentWeightKg = prev.CurrentWeightKg
				}
			}
		}
	}
	return out
}

func hasExercise(p gym.Plan, workoutID, exerciseID string) bool {
	w, _, ok := p.Workout(workoutID)
	if !ok {
		return false
	}
	for _, it := range w.Items {
		if it.ExerciseID == exerciseID {
			return true
		}
	}
	return false
}

func setInt(dst *int, raw *string) {
	if raw != nil {
		*dst = ParseInt(*raw)
	}
}

func setFloat(dst *float64, raw *string) {
	if raw != nil {
		*dst = ParseDecimal(*raw)
	}
}

// ParseInt reads a form integer; anything unreadable is 0.
func ParseInt(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// ParseDecimal reads a form decimal, accepting a decimal comma; anything
// unreadable is 0.
func ParseDecimal(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SetInput is one performed set as typed by the user.
type SetInput struct {
	Reps     string `json:"reps"`
	WeightKg string `json:"weightKg"`
}

type PerformedInput struct {
	ExerciseID string     `json:"exerciseId"`
	Sets       []SetInput `json:"sets"`
}

// InitialInputs prefills one row per prescribed set with empty reps and the
// current weight.
func InitialInputs(w gym.Workout) []PerformedInput {
	out := make([]PerformedInput, 0, len(w.Items))
	for _, it := range w.Items {
		sets := make([]SetInput, 0, max(it.Sets, 0))
		for range max(it.Sets, 0) {
			sets = append(sets, SetInput{
				WeightKg: strconv.FormatFloat(it.CurrentWeightKg, 'f', -1, 64),
			})
		}
		out = append(out, PerformedInput{ExerciseID: it.ExerciseID, Sets: sets})
	}
	return out
}

// ParsePerformed turns form input into performed sets, ordered like the
// workout's exercises. Exercises without input are logged with no sets.
func ParsePerformed(w gym.Workout, inputs []PerformedInput) []gym.PerformedExercise {
	byExercise := make(map[string][]SetInput, len(inputs))
	for _, in := range inputs {
		if _, seen := byExercise[in.ExerciseID]; !seen {
			byExercise[in.ExerciseID] = in.Sets
		}
	}

	out := make([]gym.PerformedExercise, 0, len(w.Items))
	for _, it := range w.Items {
		raw := byExercise[it.ExerciseID]
		sets := make([]gym.PerformedSet, 0, len(raw))
		for _, s := range raw {
			sets = append(sets, gym.PerformedSet{
				Reps:     ParseInt(s.Reps),
				WeightKg: ParseDecimal(s.WeightKg),
			})
		}
		out = append(out, gym.PerformedExercise{ExerciseID: it.ExerciseID, Sets: sets})
	}
	return out
}

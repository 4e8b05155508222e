package templates

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/muscles"
)

var ErrInvalidTemplate = errors.New("invalid template")

type SetField string

const (
	FieldReps SetField = "reps"
	FieldKg   SetField = "kg"
)

// defaultSetReps are the targets of a freshly picked exercise.
var defaultSetReps = []int{12, 10, 8}

// NewExercise wraps a picked catalog ref into a template slot with the default sets.
func NewExercise(ref gym.ExerciseRef, newID gym.IDGenerator) gym.TemplateExercise {
	sets := make([]gym.TemplateSet, 0, len(defaultSetReps))
	for _, reps := range defaultSetReps {
		sets = append(sets, gym.TemplateSet{
			ID:         newID(),
			TargetReps: reps,
			TargetKg:   gym.DefaultTargetKg,
		})
	}
	return gym.TemplateExercise{
		ID:   newID(),
		Ref:  ref.Clone(),
		Sets: sets,
	}
}

// NewExercises keeps the pick order.
func NewExercises(refs []gym.ExerciseRef, newID gym.IDGenerator) []gym.TemplateExercise {
	out := make([]gym.TemplateExercise, 0, len(refs))
	for _, ref := range refs {
		out = append(out, NewExercise(ref, newID))
	}
	return out
}

func findExercise(exercises []gym.TemplateExercise, exerciseID string) int {
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			return i
		}
	}
	return -1
}

func cloneExercises(exercises []gym.TemplateExercise) []gym.TemplateExercise {
	return gym.Template{Exercises: exercises}.Clone().Exercises
}

// AddSet appends a set copying the last set's targets, 8 reps at 0 kg when there is none.
func AddSet(exercises []gym.TemplateExercise, exerciseID string, newID gym.IDGenerator) []gym.TemplateExercise {
	out := cloneExercises(exercises)
	i := findExercise(out, exerciseID)
	if i < 0 {
		return out
	}

	next := gym.TemplateSet{
		ID:         newID(),
		TargetReps: gym.DefaultTargetReps,
		TargetKg:   gym.DefaultTargetKg,
	}
	if n := len(out[i].Sets); n > 0 {
		next.TargetReps = out[i].Sets[n-1].TargetReps
		next.TargetKg = out[i].Sets[n-1].TargetKg
	}
	out[i].Sets = append(out[i].Sets, next)
	return out
}

// RemoveSet drops a set; the last remaining set of an exercise is kept.
func RemoveSet(exercises []gym.TemplateExercise, exerciseID, setID string) []gym.TemplateExercise {
	out := cloneExercises(exercises)
	i := findExercise(out, exerciseID)
	if i < 0 || len(out[i].Sets) <= 1 {
		return out
	}

	sets := make([]gym.TemplateSet, 0, len(out[i].Sets))
	for _, s := range out[i].Sets {
		if s.ID != setID {
			sets = append(sets, s)
		}
	}
	out[i].Sets = sets
	return out
}

func RemoveExercise(exercises []gym.TemplateExercise, exerciseID string) []gym.TemplateExercise {
	out := make([]gym.TemplateExercise, 0, len(exercises))
	for _, ex := range cloneExercises(exercises) {
		if ex.ID != exerciseID {
			out = append(out, ex)
		}
	}
	return out
}

// EditSetField sets a target from raw form input. Empty or malformed input
// gives 0 and negative values clamp to 0.
func EditSetField(exercises []gym.TemplateExercise, exerciseID, setID string, field SetField, raw string) []gym.TemplateExercise {
	out := cloneExercises(exercises)
	i := findExercise(out, exerciseID)
	if i < 0 {
		return out
	}

	raw = strings.TrimSpace(raw)
	for j := range out[i].Sets {
		if out[i].Sets[j].ID != setID {
			continue
		}
		switch field {
		case FieldReps:
			reps, err := strconv.Atoi(raw)
			if err != nil || reps < 0 {
				reps = 0
			}
			out[i].Sets[j].TargetReps = reps
		case FieldKg:
			kg, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
			if err != nil || kg < 0 || math.IsNaN(kg) || math.IsInf(kg, 0) {
				kg = 0
			}
			out[i].Sets[j].TargetKg = kg
		}
	}
	return out
}

type EditOp string

const (
	OpRename         EditOp = "rename"
	OpAddExercise    EditOp = "addExercise"
	OpRemoveExercise EditOp = "removeExercise"
	OpAddSet         EditOp = "addSet"
	OpRemoveSet      EditOp = "removeSet"
	OpEditSet        EditOp = "editSet"
)

// Edit is one change made in the template editor.
type Edit struct {
	Op         EditOp           `json:"op"`
	Name       string           `json:"name,omitempty"`
	Ref        *gym.ExerciseRef `json:"ref,omitempty"`
	ExerciseID string           `json:"exerciseId,omitempty"`
	SetID      string           `json:"setId,omitempty"`
	Field      SetField         `json:"field,omitempty"`
	Value      string           `json:"value,omitempty"`
}

// ApplyEdit returns t with e applied; t is left untouched.
func ApplyEdit(t gym.Template, e Edit, newID gym.IDGenerator) (gym.Template, error) {
	out := t
	switch e.Op {
	case OpRename:
		out.Name = strings.TrimSpace(e.Name)
		out.Exercises = cloneExercises(t.Exercises)
	case OpAddExercise:
		if e.Ref == nil || e.Ref.ExerciseID == "" {
			return gym.Template{}, fmt.Errorf("%w: missing exercise ref", ErrInvalidTemplate)
		}
		out.Exercises = append(cloneExercises(t.Exercises), NewExercise(*e.Ref, newID))
	case OpRemoveExercise:
		out.Exercises = RemoveExercise(t.Exercises, e.ExerciseID)
	case OpAddSet:
		out.Exercises = AddSet(t.Exercises, e.ExerciseID, newID)
	case OpRemoveSet:
		out.Exercises = RemoveSet(t.Exercises, e.ExerciseID, e.SetID)
	case OpEditSet:
		if e.Field != FieldReps && e.Field != FieldKg {
			return gym.Template{}, fmt.Errorf("%w: unknown set field %q", ErrInvalidTemplate, e.Field)
		}
		out.Exercises = EditSetField(t.Exercises, e.ExerciseID, e.SetID, e.Field, e.Value)
	default:
		return gym.Template{}, fmt.Errorf("%w: unknown edit %q", ErrInvalidTemplate, e.Op)
	}
	out.MusclesWorked = MusclesWorked(out.Exercises)
	return out, nil
}

// MusclesWorked unions the slugs of every exercise in the template.
func MusclesWorked(exercises []gym.TemplateExercise) []string {
	refs := make([]gym.ExerciseRef, 0, len(exercises))
	for _, ex := range exercises {
		refs = append(refs, ex.Ref)
	}
	return muscles.MusclesToSlugs(gym.MusclesOf(refs...))
}

// Validate checks a template can be saved: a name, at least one exercise and
// at least one prescribed set per exercise.
func Validate(name string, exercises []gym.TemplateExercise) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplate)
	}
	if len(exercises) == 0 {
		return fmt.Errorf("%w: no exercises", ErrInvalidTemplate)
	}
	for _, ex := range exercises {
		if len(ex.Sets) == 0 {
			return fmt.Errorf("%w: exercise %q has no sets", ErrInvalidTemplate, ex.Ref.Name)
		}
	}
	return nil
}

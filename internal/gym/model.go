package gym

import (
	"time"
)

// Collections in the document store, scoped per owner.
const (
	CollectionTemplates = "gymTemplates"
	CollectionSessions  = "gymSessions"
	CollectionPlans     = "gymPlans"
)

const (
	DefaultSessionName  = "Workout"
	DefaultTemplateName = "Template"
	DefaultPlanTitle    = "Plan"

	// used whenever neither history nor template provide a target
	DefaultTargetReps = 8
	DefaultTargetKg   = 0.0
)

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusUnfinished Status = "unfinished"
	StatusFinished   Status = "finished"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusUnfinished, StatusFinished:
		return true
	default:
		return false
	}
}

// ExerciseRef is copied into templates and sessions when an exercise is picked,
// so history stays stable when the catalog changes.
type ExerciseRef struct {
	ExerciseID       string   `json:"exerciseId"`
	Name             string   `json:"name"`
	Image            string   `json:"image,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Equipment        []string `json:"equipment,omitempty"`
	Tags             []string `json:"tags"`
}

type TemplateSet struct {
	ID         string  `json:"id"`
	TargetReps int     `json:"targetReps"`
	TargetKg   float64 `json:"targetKg"`
}

type TemplateExercise struct {
	ID   string        `json:"id"`
	Ref  ExerciseRef   `json:"ref"`
	Sets []TemplateSet `json:"sets"`
}

type Template struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CreatedAt     time.Time          `json:"createdAt"`
	MusclesWorked []string           `json:"musclesWorked"`
	Exercises     []TemplateExercise `json:"exercises"`
}

// SessionSet targets are nil when the user cleared the field.
type SessionSet struct {
	ID            string   `json:"id"`
	TemplateSetID string   `json:"templateSetId,omitempty"`
	TargetReps    *int     `json:"targetReps"`
	TargetKg      *float64 `json:"targetKg"`
	Done          bool     `json:"done"`
}

type SessionExercise struct {
	ID                 string       `json:"id"`
	TemplateExerciseID string       `json:"templateExerciseId,omitempty"`
	Ref                ExerciseRef  `json:"ref"`
	Sets               []SessionSet `json:"sets"`
	// Done mirrors the sets, except for exercises without sets where it is kept as stored.
	Done bool `json:"done"`
}

type Session struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	StartedAt     time.Time         `json:"startedAt"`
	FinishedAt    *time.Time        `json:"finishedAt,omitempty"`
	DurationSec   *int              `json:"durationSec,omitempty"`
	Status        Status            `json:"status"`
	Exercises     []SessionExercise `json:"exercises"`
	MusclesWorked []string          `json:"musclesWorked"`
	TemplateID    string            `json:"templateId,omitempty"`
}

// Plan is the older plan/workout model, still read and progressed.
type Plan struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Workouts []Workout `json:"workouts"`
}

type Workout struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []PlanExercise `json:"items"`
}

type PlanExercise struct {
	ExerciseID       string   `json:"exerciseId"`
	Name             string   `json:"name"`
	ImageURL         string   `json:"imageUrl,omitempty"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Sets             int      `json:"sets"`
	RepMin           int      `json:"repMin"`
	RepMax           int      `json:"repMax"`
	RestSec          int      `json:"restSec"`
	CurrentWeightKg  float64  `json:"currentWeightKg"`
	StepKg           float64  `json:"stepKg"`
	// RequireAllSets is kept for display; progression always requires every prescribed set.
	RequireAllSets bool `json:"requireAllSets"`
}

type PerformedSet struct {
	Reps     int     `json:"reps"`
	WeightKg float64 `json:"weightKg"`
}

type PerformedExercise struct {
	ExerciseID string         `json:"exerciseId"`
	Sets       []PerformedSet `json:"sets"`
}

// Reps and Kg build set targets.
func Reps(n int) *int {
	return &n
}

func Kg(v float64) *float64 {
	return &v
}

func (r ExerciseRef) Clone() ExerciseRef {
	r.PrimaryMuscles = cloneStrings(r.PrimaryMuscles)
	r.SecondaryMuscles = cloneStrings(r.SecondaryMuscles)
	r.Equipment = cloneStrings(r.Equipment)
	r.Tags = cloneStrings(r.Tags)
	return r
}

func (s SessionSet) Clone() SessionSet {
	if s.TargetReps != nil {
		s.TargetReps = Reps(*s.TargetReps)
	}
	if s.TargetKg != nil {
		s.TargetKg = Kg(*s.TargetKg)
	}
	return s
}

func (e SessionExercise) Clone() SessionExercise {
	e.Ref = e.Ref.Clone()
	if e.Sets != nil {
		sets := make([]SessionSet, len(e.Sets))
		for i := range e.Sets {
			sets[i] = e.Sets[i].Clone()
		}
		e.Sets = sets
	}
	return e
}

// Clone returns a deep copy, so tracker operations never alias the input.
func (s Session) Clone() Session {
	if s.FinishedAt != nil {
		f := *s.FinishedAt
		s.FinishedAt = &f
	}
	if s.DurationSec != nil {
		d := *s.DurationSec
		s.DurationSec = &d
	}
	if s.Exercises != nil {
		exercises := make([]SessionExercise, len(s.Exercises))
		for i := range s.Exercises {
			exercises[i] = s.Exercises[i].Clone()
		}
		s.Exercises = exercises
	}
	s.MusclesWorked = cloneStrings(s.MusclesWorked)
	return s
}

func (t Template) Clone() Template {
	if t.Exercises != nil {
		exercises := make([]TemplateExercise, len(t.Exercises))
		for i, ex := range t.Exercises {
			ex.Ref = ex.Ref.Clone()
			ex.Sets = append([]TemplateSet(nil), ex.Sets...)
			exercises[i] = ex
		}
		t.Exercises = exercises
	}
	t.MusclesWorked = cloneStrings(t.MusclesWorked)
	return t
}

func (p Plan) Clone() Plan {
	if p.Workouts != nil {
		workouts := make([]Workout, len(p.Workouts))
		for i, w := range p.Workouts {
			items := make([]PlanExercise, len(w.Items))
			for j, it := range w.Items {
				it.PrimaryMuscles = cloneStrings(it.PrimaryMuscles)
				it.SecondaryMuscles = cloneStrings(it.SecondaryMuscles)
				items[j] = it
			}
			w.Items = items
			workouts[i] = w
		}
		p.Workouts = workouts
	}
	return p
}

// Workout finds a workout by id.
func (p Plan) Workout(id string) (Workout, int, bool) {
	for i, w := range p.Workouts {
		if w.ID == id {
			return w, i, true
		}
	}
	return Workout{}, -1, false
}

// MusclesOf collects primary and secondary muscle names of the given refs.
func MusclesOf(refs ...ExerciseRef) (primary []string, secondary []string) {
	for _, r := range refs {
		primary = append(primary, r.PrimaryMuscles...)
		secondary = append(secondary, r.SecondaryMuscles...)
	}
	return primary, secondary
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

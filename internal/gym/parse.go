package gym

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Everything read from the document store passes through the Parse* functions.
// They accept any shape, never fail, and return values satisfying the model
// invariants. Missing arrays become empty, missing numbers 0, missing strings "".
// Parsing an encoded parse result gives back the same value.

func ParseExerciseRef(raw any) ExerciseRef {
	m := asMap(raw)
	ref := ExerciseRef{
		ExerciseID:       asString(m["exerciseId"]),
		Name:             asString(m["name"]),
		Image:            asString(m["image"]),
		PrimaryMuscles:   asStrings(m["primaryMuscles"]),
		SecondaryMuscles: asStrings(m["secondaryMuscles"]),
		Tags:             asStrings(m["tags"]),
	}
	if equipment := asStrings(m["equipment"]); len(equipment) > 0 {
		ref.Equipment = equipment
	}
	return ref
}

func ParseTemplateSet(raw any) TemplateSet {
	m := asMap(raw)
	return TemplateSet{
		ID:         asString(m["id"]),
		TargetReps: asInt(m["targetReps"]),
		TargetKg:   asFloat(m["targetKg"]),
	}
}

func ParseTemplateExercise(raw any) TemplateExercise {
	m := asMap(raw)
	rawSets := asSlice(m["sets"])
	sets := make([]TemplateSet, 0, len(rawSets))
	for _, rs := range rawSets {
		sets = append(sets, ParseTemplateSet(rs))
	}
	return TemplateExercise{
		ID:   asString(m["id"]),
		Ref:  ParseExerciseRef(m["ref"]),
		Sets: sets,
	}
}

type templateShape int

const (
	// exercises carry a ref and their own prescribed sets
	templateShapeSets templateShape = iota
	// older templates stored bare exercise refs without sets
	templateShapeRefList
)

func detectTemplateShape(rawExercises []any) templateShape {
	if len(rawExercises) == 0 {
		return templateShapeSets
	}
	first := asMap(rawExercises[0])
	if asString(first["exerciseId"]) != "" && first["ref"] == nil {
		return templateShapeRefList
	}
	return templateShapeSets
}

// LegacyTemplateSets is what a template stored as a bare ref list gets per exercise.
func LegacyTemplateSets() []TemplateSet {
	return []TemplateSet{
		{ID: "s1", TargetReps: DefaultTargetReps, TargetKg: DefaultTargetKg},
		{ID: "s2", TargetReps: DefaultTargetReps, TargetKg: DefaultTargetKg},
		{ID: "s3", TargetReps: DefaultTargetReps, TargetKg: DefaultTargetKg},
	}
}

func ParseTemplate(id string, raw map[string]any) Template {
	rawExercises := asSlice(raw["exercises"])
	exercises := make([]TemplateExercise, 0, len(rawExercises))

	switch detectTemplateShape(rawExercises) {
	case templateShapeRefList:
		for _, re := range rawExercises {
			exercises = append(exercises, TemplateExercise{
				ID:   asString(asMap(re)["id"]),
				Ref:  ParseExerciseRef(re),
				Sets: LegacyTemplateSets(),
			})
		}
	default:
		for _, re := range rawExercises {
			exercises = append(exercises, ParseTemplateExercise(re))
		}
	}

	name := asString(raw["name"])
	if name == "" {
		name = DefaultTemplateName
	}
	createdAt, _ := asTime(raw["createdAt"])

	return Template{
		ID:            id,
		Name:          name,
		CreatedAt:     createdAt,
		MusclesWorked: asStrings(raw["musclesWorked"]),
		Exercises:     exercises,
	}
}

// ParseSessionSet keeps absent or null targets unset.
func ParseSessionSet(raw any) SessionSet {
	m := asMap(raw)
	set := SessionSet{
		ID:            asString(m["id"]),
		TemplateSetID: asString(m["templateSetId"]),
		Done:          asBool(m["done"]),
	}
	if v, present := m["targetReps"]; present && v != nil {
		set.TargetReps = Reps(asInt(v))
	}
	if v, present := m["targetKg"]; present && v != nil {
		set.TargetKg = Kg(asFloat(v))
	}
	return set
}

func ParseSessionExercise(raw any) SessionExercise {
	m := asMap(raw)
	rawSets := asSlice(m["sets"])
	sets := make([]SessionSet, 0, len(rawSets))
	for _, rs := range rawSets {
		sets = append(sets, ParseSessionSet(rs))
	}
	ex := SessionExercise{
		ID:                 asString(m["id"]),
		TemplateExerciseID: asString(m["templateExerciseId"]),
		Ref:                ParseExerciseRef(m["ref"]),
		Sets:               sets,
	}
	ex.Done = ExerciseDone(sets, asBool(m["done"]))
	return ex
}

// ExerciseDone is the AND of the sets; an exercise without sets keeps its own flag.
func ExerciseDone(sets []SessionSet, legacyDone bool) bool {
	if len(sets) == 0 {
		return legacyDone
	}
	for _, s := range sets {
		if !s.Done {
			return false
		}
	}
	return true
}

// HasIncompleteWork reports whether any set is not done, counting exercises
// without sets by their own flag.
func HasIncompleteWork(exercises []SessionExercise) bool {
	for _, ex := range exercises {
		if len(ex.Sets) == 0 {
			if !ex.Done {
				return true
			}
			continue
		}
		for _, s := range ex.Sets {
			if !s.Done {
				return true
			}
		}
	}
	return false
}

type sessionShape int

const (
	sessionShapeExercises sessionShape = iota
	// finished plan workouts were logged into the same collection
	sessionShapePlanLog
)

func detectSessionShape(raw map[string]any) sessionShape {
	_, hasPerformed := raw["performed"].([]any)
	_, hasExercises := raw["exercises"].([]any)
	if hasPerformed && !hasExercises {
		return sessionShapePlanLog
	}
	return sessionShapeExercises
}

func ParseSession(id string, raw map[string]any) Session {
	var exercises []SessionExercise
	switch detectSessionShape(raw) {
	case sessionShapePlanLog:
		exercises = planLogExercises(ParsePerformed(raw["performed"]))
	default:
		rawExercises := asSlice(raw["exercises"])
		exercises = make([]SessionExercise, 0, len(rawExercises))
		for _, re := range rawExercises {
			exercises = append(exercises, ParseSessionExercise(re))
		}
	}

	name := asString(raw["name"])
	if name == "" {
		name = DefaultSessionName
	}
	startedAt, _ := asTime(raw["startedAt"])

	s := Session{
		ID:            id,
		Name:          name,
		StartedAt:     startedAt,
		Exercises:     exercises,
		MusclesWorked: asStrings(raw["musclesWorked"]),
		TemplateID:    asString(raw["templateId"]),
	}
	if finishedAt, ok := asTime(raw["finishedAt"]); ok {
		s.FinishedAt = &finishedAt
	}
	if d := asInt(raw["durationSec"]); d > 0 {
		s.DurationSec = &d
	}

	s.Status = Status(asString(raw["status"]))
	if !s.Status.IsValid() {
		s.Status = deriveStatus(s)
	}
	return s
}

func deriveStatus(s Session) Status {
	if s.FinishedAt == nil {
		return StatusInProgress
	}
	if HasIncompleteWork(s.Exercises) {
		return StatusUnfinished
	}
	return StatusFinished
}

func planLogExercises(performed []PerformedExercise) []SessionExercise {
	exercises := make([]SessionExercise, 0, len(performed))
	for i, p := range performed {
		sets := make([]SessionSet, 0, len(p.Sets))
		for j, ps := range p.Sets {
			sets = append(sets, SessionSet{
				ID:         fmt.Sprintf("p%d", j+1),
				TargetReps: Reps(ps.Reps),
				TargetKg:   Kg(ps.WeightKg),
				Done:       true,
			})
		}
		exercises = append(exercises, SessionExercise{
			ID: fmt.Sprintf("%s-%d", p.ExerciseID, i),
			Ref: ExerciseRef{
				ExerciseID:       p.ExerciseID,
				PrimaryMuscles:   []string{},
				SecondaryMuscles: []string{},
				Tags:             []string{},
			},
			Sets: sets,
			Done: len(sets) > 0,
		})
	}
	return exercises
}

func ParsePerformed(raw any) []PerformedExercise {
	rawList := asSlice(raw)
	out := make([]PerformedExercise, 0, len(rawList))
	for _, rp := range rawList {
		m := asMap(rp)
		rawSets := asSlice(m["sets"])
		sets := make([]PerformedSet, 0, len(rawSets))
		for _, rs := range rawSets {
			sm := asMap(rs)
			sets = append(sets, PerformedSet{
				Reps:     asInt(sm["reps"]),
				WeightKg: asFloat(sm["weightKg"]),
			})
		}
		out = append(out, PerformedExercise{
			ExerciseID: asString(m["exerciseId"]),
			Sets:       sets,
		})
	}
	return out
}

func ParsePlan(id string, raw map[string]any) Plan {
	rawWorkouts := asSlice(raw["workouts"])
	workouts := make([]Workout, 0, len(rawWorkouts))
	for i, rw := range rawWorkouts {
		wm := asMap(rw)
		rawItems := asSlice(wm["items"])
		items := make([]PlanExercise, 0, len(rawItems))
		for _, ri := range rawItems {
			items = append(items, parsePlanExercise(ri))
		}
		name := asString(wm["name"])
		if name == "" {
			name = WorkoutName(i)
		}
		workouts = append(workouts, Workout{
			ID:    asString(wm["id"]),
			Name:  name,
			Items: items,
		})
	}

	title := asString(raw["title"])
	if title == "" {
		title = DefaultPlanTitle
	}
	return Plan{
		ID:       id,
		Title:    title,
		Workouts: workouts,
	}
}

func parsePlanExercise(raw any) PlanExercise {
	m := asMap(raw)
	return PlanExercise{
		ExerciseID:       asString(m["exerciseId"]),
		Name:             asString(m["name"]),
		ImageURL:         asString(m["imageUrl"]),
		PrimaryMuscles:   asStrings(m["primaryMuscles"]),
		SecondaryMuscles: asStrings(m["secondaryMuscles"]),
		Sets:             asInt(m["sets"]),
		RepMin:           asInt(m["repMin"]),
		RepMax:           asInt(m["repMax"]),
		RestSec:          asInt(m["restSec"]),
		CurrentWeightKg:  asFloat(m["currentWeightKg"]),
		StepKg:           asFloat(m["stepKg"]),
		RequireAllSets:   asBool(m["requireAllSets"]),
	}
}

// WorkoutName gives the default name of the i-th workout in a plan: Workout A, Workout B, ...
func WorkoutName(i int) string {
	if i < 0 || i >= 26 {
		return DefaultSessionName
	}
	return "Workout " + string(rune('A'+i))
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out
	default:
		return nil
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		list := asSlice(v)
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
}

// AsNumber coerces stored numeric values. Non-finite and non-numeric values report false.
func AsNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asFloat(v any) float64 {
	f, _ := AsNumber(v)
	return f
}

func asInt(v any) int {
	f, _ := AsNumber(v)
	return int(math.Trunc(f))
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		f, ok := AsNumber(v)
		return ok && f != 0
	}
}

// asTime reads epoch milliseconds (or RFC 3339). Missing or zero gives the epoch and false.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if !t.IsZero() {
			return t.UTC(), true
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC(), true
		}
	}
	if ms, ok := AsNumber(v); ok && ms > 0 {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.UnixMilli(0).UTC(), false
}

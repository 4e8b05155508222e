package gym

import (
	"time"
)

// Encode* build the stored document shape (ids live in the document path, not the body).
// Times are stored as epoch milliseconds.

func EncodeExerciseRef(r ExerciseRef) map[string]any {
	doc := map[string]any{
		"exerciseId":       r.ExerciseID,
		"name":             r.Name,
		"primaryMuscles":   stringsToAny(r.PrimaryMuscles),
		"secondaryMuscles": stringsToAny(r.SecondaryMuscles),
		"tags":             stringsToAny(r.Tags),
	}
	if r.Image != "" {
		doc["image"] = r.Image
	}
	if len(r.Equipment) > 0 {
		doc["equipment"] = stringsToAny(r.Equipment)
	}
	return doc
}

func EncodeTemplate(t Template) map[string]any {
	exercises := make([]any, 0, len(t.Exercises))
	for _, ex := range t.Exercises {
		sets := make([]any, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			sets = append(sets, map[string]any{
				"id":         s.ID,
				"targetReps": s.TargetReps,
				"targetKg":   s.TargetKg,
			})
		}
		exercises = append(exercises, map[string]any{
			"id":   ex.ID,
			"ref":  EncodeExerciseRef(ex.Ref),
			"sets": sets,
		})
	}
	return map[string]any{
		"name":          t.Name,
		"createdAt":     millis(t.CreatedAt),
		"musclesWorked": stringsToAny(t.MusclesWorked),
		"exercises":     exercises,
	}
}

func EncodeSessionExercises(exercises []SessionExercise) []any {
	out := make([]any, 0, len(exercises))
	for _, ex := range exercises {
		sets := make([]any, 0, len(ex.Sets))
		for _, s := range ex.Sets {
			set := map[string]any{
				"id":         s.ID,
				"targetReps": nil,
				"targetKg":   nil,
				"done":       s.Done,
			}
			if s.TargetReps != nil {
				set["targetReps"] = *s.TargetReps
			}
			if s.TargetKg != nil {
				set["targetKg"] = *s.TargetKg
			}
			if s.TemplateSetID != "" {
				set["templateSetId"] = s.TemplateSetID
			}
			sets = append(sets, set)
		}
		doc := map[string]any{
			"id":   ex.ID,
			"ref":  EncodeExerciseRef(ex.Ref),
			"sets": sets,
			"done": ex.Done,
		}
		if ex.TemplateExerciseID != "" {
			doc["templateExerciseId"] = ex.TemplateExerciseID
		}
		out = append(out, doc)
	}
	return out
}

func EncodeSession(s Session) map[string]any {
	doc := map[string]any{
		"name":          s.Name,
		"startedAt":     millis(s.StartedAt),
		"status":        s.Status.String(),
		"musclesWorked": stringsToAny(s.MusclesWorked),
		"exercises":     EncodeSessionExercises(s.Exercises),
	}
	if s.FinishedAt != nil {
		doc["finishedAt"] = millis(*s.FinishedAt)
	}
	if s.DurationSec != nil {
		doc["durationSec"] = *s.DurationSec
	}
	if s.TemplateID != "" {
		doc["templateId"] = s.TemplateID
	}
	return doc
}

func EncodePlan(p Plan) map[string]any {
	workouts := make([]any, 0, len(p.Workouts))
	for _, w := range p.Workouts {
		items := make([]any, 0, len(w.Items))
		for _, it := range w.Items {
			item := map[string]any{
				"exerciseId":       it.ExerciseID,
				"name":             it.Name,
				"primaryMuscles":   stringsToAny(it.PrimaryMuscles),
				"secondaryMuscles": stringsToAny(it.SecondaryMuscles),
				"sets":             it.Sets,
				"repMin":           it.RepMin,
				"repMax":           it.RepMax,
				"restSec":          it.RestSec,
				"currentWeightKg":  it.CurrentWeightKg,
				"stepKg":           it.StepKg,
				"requireAllSets":   it.RequireAllSets,
			}
			if it.ImageURL != "" {
				item["imageUrl"] = it.ImageURL
			}
			items = append(items, item)
		}
		workouts = append(workouts, map[string]any{
			"id":    w.ID,
			"name":  w.Name,
			"items": items,
		})
	}
	return map[string]any{
		"title":    p.Title,
		"workouts": workouts,
	}
}

func EncodePerformed(performed []PerformedExercise) []any {
	out := make([]any, 0, len(performed))
	for _, p := range performed {
		sets := make([]any, 0, len(p.Sets))
		for _, s := range p.Sets {
			sets = append(sets, map[string]any{
				"reps":     s.Reps,
				"weightKg": s.WeightKg,
			})
		}
		out = append(out, map[string]any{
			"exerciseId": p.ExerciseID,
			"sets":       sets,
		})
	}
	return out
}

// EncodePlanWorkoutLog is the record kept for every finished plan workout.
func EncodePlanWorkoutLog(planID, workoutID string, startedAt, finishedAt time.Time, performed []PerformedExercise, overloadApplied bool) map[string]any {
	return map[string]any{
		"planId":          planID,
		"workoutId":       workoutID,
		"startedAt":       millis(startedAt),
		"finishedAt":      millis(finishedAt),
		"performed":       EncodePerformed(performed),
		"overloadApplied": overloadApplied,
	}
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}

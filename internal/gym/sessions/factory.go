// Package sessions turns templates into live workout sessions and tracks them
// until they are finished.
package sessions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/muscles"
)

const scratchSetsPerExercise = 3

type Factory struct {
	clock gym.Clock
	newID gym.IDGenerator
}

func NewFactory(clock gym.Clock, newID gym.IDGenerator) *Factory {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	if newID == nil {
		newID = gym.NewID
	}
	return &Factory{
		clock: clock,
		newID: newID,
	}
}

// StartFromScratch builds a session of 3x8 @ 0kg per picked exercise.
func (f *Factory) StartFromScratch(ownerID, name string, refs []gym.ExerciseRef) (gym.Session, error) {
	if ownerID == "" {
		return gym.Session{}, gym.ErrMissingOwnerID
	}

	exercises := make([]gym.SessionExercise, 0, len(refs))
	for _, ref := range refs {
		sets := make([]gym.SessionSet, 0, scratchSetsPerExercise)
		for range scratchSetsPerExercise {
			sets = append(sets, gym.SessionSet{
				ID:         f.newID(),
				TargetReps: gym.Reps(gym.DefaultTargetReps),
				TargetKg:   gym.Kg(gym.DefaultTargetKg),
			})
		}
		exercises = append(exercises, gym.SessionExercise{
			ID:   f.newID(),
			Ref:  ref.Clone(),
			Sets: sets,
		})
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = gym.DefaultSessionName
	}
	return f.newSession(name, "", exercises), nil
}

// StartFromTemplate materializes a session from the template. When previous
// is a session of the same template, every matched exercise gets as many sets
// as were performed last time, seeded with last time's targets.
func (f *Factory) StartFromTemplate(ownerID string, t gym.Template, previous *gym.Session) (gym.Session, error) {
	if ownerID == "" {
		return gym.Session{}, gym.ErrMissingOwnerID
	}
	if t.ID == "" {
		return gym.Session{}, gym.ErrMissingTemplateID
	}

	var history *carryForward
	if previous != nil && previous.TemplateID == t.ID {
		history = newCarryForward(*previous)
	}

	exercises := make([]gym.SessionExercise, 0, len(t.Exercises))
	for _, tex := range t.Exercises {
		var sets []gym.SessionSet
		if prevEx, ok := history.match(tex); ok {
			sets = f.carriedSets(tex, prevEx, history)
		} else {
			sets = f.templateSets(tex)
		}
		exercises = append(exercises, gym.SessionExercise{
			ID:                 f.newID(),
			TemplateExerciseID: tex.ID,
			Ref:                tex.Ref.Clone(),
			Sets:               sets,
		})
	}

	name := strings.TrimSpace(t.Name)
	if name == "" {
		name = gym.DefaultSessionName
	}
	return f.newSession(name, t.ID, exercises), nil
}

func (f *Factory) newSession(name, templateID string, exercises []gym.SessionExercise) gym.Session {
	refs := make([]gym.ExerciseRef, 0, len(exercises))
	for _, ex := range exercises {
		refs = append(refs, ex.Ref)
	}
	return gym.Session{
		Name:          name,
		StartedAt:     f.clock.Now(),
		Status:        gym.StatusInProgress,
		Exercises:     exercises,
		MusclesWorked: muscles.MusclesToSlugs(gym.MusclesOf(refs...)),
		TemplateID:    templateID,
	}
}

func (f *Factory) templateSets(tex gym.TemplateExercise) []gym.SessionSet {
	sets := make([]gym.SessionSet, 0, len(tex.Sets))
	for _, ts := range tex.Sets {
		sets = append(sets, gym.SessionSet{
			ID:            f.newID(),
			TemplateSetID: ts.ID,
			TargetReps:    gym.Reps(ts.TargetReps),
			TargetKg:      gym.Kg(ts.TargetKg),
		})
	}
	return sets
}

func (f *Factory) carriedSets(tex gym.TemplateExercise, prevEx gym.SessionExercise, history *carryForward) []gym.SessionSet {
	sets := make([]gym.SessionSet, 0, len(prevEx.Sets))
	for i, prevSet := range prevEx.Sets {
		// extra historical sets fall back to the template's last set
		var tset *gym.TemplateSet
		switch {
		case i < len(tex.Sets):
			tset = &tex.Sets[i]
		case len(tex.Sets) > 0:
			tset = &tex.Sets[len(tex.Sets)-1]
		}

		templateSetID := fmt.Sprintf("legacy-%s-%d", tex.ID, i)
		if tset != nil && tset.ID != "" {
			templateSetID = tset.ID
		}

		lookupID := prevSet.TemplateSetID
		if lookupID == "" {
			lookupID = templateSetID
		}
		recorded, hasRecorded := history.byTemplateSetID[lookupID]

		reps := gym.DefaultTargetReps
		kg := gym.DefaultTargetKg
		switch {
		case hasRecorded:
			reps = recorded.reps
		case prevSet.TargetReps != nil:
			reps = *prevSet.TargetReps
		case tset != nil:
			reps = tset.TargetReps
		}
		switch {
		case hasRecorded:
			kg = recorded.kg
		case prevSet.TargetKg != nil:
			kg = *prevSet.TargetKg
		case tset != nil:
			kg = tset.TargetKg
		}

		sets = append(sets, gym.SessionSet{
			ID:            f.newID(),
			TemplateSetID: templateSetID,
			TargetReps:    gym.Reps(reps),
			TargetKg:      gym.Kg(kg),
		})
	}
	return sets
}

type recordedSet struct {
	reps int
	kg   float64
}

// carryForward indexes a previous session of the same template.
type carryForward struct {
	// only sets that carry a template set id and both targets
	byTemplateSetID      map[string]recordedSet
	byTemplateExerciseID map[string]gym.SessionExercise
	byExerciseID         map[string]gym.SessionExercise
}

func newCarryForward(prev gym.Session) *carryForward {
	cf := &carryForward{
		byTemplateSetID:      make(map[string]recordedSet),
		byTemplateExerciseID: make(map[string]gym.SessionExercise),
		byExerciseID:         make(map[string]gym.SessionExercise),
	}
	// later entries win
	for _, ex := range prev.Exercises {
		if ex.TemplateExerciseID != "" {
			cf.byTemplateExerciseID[ex.TemplateExerciseID] = ex
		}
		if ex.Ref.ExerciseID != "" {
			cf.byExerciseID[ex.Ref.ExerciseID] = ex
		}
		for _, s := range ex.Sets {
			if s.TemplateSetID == "" || s.TargetReps == nil || s.TargetKg == nil {
				continue
			}
			cf.byTemplateSetID[s.TemplateSetID] = recordedSet{reps: *s.TargetReps, kg: *s.TargetKg}
		}
	}
	return cf
}

// match prefers the template slot id over the exercise id. A match without
// sets counts as no match.
func (cf *carryForward) match(tex gym.TemplateExercise) (gym.SessionExercise, bool) {
	if cf == nil {
		return gym.SessionExercise{}, false
	}
	ex, ok := cf.byTemplateExerciseID[tex.ID]
	if !ok || tex.ID == "" {
		ex, ok = cf.byExerciseID[tex.Ref.ExerciseID]
	}
	if !ok || len(ex.Sets) == 0 {
		return gym.SessionExercise{}, false
	}
	return ex, true
}

// SelectPrevious picks the session to carry forward from: the latest finished
// session of the template, else the latest one of any status.
func SelectPrevious(templateID string, candidates []gym.Session) *gym.Session {
	var sameTemplate []gym.Session
	for _, s := range candidates {
		if templateID != "" && s.TemplateID == templateID {
			sameTemplate = append(sameTemplate, s)
		}
	}
	if len(sameTemplate) == 0 {
		return nil
	}

	sort.SliceStable(sameTemplate, func(i, j int) bool {
		return sameTemplate[i].StartedAt.After(sameTemplate[j].StartedAt)
	})
	for _, s := range sameTemplate {
		if s.Status == gym.StatusFinished {
			picked := s.Clone()
			return &picked
		}
	}
	picked := sameTemplate[0].Clone()
	return &picked
}

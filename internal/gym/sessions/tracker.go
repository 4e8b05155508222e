package sessions

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
)

var (
	ErrSessionLocked     = errors.New("session is finished")
	ErrNeedsConfirmation = errors.New("session has incomplete sets, confirmation required")
	ErrExerciseNotFound  = errors.New("exercise not found in session")
	ErrSetNotFound       = errors.New("set not found in exercise")
	ErrUnknownField      = errors.New("unknown set field")
)

type Field string

const (
	FieldReps Field = "reps"
	FieldKg   Field = "kg"
)

// ToggleSet flips one set's done flag and recomputes the exercise flag.
func ToggleSet(s gym.Session, exerciseID, setID string) (gym.Session, error) {
	return mutateSet(s, exerciseID, setID, func(set *gym.SessionSet) error {
		set.Done = !set.Done
		return nil
	})
}

// EditSet applies raw user input to a set target. An empty value clears the
// target; malformed, negative or non-finite input keeps the previous value.
func EditSet(s gym.Session, exerciseID, setID string, field Field, raw string) (gym.Session, error) {
	if field != FieldReps && field != FieldKg {
		return s, ErrUnknownField
	}
	return mutateSet(s, exerciseID, setID, func(set *gym.SessionSet) error {
		raw = strings.TrimSpace(raw)
		switch field {
		case FieldReps:
			if raw == "" {
				set.TargetReps = nil
			} else if reps, ok := parseReps(raw); ok {
				set.TargetReps = gym.Reps(reps)
			}
		case FieldKg:
			if raw == "" {
				set.TargetKg = nil
			} else if kg, ok := parseKg(raw); ok {
				set.TargetKg = gym.Kg(kg)
			}
		}
		return nil
	})
}

func parseReps(raw string) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0
	}
	// "8.0" style input keeps its integer part
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

func parseKg(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func mutateSet(s gym.Session, exerciseID, setID string, mutate func(*gym.SessionSet) error) (gym.Session, error) {
	if s.Status == gym.StatusFinished {
		return s, ErrSessionLocked
	}

	exIdx := -1
	for i, ex := range s.Exercises {
		if ex.ID == exerciseID {
			exIdx = i
			break
		}
	}
	if exIdx < 0 {
		return s, ErrExerciseNotFound
	}
	setIdx := -1
	for i, set := range s.Exercises[exIdx].Sets {
		if set.ID == setID {
			setIdx = i
			break
		}
	}
	if setIdx < 0 {
		return s, ErrSetNotFound
	}

	out := s.Clone()
	ex := &out.Exercises[exIdx]
	if err := mutate(&ex.Sets[setIdx]); err != nil {
		return s, err
	}
	ex.Done = gym.ExerciseDone(ex.Sets, ex.Done)
	return out, nil
}

// IsIncomplete reports whether finishing now would leave work undone.
func IsIncomplete(s gym.Session) bool {
	return gym.HasIncompleteWork(s.Exercises)
}

// Finish stamps finishedAt and moves the session to finished, or to
// unfinished when work is left and the caller confirmed it. Without that
// confirmation the session is returned as is with ErrNeedsConfirmation.
func Finish(s gym.Session, confirmIncomplete bool, now time.Time) (gym.Session, error) {
	if s.Status == gym.StatusFinished {
		return s, ErrSessionLocked
	}

	incomplete := IsIncomplete(s)
	if incomplete && !confirmIncomplete {
		return s, ErrNeedsConfirmation
	}

	out := s.Clone()
	out.Status = gym.StatusFinished
	if incomplete {
		out.Status = gym.StatusUnfinished
	}
	finishedAt := now
	out.FinishedAt = &finishedAt
	durationSec := int(Elapsed(out, now) / time.Second)
	out.DurationSec = &durationSec
	return out, nil
}

// Elapsed is the time since start, frozen at finishedAt once set.
func Elapsed(s gym.Session, now time.Time) time.Duration {
	end := now
	if s.FinishedAt != nil {
		end = *s.FinishedAt
	}
	if d := end.Sub(s.StartedAt); d > 0 {
		return d
	}
	return 0
}

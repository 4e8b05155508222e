package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/muscles"
	"github.com/2beens/gymprogress/internal/gym/overload"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Service struct {
	repo    *Repo
	clock   gym.Clock
	newID   gym.IDGenerator
	metrics *metrics.Manager
}

func NewService(repo *Repo, clock gym.Clock, newID gym.IDGenerator, metricsManager *metrics.Manager) *Service {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	if newID == nil {
		newID = gym.NewID
	}
	return &Service{
		repo:    repo,
		clock:   clock,
		newID:   newID,
		metrics: metricsManager,
	}
}

// FinishResult is the outcome of logging one plan workout.
type FinishResult struct {
	SessionID string            `json:"sessionId"`
	Plan      gym.Plan          `json:"plan"`
	Changes   []overload.Change `json:"changes"`
}

// Create saves a plan built from the title alone when no workouts are given.
func (s *Service) Create(ctx context.Context, ownerID string, p gym.Plan) (string, error) {
	if len(p.Workouts) == 0 {
		p.Workouts = NewPlan(p.Title, s.newID).Workouts
	}
	for i := range p.Workouts {
		if p.Workouts[i].ID == "" {
			p.Workouts[i].ID = s.newID()
		}
	}
	return s.repo.Create(ctx, ownerID, p)
}

func (s *Service) Get(ctx context.Context, ownerID, planID string) (gym.Plan, error) {
	return s.repo.Get(ctx, ownerID, planID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]gym.Plan, error) {
	return s.repo.List(ctx, ownerID)
}

// Update replaces the plan. Weights of exercises already in the plan never go
// down; only FinishWorkout raises them.
func (s *Service) Update(ctx context.Context, ownerID string, p gym.Plan) error {
	_, err := s.edit(ctx, ownerID, p.ID, func(gym.Plan) (gym.Plan, error) {
		return p, nil
	})
	return err
}

func (s *Service) AddWorkout(ctx context.Context, ownerID, planID string) (gym.Plan, error) {
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		return AddWorkout(p, s.newID), nil
	})
}

func (s *Service) RenameWorkout(ctx context.Context, ownerID, planID, workoutID, name string) (gym.Plan, error) {
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		if _, _, ok := p.Workout(workoutID); !ok {
			return gym.Plan{}, ErrWorkoutNotFound
		}
		return RenameWorkout(p, workoutID, name), nil
	})
}

func (s *Service) RemoveWorkout(ctx context.Context, ownerID, planID, workoutID string) (gym.Plan, error) {
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		if _, _, ok := p.Workout(workoutID); !ok {
			return gym.Plan{}, ErrWorkoutNotFound
		}
		return RemoveWorkout(p, workoutID), nil
	})
}

func (s *Service) AddExercise(ctx context.Context, ownerID, planID, workoutID string, ref gym.ExerciseRef) (gym.Plan, error) {
	if ref.ExerciseID == "" {
		return gym.Plan{}, errors.Join(ErrInvalidPlan, errors.New("exercise id is empty"))
	}
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		if _, _, ok := p.Workout(workoutID); !ok {
			return gym.Plan{}, ErrWorkoutNotFound
		}
		return AddExercise(p, workoutID, ref), nil
	})
}

// UpdateExercise applies a form patch; a lower currentWeightKg is ignored.
func (s *Service) UpdateExercise(ctx context.Context, ownerID, planID, workoutID, exerciseID string, patch ExercisePatch) (gym.Plan, error) {
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		if !hasExercise(p, workoutID, exerciseID) {
			return gym.Plan{}, ErrExerciseNotFound
		}
		return UpdateExercise(p, workoutID, exerciseID, patch), nil
	})
}

func (s *Service) RemoveExercise(ctx context.Context, ownerID, planID, workoutID, exerciseID string) (gym.Plan, error) {
	return s.edit(ctx, ownerID, planID, func(p gym.Plan) (gym.Plan, error) {
		if !hasExercise(p, workoutID, exerciseID) {
			return gym.Plan{}, ErrExerciseNotFound
		}
		return RemoveExercise(p, workoutID, exerciseID), nil
	})
}

// edit loads the plan, applies change and stores the result with the stored
// weights kept.
func (s *Service) edit(ctx context.Context, ownerID, planID string, change func(gym.Plan) (gym.Plan, error)) (_ gym.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.edit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	stored, err := s.repo.Get(ctx, ownerID, planID)
	if err != nil {
		return gym.Plan{}, err
	}
	changed, err := change(stored)
	if err != nil {
		return gym.Plan{}, err
	}
	changed.ID = planID
	updated := KeepProgress(stored, changed)

	if err := s.repo.Update(ctx, ownerID, updated); err != nil {
		return gym.Plan{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, planID string) error {
	return s.repo.Delete(ctx, ownerID, planID)
}

// FinishWorkout logs the performed workout, raises the weights it earned and
// stores the plan. The log is written first; a failed plan update leaves the
// log behind and is reported to the caller.
func (s *Service) FinishWorkout(
	ctx context.Context,
	ownerID, planID, workoutID string,
	inputs []PerformedInput,
	startedAt time.Time,
) (_ FinishResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.plans.finishworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("plan.id", planID),
		attribute.String("workout.id", workoutID),
	)

	plan, err := s.repo.Get(ctx, ownerID, planID)
	if err != nil {
		return FinishResult{}, err
	}
	workout, _, ok := plan.Workout(workoutID)
	if !ok {
		return FinishResult{}, ErrWorkoutNotFound
	}

	performed := ParsePerformed(workout, inputs)
	updated, changes, err := overload.Apply(plan, workoutID, performed)
	if err != nil {
		if errors.Is(err, overload.ErrWorkoutNotFound) {
			return FinishResult{}, ErrWorkoutNotFound
		}
		return FinishResult{}, fmt.Errorf("apply overload: %w", err)
	}
	increases := overload.Increases(changes)
	span.SetAttributes(attribute.Int("overload.increases", increases))

	finishedAt := s.clock.Now()
	if startedAt.IsZero() || startedAt.After(finishedAt) {
		startedAt = finishedAt
	}

	var primary, secondary []string
	for _, it := range workout.Items {
		primary = append(primary, it.PrimaryMuscles...)
		secondary = append(secondary, it.SecondaryMuscles...)
	}

	sessionID, err := s.repo.LogWorkout(ctx, ownerID, WorkoutLog{
		PlanID:          planID,
		WorkoutID:       workoutID,
		WorkoutName:     workout.Name,
		MusclesWorked:   muscles.MusclesToSlugs(primary, secondary),
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		Performed:       performed,
		OverloadApplied: increases > 0,
	})
	if err != nil {
		return FinishResult{}, err
	}

	if err := s.repo.Update(ctx, ownerID, updated); err != nil {
		return FinishResult{}, fmt.Errorf("store progressed plan: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterOverloadIncreases.Add(float64(increases))
	}
	log.Debugf("plan %s workout %s finished, %d exercise(s) progressed", planID, workoutID, increases)

	return FinishResult{
		SessionID: sessionID,
		Plan:      updated,
		Changes:   changes,
	}, nil
}

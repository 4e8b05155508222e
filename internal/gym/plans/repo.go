package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	docs  docstore.Store
	clock gym.Clock
}

func NewRepo(docs docstore.Store, clock gym.Clock) *Repo {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	return &Repo{
		docs:  docs,
		clock: clock,
	}
}

func planPath(ownerID, planID string) docstore.Path {
	return docstore.Path{OwnerID: ownerID, Collection: gym.CollectionPlans, ID: planID}
}

func (r *Repo) Create(ctx context.Context, ownerID string, p gym.Plan) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return "", gym.ErrMissingOwnerID
	}
	if err := Validate(p); err != nil {
		return "", err
	}

	doc := gym.EncodePlan(p)
	doc["createdAt"] = r.clock.Now().UnixMilli()
	id, err := r.docs.Create(ctx, ownerID, gym.CollectionPlans, doc)
	if err != nil {
		return "", fmt.Errorf("create plan: %w", err)
	}
	span.SetAttributes(attribute.String("plan.id", id))
	return id, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, planID string) (_ gym.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.Plan{}, gym.ErrMissingOwnerID
	}
	if planID == "" {
		return gym.Plan{}, gym.ErrMissingPlanID
	}
	span.SetAttributes(attribute.String("plan.id", planID))

	doc, err := r.docs.Get(ctx, planPath(ownerID, planID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return gym.Plan{}, ErrPlanNotFound
		}
		return gym.Plan{}, fmt.Errorf("get plan: %w", err)
	}
	return gym.ParsePlan(planID, doc), nil
}

// List returns the owner's plans, newest first.
func (r *Repo) List(ctx context.Context, ownerID string) (_ []gym.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	snaps, err := r.docs.Query(ctx, docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionPlans,
		OrderBy:    "createdAt",
		Desc:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	out := make([]gym.Plan, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, gym.ParsePlan(snap.ID, snap.Data))
	}
	return out, nil
}

// Update replaces title and workouts of a stored plan.
func (r *Repo) Update(ctx context.Context, ownerID string, p gym.Plan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.ErrMissingOwnerID
	}
	if p.ID == "" {
		return gym.ErrMissingPlanID
	}
	if err := Validate(p); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("plan.id", p.ID))

	if err := r.docs.Update(ctx, planPath(ownerID, p.ID), gym.EncodePlan(p)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("update plan: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, planID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.ErrMissingOwnerID
	}
	if planID == "" {
		return gym.ErrMissingPlanID
	}

	if err := r.docs.Delete(ctx, planPath(ownerID, planID)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrPlanNotFound
		}
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// WorkoutLog is what a finished plan workout leaves in the sessions collection.
type WorkoutLog struct {
	PlanID          string
	WorkoutID       string
	WorkoutName     string
	MusclesWorked   []string
	StartedAt       time.Time
	FinishedAt      time.Time
	Performed       []gym.PerformedExercise
	OverloadApplied bool
}

// LogWorkout stores the log and returns its id.
func (r *Repo) LogWorkout(ctx context.Context, ownerID string, l WorkoutLog) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "plans.repo.logworkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return "", gym.ErrMissingOwnerID
	}
	if l.PlanID == "" {
		return "", gym.ErrMissingPlanID
	}

	doc := gym.EncodePlanWorkoutLog(l.PlanID, l.WorkoutID, l.StartedAt, l.FinishedAt, l.Performed, l.OverloadApplied)
	// lets coverage and history read the log like any other session
	doc["name"] = l.WorkoutName
	musclesWorked := make([]any, 0, len(l.MusclesWorked))
	for _, m := range l.MusclesWorked {
		musclesWorked = append(musclesWorked, m)
	}
	doc["musclesWorked"] = musclesWorked
	id, err := r.docs.Create(ctx, ownerID, gym.CollectionSessions, doc)
	if err != nil {
		return "", fmt.Errorf("log plan workout: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", id))
	return id, nil
}

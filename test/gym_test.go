package test

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/coverage"
	"github.com/2beens/gymprogress/internal/gym/overload"
	"github.com/2beens/gymprogress/internal/gym/plans"
	"github.com/2beens/gymprogress/internal/gym/sessions"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var benchRef = gym.ExerciseRef{
	ExerciseID:       "Barbell_Bench_Press_-_Medium_Grip",
	Name:             "Barbell Bench Press - Medium Grip",
	PrimaryMuscles:   []string{"chest"},
	SecondaryMuscles: []string{"shoulders", "triceps"},
}

func (s *IntegrationTestSuite) TestPublicRoutes() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	status, body := s.do(ctx, http.MethodGet, "/version", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "test-version-info", string(body))

	status, body = s.do(ctx, http.MethodGet, "/gym/exercises/Crunches", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"name":"Crunches"`)

	status, _ = s.do(ctx, http.MethodGet, "/gym/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestTemplateSessionCarryForward() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()
	owner := gofakeit.UUID()

	status, body := s.do(ctx, http.MethodPost, "/gym/templates", owner, map[string]any{
		"name": "Push",
		"refs": []gym.ExerciseRef{benchRef},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created map[string]string
	s.decode(body, &created)
	templateID := created["id"]

	status, body = s.do(ctx, http.MethodPost, "/gym/sessions", owner, sessions.StartRequest{TemplateID: templateID})
	require.Equal(t, http.StatusCreated, status, string(body))
	var first sessions.SessionResponse
	s.decode(body, &first)
	require.Len(t, first.Exercises, 1)
	exercise := first.Exercises[0]
	require.Len(t, exercise.Sets, 3)

	// heavier first set, typed with a decimal comma
	status, body = s.do(ctx, http.MethodPost, "/gym/sessions/"+first.ID+"/edit", owner, sessions.SetRequest{
		ExerciseID: exercise.ID,
		SetID:      exercise.Sets[0].ID,
		Field:      sessions.FieldKg,
		Value:      "62,5",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = s.do(ctx, http.MethodPost, "/gym/sessions/"+first.ID+"/finish", owner, sessions.FinishRequest{})
	assert.Equal(t, http.StatusPreconditionRequired, status, string(body))

	status, body = s.do(ctx, http.MethodPost, "/gym/sessions/"+first.ID+"/finish", owner, sessions.FinishRequest{ConfirmIncomplete: true})
	require.Equal(t, http.StatusOK, status, string(body))
	s.decode(body, &first)
	assert.Equal(t, gym.StatusUnfinished, first.Status)

	status, _ = s.do(ctx, http.MethodPost, "/gym/sessions/"+first.ID+"/toggle", owner, sessions.SetRequest{
		ExerciseID: exercise.ID,
		SetID:      exercise.Sets[0].ID,
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.do(ctx, http.MethodPost, "/gym/sessions", owner, sessions.StartRequest{TemplateID: templateID})
	require.Equal(t, http.StatusCreated, status, string(body))
	var second sessions.SessionResponse
	s.decode(body, &second)
	require.Len(t, second.Exercises, 1)
	require.NotNil(t, second.Exercises[0].Sets[0].TargetKg)
	assert.Equal(t, 62.5, *second.Exercises[0].Sets[0].TargetKg)
	assert.False(t, second.Exercises[0].Sets[0].Done)

	// stored as documents owned by the caller
	var count int
	require.NoError(t, s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM documents WHERE owner_id = $1 AND collection = $2`,
		owner, gym.CollectionSessions,
	).Scan(&count))
	assert.Equal(t, 2, count)

	// nothing leaks to another owner
	status, _ = s.do(ctx, http.MethodGet, "/gym/sessions/"+second.ID, gofakeit.UUID(), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(ctx, http.MethodGet, "/gym/coverage/week", owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var week coverage.Week
	s.decode(body, &week)
	assert.Equal(t, 2, week.SessionCount)
	assert.Contains(t, week.Slugs, "chest")
}

func (s *IntegrationTestSuite) TestPlanProgression() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()
	owner := gofakeit.UUID()

	item := plans.NewPlanExercise(benchRef)
	item.CurrentWeightKg = 50
	item.Sets = 2
	item.RepMin = 8
	item.StepKg = 2.5
	plan := gym.Plan{
		Title:    "Upper / Lower",
		Workouts: []gym.Workout{{ID: "w1", Name: "Upper", Items: []gym.PlanExercise{item}}},
	}

	status, body := s.do(ctx, http.MethodPost, "/gym/plans", owner, plan)
	require.Equal(t, http.StatusCreated, status, string(body))
	var created map[string]string
	s.decode(body, &created)
	planID := created["id"]

	status, body = s.do(ctx, http.MethodGet, "/gym/plans/"+planID+"/workouts/w1/inputs", owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var inputs []plans.PerformedInput
	s.decode(body, &inputs)
	require.Len(t, inputs, 1)
	require.Len(t, inputs[0].Sets, 2)
	for i := range inputs[0].Sets {
		inputs[0].Sets[i].Reps = "8"
	}

	status, body = s.do(ctx, http.MethodPost, "/gym/plans/"+planID+"/workouts/w1/finish", owner, plans.FinishWorkoutRequest{
		StartedAt: time.Now().Add(-time.Hour).UTC(),
		Performed: inputs,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var result plans.FinishResult
	s.decode(body, &result)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, overload.OutcomeIncreased, result.Changes[0].Outcome)
	assert.Equal(t, 52.5, result.Plan.Workouts[0].Items[0].CurrentWeightKg)

	status, body = s.do(ctx, http.MethodGet, "/gym/plans/"+planID, owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var stored gym.Plan
	s.decode(body, &stored)
	assert.Equal(t, 52.5, stored.Workouts[0].Items[0].CurrentWeightKg)

	status, body = s.do(ctx, http.MethodGet, "/gym/sessions/"+result.SessionID, owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var logged sessions.SessionResponse
	s.decode(body, &logged)
	assert.Equal(t, gym.StatusFinished, logged.Status)
	assert.Equal(t, "Upper", logged.Name)
}

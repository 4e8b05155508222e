package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

type planService interface {
	Create(ctx context.Context, ownerID string, p gym.Plan) (string, error)
	Get(ctx context.Context, ownerID, planID string) (gym.Plan, error)
	List(ctx context.Context, ownerID string) ([]gym.Plan, error)
	Update(ctx context.Context, ownerID string, p gym.Plan) error
	Delete(ctx context.Context, ownerID, planID string) error
	FinishWorkout(ctx context.Context, ownerID, planID, workoutID string, inputs []PerformedInput, startedAt time.Time) (_ FinishResult, err error)
	AddWorkout(ctx context.Context, ownerID, planID string) (gym.Plan, error)
	RenameWorkout(ctx context.Context, ownerID, planID, workoutID, name string) (gym.Plan, error)
	RemoveWorkout(ctx context.Context, ownerID, planID, workoutID string) (gym.Plan, error)
	AddExercise(ctx context.Context, ownerID, planID, workoutID string, ref gym.ExerciseRef) (gym.Plan, error)
	UpdateExercise(ctx context.Context, ownerID, planID, workoutID, exerciseID string, patch ExercisePatch) (gym.Plan, error)
	RemoveExercise(ctx context.Context, ownerID, planID, workoutID, exerciseID string) (gym.Plan, error)
}

type FinishWorkoutRequest struct {
	StartedAt time.Time        `json:"startedAt"`
	Performed []PerformedInput `json:"performed"`
}

type RenameWorkoutRequest struct {
	Name string `json:"name"`
}

type Handler struct {
	service planService
}

func NewHandler(service planService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.create")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p gym.Plan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Errorf("create plan, unmarshal json params: %s", err)
		http.Error(w, "create plan failed", http.StatusBadRequest)
		return
	}

	id, err := h.service.Create(ctx, ownerID, p)
	if err != nil {
		writeError(w, "create plan", err)
		return
	}
	respJson, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		log.Errorf("marshal create plan response: %s", err)
		http.Error(w, "create plan failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.list")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	list, err := h.service.List(ctx, ownerID)
	if err != nil {
		writeError(w, "list plans", err)
		return
	}
	writeJSON(w, list, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.get")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	p, err := h.service.Get(ctx, ownerID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "get plan", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.update")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var p gym.Plan
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Errorf("update plan, unmarshal json params: %s", err)
		http.Error(w, "update plan failed", http.StatusBadRequest)
		return
	}
	p.ID = mux.Vars(r)["id"]

	if err := h.service.Update(ctx, ownerID, p); err != nil {
		writeError(w, "update plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.delete")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(ctx, ownerID, mux.Vars(r)["id"]); err != nil {
		writeError(w, "delete plan", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleWorkoutInputs returns the prefilled performed-set rows for a workout.
func (h *Handler) HandleWorkoutInputs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.workoutinputs")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.Get(ctx, ownerID, vars["id"])
	if err != nil {
		writeError(w, "get plan", err)
		return
	}
	workout, _, found := p.Workout(vars["workoutId"])
	if !found {
		writeError(w, "get plan workout", ErrWorkoutNotFound)
		return
	}
	writeJSON(w, InitialInputs(workout), http.StatusOK)
}

func (h *Handler) HandleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.finishworkout")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req FinishWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("finish plan workout, unmarshal json params: %s", err)
		http.Error(w, "finish workout failed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	result, err := h.service.FinishWorkout(ctx, ownerID, vars["id"], vars["workoutId"], req.Performed, req.StartedAt)
	if err != nil {
		writeError(w, "finish plan workout", err)
		return
	}
	writeJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.addworkout")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	p, err := h.service.AddWorkout(ctx, ownerID, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "add plan workout", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleRenameWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.renameworkout")
	defer span.End()

	ownerID, ok := decodeOwnerJSON(ctx, w, r)
	if !ok {
		return
	}
	var req RenameWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("rename plan workout, unmarshal json params: %s", err)
		http.Error(w, "rename workout failed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.RenameWorkout(ctx, ownerID, vars["id"], vars["workoutId"], req.Name)
	if err != nil {
		writeError(w, "rename plan workout", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleRemoveWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.removeworkout")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.RemoveWorkout(ctx, ownerID, vars["id"], vars["workoutId"])
	if err != nil {
		writeError(w, "remove plan workout", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.addexercise")
	defer span.End()

	ownerID, ok := decodeOwnerJSON(ctx, w, r)
	if !ok {
		return
	}
	var ref gym.ExerciseRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		log.Errorf("add plan exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.AddExercise(ctx, ownerID, vars["id"], vars["workoutId"], ref)
	if err != nil {
		writeError(w, "add plan exercise", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

// HandleUpdateExercise takes raw form values, see ExercisePatch.
func (h *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.updateexercise")
	defer span.End()

	ownerID, ok := decodeOwnerJSON(ctx, w, r)
	if !ok {
		return
	}
	var patch ExercisePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Errorf("update plan exercise, unmarshal json params: %s", err)
		http.Error(w, "update exercise failed", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.UpdateExercise(ctx, ownerID, vars["id"], vars["workoutId"], vars["exerciseId"], patch)
	if err != nil {
		writeError(w, "update plan exercise", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.plans.removeexercise")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	p, err := h.service.RemoveExercise(ctx, ownerID, vars["id"], vars["workoutId"], vars["exerciseId"])
	if err != nil {
		writeError(w, "remove plan exercise", err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func decodeOwnerJSON(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return "", false
	}
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return "", false
	}
	return ownerID, true
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal plans response: %s", err)
		http.Error(w, "marshal response failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrWorkoutNotFound), errors.Is(err, ErrExerciseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidPlan), errors.Is(err, gym.ErrMissingPlanID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}

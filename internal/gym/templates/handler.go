package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=templates_test

type templateStore interface {
	Create(ctx context.Context, ownerID, name string, exercises []gym.TemplateExercise) (_ string, err error)
	Get(ctx context.Context, ownerID, templateID string) (_ gym.Template, err error)
	List(ctx context.Context, ownerID string) (_ []gym.Template, err error)
	Edit(ctx context.Context, ownerID, templateID string, e Edit) (_ gym.Template, err error)
	Delete(ctx context.Context, ownerID, templateID string) (err error)
}

// CreateRequest takes either fully prescribed exercises or bare catalog refs,
// which get the default 12/10/8 sets.
type CreateRequest struct {
	Name      string                 `json:"name"`
	Exercises []gym.TemplateExercise `json:"exercises"`
	Refs      []gym.ExerciseRef      `json:"refs"`
}

type Handler struct {
	store templateStore
	newID gym.IDGenerator
}

func NewHandler(store templateStore, newID gym.IDGenerator) *Handler {
	if newID == nil {
		newID = gym.NewID
	}
	return &Handler{
		store: store,
		newID: newID,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.templates.create")
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

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("create template, unmarshal json params: %s", err)
		http.Error(w, "create template failed", http.StatusBadRequest)
		return
	}

	exercises := req.Exercises
	if len(exercises) == 0 && len(req.Refs) > 0 {
		exercises = NewExercises(req.Refs, h.newID)
	}

	id, err := h.store.Create(ctx, ownerID, req.Name, exercises)
	if err != nil {
		if errors.Is(err, ErrInvalidTemplate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("create template: %s", err)
		http.Error(w, "create template failed", http.StatusInternalServerError)
		return
	}
	span.SetAttributes(attribute.String("template.id", id))

	respJson, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		log.Errorf("marshal create template response: %s", err)
		http.Error(w, "create template failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.templates.list")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	list, err := h.store.List(ctx, ownerID)
	if err != nil {
		log.Errorf("list templates: %s", err)
		http.Error(w, "list templates failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(list)
	if err != nil {
		log.Errorf("marshal templates: %s", err)
		http.Error(w, "list templates failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.templates.get")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	templateID := mux.Vars(r)["id"]
	t, err := h.store.Get(ctx, ownerID, templateID)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("get template %s: %s", templateID, err)
		http.Error(w, "get template failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(t)
	if err != nil {
		log.Errorf("marshal template %s: %s", templateID, err)
		http.Error(w, "get template failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleEdit applies one editor change and returns the saved template.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.templates.edit")
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

	var edit Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		log.Errorf("edit template, unmarshal json params: %s", err)
		http.Error(w, "edit template failed", http.StatusBadRequest)
		return
	}

	templateID := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("template.id", templateID))
	t, err := h.store.Edit(ctx, ownerID, templateID, edit)
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			http.Error(w, "template not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidTemplate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Errorf("edit template %s: %s", templateID, err)
			http.Error(w, "edit template failed", http.StatusInternalServerError)
		}
		return
	}

	respJson, err := json.Marshal(t)
	if err != nil {
		log.Errorf("marshal template %s: %s", templateID, err)
		http.Error(w, "edit template failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.templates.delete")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	templateID := mux.Vars(r)["id"]
	if err := h.store.Delete(ctx, ownerID, templateID); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete template %s: %s", templateID, err)
		http.Error(w, "delete template failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

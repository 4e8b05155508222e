package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSearchLimit = 50

type ExerciseResponse struct {
	Exercise
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
}

func toResponse(ex Exercise) ExerciseResponse {
	return ExerciseResponse{
		Exercise: ex,
		ImageURL: ex.PreviewImageURL(),
		Tags:     ex.Tags(),
	}
}

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

// HandleSearch serves GET /gym/exercises?q=&tag=&limit=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.catalog.search")
	defer span.End()

	query := r.URL.Query().Get("q")
	tags := r.URL.Query()["tag"]
	limit := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	found := h.catalog.Search(ctx, query, tags)
	span.SetAttributes(attribute.Int("results", len(found)))
	if len(found) > limit {
		found = found[:limit]
	}

	resp := make([]ExerciseResponse, 0, len(found))
	for _, ex := range found {
		resp = append(resp, toResponse(ex))
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal catalog search results: %s", err)
		http.Error(w, "search exercises failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleGet serves GET /gym/exercises/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.catalog.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("exercise.id", id))

	ex, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("get exercise %s: %s", id, err)
		http.Error(w, "get exercise failed", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(toResponse(ex))
	if err != nil {
		log.Errorf("marshal exercise %s: %s", id, err)
		http.Error(w, "get exercise failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

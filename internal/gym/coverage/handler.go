package coverage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=coverage_test

type coverageService interface {
	Week(ctx context.Context, ownerID string, offset int) (Week, error)
	Subscribe(ctx context.Context, ownerID string, offset int) (<-chan Week, error)
}

type Handler struct {
	service coverageService
}

func NewHandler(service coverageService) *Handler {
	return &Handler{
		service: service,
	}
}

func parseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) HandleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.coverage.week")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	offset, err := parseOffset(r)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}

	week, err := h.service.Week(ctx, ownerID, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	respJson, err := json.Marshal(week)
	if err != nil {
		log.Errorf("marshal coverage week: %s", err)
		http.Error(w, "get coverage failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleWatch streams the week as server-sent events until the client leaves.
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	offset, err := parseOffset(r)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	weeks, err := h.service.Subscribe(ctx, ownerID, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for week := range weeks {
		data, err := json.Marshal(week)
		if err != nil {
			log.Errorf("marshal coverage week: %s", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: week\ndata: %s\n\n", data); err != nil {
			log.Debugf("coverage watch [%s]: client gone: %s", ownerID, err)
			return
		}
		flusher.Flush()
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, gym.ErrMissingOwnerID) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("coverage: %s", err)
	http.Error(w, "get coverage failed", http.StatusInternalServerError)
}

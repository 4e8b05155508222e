package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/templates"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions_test

type sessionService interface {
	StartFromTemplate(ctx context.Context, ownerID, templateID string) (_ gym.Session, err error)
	StartFromScratch(ctx context.Context, ownerID, name string, refs []gym.ExerciseRef) (_ gym.Session, err error)
	Get(ctx context.Context, ownerID, sessionID string) (gym.Session, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]gym.Session, error)
	SubscribeRecent(ctx context.Context, ownerID string, limit int) (<-chan []gym.Session, error)
	LatestForTemplate(ctx context.Context, ownerID, templateID string) (gym.Session, error)
	Previous(ctx context.Context, ownerID, sessionID string) (_ gym.Session, err error)
	Delete(ctx context.Context, ownerID, sessionID string) error
	ToggleSet(ctx context.Context, ownerID, sessionID, exerciseID, setID string) (_ gym.Session, err error)
	EditSet(ctx context.Context, ownerID, sessionID, exerciseID, setID string, field Field, raw string) (_ gym.Session, err error)
	Finish(ctx context.Context, ownerID, sessionID string, confirmIncomplete bool) (_ gym.Session, err error)
}

const defaultRecentLimit = 20

type StartRequest struct {
	TemplateID string            `json:"templateId"`
	Name       string            `json:"name"`
	Refs       []gym.ExerciseRef `json:"refs"`
}

type SetRequest struct {
	ExerciseID string `json:"exerciseId"`
	SetID      string `json:"setId"`
	Field      Field  `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
}

type FinishRequest struct {
	ConfirmIncomplete bool `json:"confirmIncomplete"`
}

// SessionResponse adds the derived display values to a session.
type SessionResponse struct {
	gym.Session
	ElapsedSec int  `json:"elapsedSec"`
	Incomplete bool `json:"incomplete"`
}

type Handler struct {
	service sessionService
	clock   gym.Clock
}

func NewHandler(service sessionService, clock gym.Clock) *Handler {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	return &Handler{
		service: service,
		clock:   clock,
	}
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.start")
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

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("start session, unmarshal json params: %s", err)
		http.Error(w, "start session failed", http.StatusBadRequest)
		return
	}

	var (
		session gym.Session
		err     error
	)
	if req.TemplateID != "" {
		span.SetAttributes(attribute.String("template.id", req.TemplateID))
		session, err = h.service.StartFromTemplate(ctx, ownerID, req.TemplateID)
	} else {
		session, err = h.service.StartFromScratch(ctx, ownerID, req.Name, req.Refs)
	}
	if err != nil {
		h.writeError(w, "start session", err)
		return
	}
	h.writeSession(w, session, http.StatusCreated)
}

func parseLimit(r *http.Request) (int, error) {
	limitParam := r.URL.Query().Get("limit")
	if limitParam == "" {
		return defaultRecentLimit, nil
	}
	limit, err := strconv.Atoi(limitParam)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", limitParam)
	}
	return limit, nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.list")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	list, err := h.service.ListRecent(ctx, ownerID, limit)
	if err != nil {
		h.writeError(w, "list sessions", err)
		return
	}

	now := h.clock.Now()
	resp := make([]SessionResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, h.toResponse(s, now))
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal sessions: %s", err)
		http.Error(w, "list sessions failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// HandleWatch streams the recent sessions as server-sent events until the
// client leaves.
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	updates, err := h.service.SubscribeRecent(ctx, ownerID, limit)
	if err != nil {
		h.writeError(w, "watch sessions", err)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for list := range updates {
		now := h.clock.Now()
		resp := make([]SessionResponse, 0, len(list))
		for _, s := range list {
			resp = append(resp, h.toResponse(s, now))
		}
		data, err := json.Marshal(resp)
		if err != nil {
			log.Errorf("marshal sessions: %s", err)
			return
		}
		if _, err := fmt.Fprintf(w, "event: sessions\ndata: %s\n\n", data); err != nil {
			log.Debugf("sessions watch [%s]: client gone: %s", ownerID, err)
			return
		}
		flusher.Flush()
	}
}

// HandleLatestForTemplate serves the last session started from a template.
func (h *Handler) HandleLatestForTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.latestfortemplate")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	templateID := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("template.id", templateID))
	session, err := h.service.LatestForTemplate(ctx, ownerID, templateID)
	if err != nil {
		h.writeError(w, "latest template session", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.previous")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	session, err := h.service.Previous(ctx, ownerID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "previous session", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.get")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	session, err := h.service.Get(ctx, ownerID, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get session", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.delete")
	defer span.End()

	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(ctx, ownerID, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleToggleSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.toggleset")
	defer span.End()

	ownerID, req, ok := h.decodeSetRequest(ctx, w, r)
	if !ok {
		return
	}
	session, err := h.service.ToggleSet(ctx, ownerID, mux.Vars(r)["id"], req.ExerciseID, req.SetID)
	if err != nil {
		h.writeError(w, "toggle set", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) HandleEditSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.editset")
	defer span.End()

	ownerID, req, ok := h.decodeSetRequest(ctx, w, r)
	if !ok {
		return
	}
	session, err := h.service.EditSet(ctx, ownerID, mux.Vars(r)["id"], req.ExerciseID, req.SetID, req.Field, req.Value)
	if err != nil {
		h.writeError(w, "edit set", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gym.sessions.finish")
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

	var req FinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("finish session, unmarshal json params: %s", err)
		http.Error(w, "finish session failed", http.StatusBadRequest)
		return
	}

	session, err := h.service.Finish(ctx, ownerID, mux.Vars(r)["id"], req.ConfirmIncomplete)
	if err != nil {
		h.writeError(w, "finish session", err)
		return
	}
	h.writeSession(w, session, http.StatusOK)
}

func (h *Handler) decodeSetRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, SetRequest, bool) {
	ownerID, ok := gym.OwnerFromContext(ctx)
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return "", SetRequest{}, false
	}
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return "", SetRequest{}, false
	}

	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("set request, unmarshal json params: %s", err)
		http.Error(w, "invalid set request", http.StatusBadRequest)
		return "", SetRequest{}, false
	}
	return ownerID, req, true
}

func (h *Handler) toResponse(s gym.Session, now time.Time) SessionResponse {
	return SessionResponse{
		Session:    s,
		ElapsedSec: int(Elapsed(s, now) / time.Second),
		Incomplete: IsIncomplete(s),
	}
}

func (h *Handler) writeSession(w http.ResponseWriter, s gym.Session, status int) {
	respJson, err := json.Marshal(h.toResponse(s, h.clock.Now()))
	if err != nil {
		log.Errorf("marshal session %s: %s", s.ID, err)
		http.Error(w, "marshal session failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, status)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, templates.ErrTemplateNotFound),
		errors.Is(err, ErrExerciseNotFound),
		errors.Is(err, ErrSetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSessionLocked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNeedsConfirmation):
		http.Error(w, err.Error(), http.StatusPreconditionRequired)
	case errors.Is(err, ErrUnknownField),
		errors.Is(err, gym.ErrMissingTemplateID),
		errors.Is(err, gym.ErrMissingSessionID),
		errors.Is(err, gym.ErrMissingOwnerID):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, op+" failed", http.StatusInternalServerError)
	}
}

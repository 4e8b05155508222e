package sessions

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

var ErrSessionNotFound = errors.New("session not found")

// carry-forward looks at this many recent sessions of a template
const templateHistoryLimit = 20

type Repo struct {
	docs docstore.Store
}

func NewRepo(docs docstore.Store) *Repo {
	return &Repo{
		docs: docs,
	}
}

func sessionPath(ownerID, sessionID string) docstore.Path {
	return docstore.Path{OwnerID: ownerID, Collection: gym.CollectionSessions, ID: sessionID}
}

// Create stores a new session and returns it with its id set.
func (r *Repo) Create(ctx context.Context, ownerID string, s gym.Session) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.Session{}, gym.ErrMissingOwnerID
	}

	id, err := r.docs.Create(ctx, ownerID, gym.CollectionSessions, gym.EncodeSession(s))
	if err != nil {
		return gym.Session{}, fmt.Errorf("create session: %w", err)
	}
	span.SetAttributes(attribute.String("session.id", id))

	s = s.Clone()
	s.ID = id
	return s, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, sessionID string) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.Session{}, gym.ErrMissingOwnerID
	}
	if sessionID == "" {
		return gym.Session{}, gym.ErrMissingSessionID
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	doc, err := r.docs.Get(ctx, sessionPath(ownerID, sessionID))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return gym.Session{}, ErrSessionNotFound
		}
		return gym.Session{}, fmt.Errorf("get session: %w", err)
	}
	return gym.ParseSession(sessionID, doc), nil
}

// Save writes the whole session document over the stored one.
func (r *Repo) Save(ctx context.Context, ownerID string, s gym.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.ErrMissingOwnerID
	}
	if s.ID == "" {
		return gym.ErrMissingSessionID
	}
	span.SetAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.status", s.Status.String()),
	)

	if err := r.docs.Update(ctx, sessionPath(ownerID, s.ID), gym.EncodeSession(s)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, sessionID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.ErrMissingOwnerID
	}
	if sessionID == "" {
		return gym.ErrMissingSessionID
	}

	if err := r.docs.Delete(ctx, sessionPath(ownerID, sessionID)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func templateQuery(ownerID, templateID string, limit int) docstore.Query {
	return docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionSessions,
		Where:      []docstore.Filter{docstore.Where("templateId", docstore.OpEq, templateID)},
		OrderBy:    "startedAt",
		Desc:       true,
		Limit:      limit,
	}
}

// ForTemplate returns up to limit sessions of the template, latest first.
func (r *Repo) ForTemplate(ctx context.Context, ownerID, templateID string, limit int) (_ []gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.fortemplate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	if templateID == "" {
		return nil, gym.ErrMissingTemplateID
	}
	span.SetAttributes(attribute.String("template.id", templateID))

	snaps, err := r.docs.Query(ctx, templateQuery(ownerID, templateID, limit))
	if err != nil {
		return nil, fmt.Errorf("query template sessions: %w", err)
	}
	return parseSessions(snaps), nil
}

// LatestForTemplate returns the most recently started session of the template.
func (r *Repo) LatestForTemplate(ctx context.Context, ownerID, templateID string) (gym.Session, error) {
	list, err := r.ForTemplate(ctx, ownerID, templateID, 1)
	if err != nil {
		return gym.Session{}, err
	}
	if len(list) == 0 {
		return gym.Session{}, ErrSessionNotFound
	}
	return list[0], nil
}

// PreviousForTemplate returns the latest session of the template other than
// excludeSessionID, typically the one just started.
func (r *Repo) PreviousForTemplate(ctx context.Context, ownerID, templateID, excludeSessionID string) (gym.Session, error) {
	list, err := r.ForTemplate(ctx, ownerID, templateID, 2)
	if err != nil {
		return gym.Session{}, err
	}
	for _, s := range list {
		if s.ID != excludeSessionID {
			return s, nil
		}
	}
	return gym.Session{}, ErrSessionNotFound
}

// CarryForwardSource picks the session a new one from the template should
// be seeded with, nil when the template was never used.
func (r *Repo) CarryForwardSource(ctx context.Context, ownerID, templateID string) (*gym.Session, error) {
	list, err := r.ForTemplate(ctx, ownerID, templateID, templateHistoryLimit)
	if err != nil {
		return nil, err
	}
	return SelectPrevious(templateID, list), nil
}

func recentQuery(ownerID string, limit int) docstore.Query {
	return docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionSessions,
		OrderBy:    "startedAt",
		Desc:       true,
		Limit:      limit,
	}
}

func (r *Repo) ListRecent(ctx context.Context, ownerID string, limit int) (_ []gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.listrecent")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	snaps, err := r.docs.Query(ctx, recentQuery(ownerID, limit))
	if err != nil {
		return nil, fmt.Errorf("list recent sessions: %w", err)
	}
	span.SetAttributes(attribute.Int("sessions.count", len(snaps)))
	return parseSessions(snaps), nil
}

func (r *Repo) SubscribeRecent(ctx context.Context, ownerID string, limit int) (<-chan []gym.Session, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	snaps, err := r.docs.Subscribe(ctx, recentQuery(ownerID, limit))
	if err != nil {
		return nil, fmt.Errorf("subscribe recent sessions: %w", err)
	}
	return docstore.MapSnapshots(ctx, snaps, parseSessions), nil
}

// RangeQuery selects sessions started in [from, to), latest first.
func RangeQuery(ownerID string, from, to time.Time) docstore.Query {
	return docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionSessions,
		Where: []docstore.Filter{
			docstore.Where("startedAt", docstore.OpGte, from.UnixMilli()),
			docstore.Where("startedAt", docstore.OpLt, to.UnixMilli()),
		},
		OrderBy: "startedAt",
		Desc:    true,
	}
}

func (r *Repo) ListInRange(ctx context.Context, ownerID string, from, to time.Time) (_ []gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessions.repo.listinrange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	span.SetAttributes(
		attribute.String("range.from", from.Format(time.RFC3339)),
		attribute.String("range.to", to.Format(time.RFC3339)),
	)

	snaps, err := r.docs.Query(ctx, RangeQuery(ownerID, from, to))
	if err != nil {
		return nil, fmt.Errorf("list sessions in range: %w", err)
	}
	return parseSessions(snaps), nil
}

func (r *Repo) SubscribeInRange(ctx context.Context, ownerID string, from, to time.Time) (<-chan []gym.Session, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	snaps, err := r.docs.Subscribe(ctx, RangeQuery(ownerID, from, to))
	if err != nil {
		return nil, fmt.Errorf("subscribe sessions in range: %w", err)
	}
	return docstore.MapSnapshots(ctx, snaps, parseSessions), nil
}

// SubscribeOne streams one session document. The stream ends with the
// context; a deleted session shows up with Exists false.
func (r *Repo) SubscribeOne(ctx context.Context, ownerID, sessionID string) (<-chan SessionUpdate, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	if sessionID == "" {
		return nil, gym.ErrMissingSessionID
	}
	snaps, err := r.docs.Subscribe(ctx, docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionSessions,
		Where:      []docstore.Filter{docstore.Where(docstore.FieldID, docstore.OpEq, sessionID)},
		Limit:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe session: %w", err)
	}
	return docstore.MapSnapshots(ctx, snaps, func(snaps []docstore.Snapshot) SessionUpdate {
		if len(snaps) == 0 {
			return SessionUpdate{}
		}
		return SessionUpdate{Session: gym.ParseSession(snaps[0].ID, snaps[0].Data), Exists: true}
	}), nil
}

// SessionUpdate is one inbound snapshot of a single session.
type SessionUpdate struct {
	Session gym.Session
	Exists  bool
}

func parseSessions(snaps []docstore.Snapshot) []gym.Session {
	out := make([]gym.Session, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, gym.ParseSession(snap.ID, snap.Data))
	}
	return out
}

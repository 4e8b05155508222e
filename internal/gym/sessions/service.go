package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type templateReader interface {
	Get(ctx context.Context, ownerID, templateID string) (gym.Template, error)
}

type Service struct {
	repo      *Repo
	templates templateReader
	factory   *Factory
	clock     gym.Clock
	metrics   *metrics.Manager
}

func NewService(
	repo *Repo,
	templates templateReader,
	factory *Factory,
	clock gym.Clock,
	metricsManager *metrics.Manager,
) *Service {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	return &Service{
		repo:      repo,
		templates: templates,
		factory:   factory,
		clock:     clock,
		metrics:   metricsManager,
	}
}

func (s *Service) StartFromTemplate(ctx context.Context, ownerID, templateID string) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start.template")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", templateID))

	if ownerID == "" {
		return gym.Session{}, gym.ErrMissingOwnerID
	}
	if templateID == "" {
		return gym.Session{}, gym.ErrMissingTemplateID
	}

	t, err := s.templates.Get(ctx, ownerID, templateID)
	if err != nil {
		return gym.Session{}, fmt.Errorf("get template: %w", err)
	}
	previous, err := s.repo.CarryForwardSource(ctx, ownerID, templateID)
	if err != nil {
		return gym.Session{}, fmt.Errorf("find previous session: %w", err)
	}
	if previous != nil {
		span.SetAttributes(attribute.String("session.previous.id", previous.ID))
	}

	session, err := s.factory.StartFromTemplate(ownerID, t, previous)
	if err != nil {
		return gym.Session{}, err
	}
	created, err := s.repo.Create(ctx, ownerID, session)
	if err != nil {
		return gym.Session{}, err
	}

	s.countStarted("template")
	log.Debugf("session %s started from template %s", created.ID, templateID)
	return created, nil
}

func (s *Service) StartFromScratch(ctx context.Context, ownerID, name string, refs []gym.ExerciseRef) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start.scratch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.factory.StartFromScratch(ownerID, name, refs)
	if err != nil {
		return gym.Session{}, err
	}
	created, err := s.repo.Create(ctx, ownerID, session)
	if err != nil {
		return gym.Session{}, err
	}

	s.countStarted("scratch")
	return created, nil
}

func (s *Service) Get(ctx context.Context, ownerID, sessionID string) (gym.Session, error) {
	return s.repo.Get(ctx, ownerID, sessionID)
}

func (s *Service) ListRecent(ctx context.Context, ownerID string, limit int) ([]gym.Session, error) {
	return s.repo.ListRecent(ctx, ownerID, limit)
}

// LatestForTemplate is the session most recently started from the template.
func (s *Service) LatestForTemplate(ctx context.Context, ownerID, templateID string) (gym.Session, error) {
	return s.repo.LatestForTemplate(ctx, ownerID, templateID)
}

// Previous returns the latest other session of the same template, the one a
// session is compared against. Sessions started from scratch have none.
func (s *Service) Previous(ctx context.Context, ownerID, sessionID string) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.previous")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.repo.Get(ctx, ownerID, sessionID)
	if err != nil {
		return gym.Session{}, err
	}
	if session.TemplateID == "" {
		return gym.Session{}, ErrSessionNotFound
	}
	span.SetAttributes(attribute.String("template.id", session.TemplateID))
	return s.repo.PreviousForTemplate(ctx, ownerID, session.TemplateID, sessionID)
}

// SubscribeRecent streams the latest limit sessions on every change until ctx
// is done.
func (s *Service) SubscribeRecent(ctx context.Context, ownerID string, limit int) (<-chan []gym.Session, error) {
	in, err := s.repo.SubscribeRecent(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	if s.metrics == nil {
		return in, nil
	}

	s.metrics.GaugeSubscriptions.WithLabelValues(gym.CollectionSessions).Inc()
	out := make(chan []gym.Session)
	go func() {
		defer func() {
			close(out)
			s.metrics.GaugeSubscriptions.WithLabelValues(gym.CollectionSessions).Dec()
		}()
		for list := range in {
			select {
			case out <- list:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, sessionID string) error {
	return s.repo.Delete(ctx, ownerID, sessionID)
}

func (s *Service) ToggleSet(ctx context.Context, ownerID, sessionID, exerciseID, setID string) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.toggleset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	updated, err := s.update(ctx, ownerID, sessionID, func(session gym.Session) (gym.Session, error) {
		return ToggleSet(session, exerciseID, setID)
	})
	if err != nil {
		return updated, err
	}
	if s.metrics != nil {
		s.metrics.CounterSetsToggled.Inc()
	}
	return updated, nil
}

func (s *Service) EditSet(ctx context.Context, ownerID, sessionID, exerciseID, setID string, field Field, raw string) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.editset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.update(ctx, ownerID, sessionID, func(session gym.Session) (gym.Session, error) {
		return EditSet(session, exerciseID, setID, field, raw)
	})
}

// Finish returns the unchanged session together with ErrNeedsConfirmation
// when sets are left and the caller did not confirm.
func (s *Service) Finish(ctx context.Context, ownerID, sessionID string, confirmIncomplete bool) (_ gym.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.finish")
	defer func() {
		if errors.Is(err, ErrNeedsConfirmation) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	finished, err := s.update(ctx, ownerID, sessionID, func(session gym.Session) (gym.Session, error) {
		return Finish(session, confirmIncomplete, s.clock.Now())
	})
	if err != nil {
		return finished, err
	}

	span.SetAttributes(attribute.String("session.status", finished.Status.String()))
	if s.metrics != nil {
		s.metrics.CounterSessionsFinished.WithLabelValues(finished.Status.String()).Inc()
	}
	return finished, nil
}

func (s *Service) update(ctx context.Context, ownerID, sessionID string, mutate func(gym.Session) (gym.Session, error)) (gym.Session, error) {
	session, err := s.repo.Get(ctx, ownerID, sessionID)
	if err != nil {
		return gym.Session{}, err
	}
	updated, err := mutate(session)
	if err != nil {
		return updated, err
	}
	if err := s.repo.Save(ctx, ownerID, updated); err != nil {
		return gym.Session{}, err
	}
	return updated, nil
}

// OpenDraft loads the session and keeps a draft of it in sync with the store
// until ctx is done.
func (s *Service) OpenDraft(ctx context.Context, ownerID, sessionID string, onError func(error)) (*Draft, error) {
	session, err := s.repo.Get(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	draft, err := NewDraft(ownerID, session, s.repo, onError)
	if err != nil {
		return nil, err
	}
	updates, err := s.repo.SubscribeOne(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	go draft.Follow(updates)
	return draft, nil
}

func (s *Service) countStarted(source string) {
	if s.metrics != nil {
		s.metrics.CounterSessionsStarted.WithLabelValues(source).Inc()
	}
}

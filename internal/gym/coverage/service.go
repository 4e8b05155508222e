package coverage

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type sessionRanger interface {
	ListInRange(ctx context.Context, ownerID string, from, to time.Time) ([]gym.Session, error)
	SubscribeInRange(ctx context.Context, ownerID string, from, to time.Time) (<-chan []gym.Session, error)
}

type Service struct {
	sessions sessionRanger
	clock    gym.Clock
	loc      *time.Location
	metrics  *metrics.Manager
}

func NewService(sessions sessionRanger, clock gym.Clock, loc *time.Location, metricsManager *metrics.Manager) *Service {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		sessions: sessions,
		clock:    clock,
		loc:      loc,
		metrics:  metricsManager,
	}
}

// window resolves a week offset; future weeks clamp to the current one.
func (s *Service) window(offset int) (Window, int) {
	if offset > 0 {
		offset = 0
	}
	now := s.clock.Now()
	return ShiftWeeks(WeekWindow(now, s.loc), offset, now), offset
}

// Week returns the coverage of the week offset weeks back from the current one.
func (s *Service) Week(ctx context.Context, ownerID string, offset int) (_ Week, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coverage.week")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return Week{}, gym.ErrMissingOwnerID
	}
	w, offset := s.window(offset)
	span.SetAttributes(attribute.Int("week.offset", offset))

	sessions, err := s.sessions.ListInRange(ctx, ownerID, w.Start, w.End)
	if err != nil {
		return Week{}, fmt.Errorf("list week sessions: %w", err)
	}
	return buildWeek(w, offset, sessions), nil
}

// Subscribe streams the week coverage again on every change of its sessions.
// Offsets are relative to the current week, so the channel closes when the
// current week ends and the caller subscribes again. It also closes when ctx
// is done.
func (s *Service) Subscribe(ctx context.Context, ownerID string, offset int) (<-chan Week, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	now := s.clock.Now()
	w, offset := s.window(offset)
	rollover := time.NewTimer(WeekWindow(now, s.loc).End.Sub(now))

	ctx, cancel := context.WithCancel(ctx)
	in, err := s.sessions.SubscribeInRange(ctx, ownerID, w.Start, w.End)
	if err != nil {
		rollover.Stop()
		cancel()
		return nil, fmt.Errorf("subscribe week sessions: %w", err)
	}

	if s.metrics != nil {
		s.metrics.GaugeSubscriptions.WithLabelValues(gym.CollectionSessions).Inc()
	}
	out := make(chan Week, 1)
	go func() {
		defer func() {
			rollover.Stop()
			cancel()
			close(out)
			if s.metrics != nil {
				s.metrics.GaugeSubscriptions.WithLabelValues(gym.CollectionSessions).Dec()
			}
			log.Tracef("coverage subscription [%s] closed", ownerID)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rollover.C:
				log.Debugf("coverage subscription [%s]: week %s ended", ownerID, w.Start.Format(time.DateOnly))
				return
			case sessions, ok := <-in:
				if !ok {
					return
				}
				week := buildWeek(w, offset, sessions)
				// drop a stale unread week
				select {
				case <-out:
				default:
				}
				out <- week
			}
		}
	}()
	return out, nil
}

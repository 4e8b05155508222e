package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/catalog"
	"github.com/2beens/gymprogress/internal/gym/coverage"
)

var ErrSchemaUnavailable = errors.New("schema is only available with the postgres store")

type sessionRanger interface {
	ListInRange(ctx context.Context, ownerID string, from, to time.Time) ([]gym.Session, error)
}

type weekCoverage interface {
	Week(ctx context.Context, ownerID string, offset int) (coverage.Week, error)
}

type templateLister interface {
	List(ctx context.Context, ownerID string) ([]gym.Template, error)
}

type planLister interface {
	List(ctx context.Context, ownerID string) ([]gym.Plan, error)
}

type exerciseSearcher interface {
	Search(ctx context.Context, query string, tags []string) []catalog.Exercise
}

// contextService is what the tool handlers read from.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListSessions(ctx context.Context, ownerID string, from, to time.Time) ([]SessionSummary, error)
	GetWeekCoverage(ctx context.Context, ownerID string, offset int) (coverage.Week, error)
	ListTemplates(ctx context.Context, ownerID string) ([]gym.Template, error)
	ListPlans(ctx context.Context, ownerID string) ([]gym.Plan, error)
	SearchExercises(ctx context.Context, query string, tags []string) []catalog.Exercise
}

// Deps are the sources the context service reads; Schema may be nil.
type Deps struct {
	Schema    SchemaRepo
	Sessions  sessionRanger
	Coverage  weekCoverage
	Templates templateLister
	Plans     planLister
	Catalog   exerciseSearcher
}

type ContextService struct {
	deps Deps
}

func NewContextService(deps Deps) *ContextService {
	return &ContextService{deps: deps}
}

// GetSchema describes the collections of the postgres document store.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	if s.deps.Schema == nil {
		return "", ErrSchemaUnavailable
	}
	layouts, err := s.deps.Schema.GetCollectionLayouts(ctx)
	if err != nil {
		return "", err
	}
	return formatStoreSchema(layouts), nil
}

var knownCollections = []string{gym.CollectionPlans, gym.CollectionSessions, gym.CollectionTemplates}

func formatStoreSchema(layouts []CollectionLayout) string {
	byCollection := make(map[string]CollectionLayout, len(layouts))
	for _, l := range layouts {
		byCollection[l.Collection] = l
	}
	// gym collections are listed even when still empty
	for _, c := range knownCollections {
		if _, ok := byCollection[c]; !ok {
			byCollection[c] = CollectionLayout{Collection: c}
		}
	}
	order := make([]string, 0, len(byCollection))
	for c := range byCollection {
		order = append(order, c)
	}
	sort.Strings(order)

	var b strings.Builder
	b.WriteString("# Gym Store Schema\n\n")
	b.WriteString("Every document is a row of `documents`, keyed by (owner_id, collection, id); the body lives in `data` (JSONB).\n")
	b.WriteString("Example: SELECT data->>'name' FROM documents WHERE owner_id = $1 AND collection = '" + gym.CollectionSessions + "'.\n\n")

	for _, c := range order {
		l := byCollection[c]
		fmt.Fprintf(&b, "## %s\n\nDocuments: %d, owners: %d\n\n", c, l.Documents, l.Owners)
		if len(l.Keys) == 0 {
			b.WriteString("No documents yet.\n\n")
			continue
		}
		b.WriteString("| Key |\n|-----|\n")
		for _, k := range l.Keys {
			fmt.Fprintf(&b, "| %s |\n", k)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// SessionSummary is a session trimmed down to what an assistant needs.
type SessionSummary struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Status        gym.Status       `json:"status"`
	StartedAt     time.Time        `json:"startedAt"`
	DurationSec   *int             `json:"durationSec,omitempty"`
	MusclesWorked []string         `json:"musclesWorked"`
	Exercises     []ExerciseVolume `json:"exercises"`
}

type ExerciseVolume struct {
	ExerciseID string  `json:"exerciseId"`
	Name       string  `json:"name"`
	SetsDone   int     `json:"setsDone"`
	SetsTotal  int     `json:"setsTotal"`
	VolumeKg   float64 `json:"volumeKg"`
}

func summarize(s gym.Session) SessionSummary {
	exercises := make([]ExerciseVolume, 0, len(s.Exercises))
	for _, ex := range s.Exercises {
		v := ExerciseVolume{
			ExerciseID: ex.Ref.ExerciseID,
			Name:       ex.Ref.Name,
			SetsTotal:  len(ex.Sets),
		}
		for _, set := range ex.Sets {
			if !set.Done {
				continue
			}
			v.SetsDone++
			if set.TargetReps != nil && set.TargetKg != nil {
				v.VolumeKg += float64(*set.TargetReps) * *set.TargetKg
			}
		}
		exercises = append(exercises, v)
	}
	return SessionSummary{
		ID:            s.ID,
		Name:          s.Name,
		Status:        s.Status,
		StartedAt:     s.StartedAt,
		DurationSec:   s.DurationSec,
		MusclesWorked: s.MusclesWorked,
		Exercises:     exercises,
	}
}

// ListSessions returns summaries of the sessions started in [from, to), latest first.
func (s *ContextService) ListSessions(ctx context.Context, ownerID string, from, to time.Time) ([]SessionSummary, error) {
	list, err := s.deps.Sessions.ListInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]SessionSummary, 0, len(list))
	for _, session := range list {
		out = append(out, summarize(session))
	}
	return out, nil
}

func (s *ContextService) GetWeekCoverage(ctx context.Context, ownerID string, offset int) (coverage.Week, error) {
	return s.deps.Coverage.Week(ctx, ownerID, offset)
}

func (s *ContextService) ListTemplates(ctx context.Context, ownerID string) ([]gym.Template, error) {
	return s.deps.Templates.List(ctx, ownerID)
}

func (s *ContextService) ListPlans(ctx context.Context, ownerID string) ([]gym.Plan, error) {
	return s.deps.Plans.List(ctx, ownerID)
}

func (s *ContextService) SearchExercises(ctx context.Context, query string, tags []string) []catalog.Exercise {
	return s.deps.Catalog.Search(ctx, query, tags)
}

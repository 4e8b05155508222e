package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var ErrTemplateNotFound = errors.New("template not found")

type Store struct {
	docs  docstore.Store
	clock gym.Clock
	newID gym.IDGenerator
}

func NewStore(docs docstore.Store, clock gym.Clock, newID gym.IDGenerator) *Store {
	if clock == nil {
		clock = gym.SystemClock{}
	}
	if newID == nil {
		newID = gym.NewID
	}
	return &Store{
		docs:  docs,
		clock: clock,
		newID: newID,
	}
}

// Create validates and saves a template, returning its id. Slots and sets
// without an id get one, since set ids are the carry-forward join key.
func (s *Store) Create(ctx context.Context, ownerID, name string, exercises []gym.TemplateExercise) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.store.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return "", gym.ErrMissingOwnerID
	}
	if err := Validate(name, exercises); err != nil {
		return "", err
	}

	exercises = cloneExercises(exercises)
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = s.newID()
		}
		for j := range exercises[i].Sets {
			if exercises[i].Sets[j].ID == "" {
				exercises[i].Sets[j].ID = s.newID()
			}
		}
	}

	t := gym.Template{
		Name:          strings.TrimSpace(name),
		CreatedAt:     s.clock.Now(),
		MusclesWorked: MusclesWorked(exercises),
		Exercises:     exercises,
	}

	id, err := s.docs.Create(ctx, ownerID, gym.CollectionTemplates, gym.EncodeTemplate(t))
	if err != nil {
		return "", fmt.Errorf("create template: %w", err)
	}
	span.SetAttributes(attribute.String("template.id", id))
	return id, nil
}

func (s *Store) Get(ctx context.Context, ownerID, templateID string) (_ gym.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.store.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.Template{}, gym.ErrMissingOwnerID
	}
	if templateID == "" {
		return gym.Template{}, gym.ErrMissingTemplateID
	}
	span.SetAttributes(attribute.String("template.id", templateID))

	doc, err := s.docs.Get(ctx, docstore.Path{OwnerID: ownerID, Collection: gym.CollectionTemplates, ID: templateID})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return gym.Template{}, ErrTemplateNotFound
		}
		return gym.Template{}, fmt.Errorf("get template: %w", err)
	}
	return gym.ParseTemplate(templateID, doc), nil
}

func listQuery(ownerID string) docstore.Query {
	return docstore.Query{
		OwnerID:    ownerID,
		Collection: gym.CollectionTemplates,
		OrderBy:    "createdAt",
		Desc:       true,
	}
}

// List returns the owner's templates, newest first.
func (s *Store) List(ctx context.Context, ownerID string) (_ []gym.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.store.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}

	snaps, err := s.docs.Query(ctx, listQuery(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	span.SetAttributes(attribute.Int("templates.count", len(snaps)))
	return parseTemplates(snaps), nil
}

// Subscribe streams the List result on every change.
func (s *Store) Subscribe(ctx context.Context, ownerID string) (<-chan []gym.Template, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	snaps, err := s.docs.Subscribe(ctx, listQuery(ownerID))
	if err != nil {
		return nil, fmt.Errorf("subscribe templates: %w", err)
	}
	return docstore.MapSnapshots(ctx, snaps, parseTemplates), nil
}

// Edit applies one editor change to a stored template and saves it. The
// result must still be a valid template.
func (s *Store) Edit(ctx context.Context, ownerID, templateID string, e Edit) (_ gym.Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.store.edit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.edit", string(e.Op)))

	t, err := s.Get(ctx, ownerID, templateID)
	if err != nil {
		return gym.Template{}, err
	}
	edited, err := ApplyEdit(t, e, s.newID)
	if err != nil {
		return gym.Template{}, err
	}
	if err := Validate(edited.Name, edited.Exercises); err != nil {
		return gym.Template{}, err
	}

	path := docstore.Path{OwnerID: ownerID, Collection: gym.CollectionTemplates, ID: templateID}
	if err := s.docs.Update(ctx, path, gym.EncodeTemplate(edited)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return gym.Template{}, ErrTemplateNotFound
		}
		return gym.Template{}, fmt.Errorf("update template: %w", err)
	}
	return edited, nil
}

func (s *Store) Delete(ctx context.Context, ownerID, templateID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "templates.store.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if ownerID == "" {
		return gym.ErrMissingOwnerID
	}
	if templateID == "" {
		return gym.ErrMissingTemplateID
	}

	if err := s.docs.Delete(ctx, docstore.Path{OwnerID: ownerID, Collection: gym.CollectionTemplates, ID: templateID}); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

func parseTemplates(snaps []docstore.Snapshot) []gym.Template {
	out := make([]gym.Template, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, gym.ParseTemplate(snap.ID, snap.Data))
	}
	return out
}

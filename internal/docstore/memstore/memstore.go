// Package memstore keeps documents in process memory. Used by tests and by
// headless runs that need no durability.
package memstore

import (
	"context"
	"sync"

	"github.com/2beens/gymprogress/internal/docstore"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Store struct {
	mu       sync.RWMutex
	docs     map[string]map[string]docstore.Document // scope -> id -> doc
	notifier docstore.Notifier
	newID    func() string
}

type Option func(*Store)

func WithNotifier(n docstore.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		docs:     make(map[string]map[string]docstore.Document),
		notifier: docstore.NewHub(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ docstore.Store = (*Store)(nil)

func scopeKey(ownerID, collection string) string {
	return ownerID + "/" + collection
}

func (s *Store) Create(ctx context.Context, ownerID, collection string, doc docstore.Document) (string, error) {
	if err := docstore.ValidateScope(ownerID, collection); err != nil {
		return "", err
	}

	s.mu.Lock()
	key := scopeKey(ownerID, collection)
	if s.docs[key] == nil {
		s.docs[key] = make(map[string]docstore.Document)
	}
	id := s.newID()
	if _, exists := s.docs[key][id]; exists {
		s.mu.Unlock()
		return "", docstore.ErrAlreadyExists
	}
	s.docs[key][id] = docstore.Clone(doc)
	s.mu.Unlock()

	s.notify(ctx, ownerID, collection)
	return id, nil
}

func (s *Store) Get(_ context.Context, path docstore.Path) (docstore.Document, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[scopeKey(path.OwnerID, path.Collection)][path.ID]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return docstore.Clone(doc), nil
}

func (s *Store) Update(ctx context.Context, path docstore.Path, patch docstore.Document) error {
	if err := path.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	scope := s.docs[scopeKey(path.OwnerID, path.Collection)]
	doc, ok := scope[path.ID]
	if !ok {
		s.mu.Unlock()
		return docstore.ErrNotFound
	}
	scope[path.ID] = docstore.Merge(doc, patch)
	s.mu.Unlock()

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, path docstore.Path) error {
	if err := path.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	scope := s.docs[scopeKey(path.OwnerID, path.Collection)]
	if _, ok := scope[path.ID]; !ok {
		s.mu.Unlock()
		return docstore.ErrNotFound
	}
	delete(scope, path.ID)
	s.mu.Unlock()

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

func (s *Store) Query(_ context.Context, q docstore.Query) ([]docstore.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	scope := s.docs[scopeKey(q.OwnerID, q.Collection)]
	snaps := make([]docstore.Snapshot, 0, len(scope))
	for id, doc := range scope {
		snaps = append(snaps, docstore.Snapshot{ID: id, Data: docstore.Clone(doc)})
	}
	s.mu.RUnlock()

	return q.Apply(snaps), nil
}

func (s *Store) Subscribe(ctx context.Context, q docstore.Query) (<-chan []docstore.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	changes, err := s.notifier.Listen(ctx, q.OwnerID, q.Collection)
	if err != nil {
		return nil, err
	}
	return docstore.Watch(ctx, q, s.Query, changes)
}

func (s *Store) notify(ctx context.Context, ownerID, collection string) {
	if err := s.notifier.Notify(ctx, ownerID, collection); err != nil {
		log.Warnf("memstore notify %s/%s: %s", ownerID, collection, err)
	}
}

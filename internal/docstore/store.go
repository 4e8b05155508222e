// Package docstore defines the document store the gym components persist into:
// JSON-like documents keyed by (owner, collection, id) with live query subscriptions.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrAlreadyExists     = errors.New("document already exists")
	ErrMissingOwner      = errors.New("missing owner id")
	ErrMissingCollection = errors.New("missing collection")
	ErrMissingID         = errors.New("missing document id")
	ErrUnsupportedFilter = errors.New("unsupported filter")
)

// Document is a decoded JSON object. Numbers may be any Go numeric type.
type Document = map[string]any

type Path struct {
	OwnerID    string
	Collection string
	ID         string
}

func (p Path) String() string {
	return fmt.Sprintf("%s/%s/%s", p.OwnerID, p.Collection, p.ID)
}

func (p Path) Validate() error {
	if err := validateScope(p.OwnerID, p.Collection); err != nil {
		return err
	}
	if p.ID == "" {
		return ErrMissingID
	}
	return nil
}

type Snapshot struct {
	ID   string
	Data Document
}

type Store interface {
	// Create stores doc under a fresh id and returns it.
	Create(ctx context.Context, ownerID, collection string, doc Document) (string, error)
	// Get returns ErrNotFound for a missing document.
	Get(ctx context.Context, path Path) (Document, error)
	// Update merges the top-level fields of patch into the stored document.
	Update(ctx context.Context, path Path, patch Document) error
	Delete(ctx context.Context, path Path) error
	Query(ctx context.Context, q Query) ([]Snapshot, error)
	// Subscribe emits the query result now and after every change in the queried
	// collection. The channel is closed when ctx is done. A slow reader only ever
	// sees the newest result.
	Subscribe(ctx context.Context, q Query) (<-chan []Snapshot, error)
}

// Notifier fans out "something changed" signals per owner collection.
type Notifier interface {
	Notify(ctx context.Context, ownerID, collection string) error
	// Listen returns a signal channel closed when ctx is done.
	Listen(ctx context.Context, ownerID, collection string) (<-chan struct{}, error)
}

func validateScope(ownerID, collection string) error {
	if ownerID == "" {
		return ErrMissingOwner
	}
	if collection == "" {
		return ErrMissingCollection
	}
	return nil
}

// ValidateScope checks the owner and collection every operation needs.
func ValidateScope(ownerID, collection string) error {
	return validateScope(ownerID, collection)
}

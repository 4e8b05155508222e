package docstore

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// QueryFunc runs a one-shot query.
type QueryFunc func(ctx context.Context, q Query) ([]Snapshot, error)

// Watch builds a subscription out of a one-shot query and a change signal.
// The first result is computed before Watch returns, so a broken query fails
// the subscription up front. Later query failures are logged and skipped; the
// next change signal retries.
func Watch(ctx context.Context, q Query, run QueryFunc, changes <-chan struct{}) (<-chan []Snapshot, error) {
	initial, err := run(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	out := make(chan []Snapshot, 1)
	out <- initial

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				snaps, err := run(ctx, q)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Errorf("docstore watch [%s/%s]: %s", q.OwnerID, q.Collection, err)
					continue
				}
				offerLatest(out, snaps)
			}
		}
	}()

	return out, nil
}

// MapSnapshots converts every result of a subscription with fn. Delivery keeps
// the latest-wins behavior of the source; out closes when in closes or ctx is done.
func MapSnapshots[T any](ctx context.Context, in <-chan []Snapshot, fn func([]Snapshot) T) <-chan T {
	out := make(chan T, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snaps, ok := <-in:
				if !ok {
					return
				}
				offerLatest(out, fn(snaps))
			}
		}
	}()
	return out
}

// offerLatest replaces an unread value with the newer one. Only one goroutine
// sends on out, so after draining the send cannot block.
func offerLatest[T any](out chan T, v T) {
	select {
	case out <- v:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- v:
	default:
	}
}

package sessions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymprogress/internal/gym"

	log "github.com/sirupsen/logrus"
)

type sessionSaver interface {
	Save(ctx context.Context, ownerID string, s gym.Session) error
}

// Draft is the local, optimistically edited copy of a live session.
// Every edit is applied locally first and written in the background; every
// inbound snapshot replaces the local copy wholesale. There is no merging,
// the last snapshot wins.
type Draft struct {
	ownerID string
	saver   sessionSaver
	onError func(error)

	mu        sync.Mutex
	local     gym.Session
	confirmed gym.Session
	deleted   bool
	inFlight  int
	writes    sync.WaitGroup
}

// NewDraft starts from a session as read from the store. Failed background
// writes are passed to onError; they are never retried.
func NewDraft(ownerID string, initial gym.Session, saver sessionSaver, onError func(error)) (*Draft, error) {
	if ownerID == "" {
		return nil, gym.ErrMissingOwnerID
	}
	if initial.ID == "" {
		return nil, gym.ErrMissingSessionID
	}
	if onError == nil {
		onError = func(err error) {
			log.Errorf("draft session %s: %s", initial.ID, err)
		}
	}
	return &Draft{
		ownerID:   ownerID,
		saver:     saver,
		onError:   onError,
		local:     initial.Clone(),
		confirmed: initial.Clone(),
	}, nil
}

// Current returns a copy of the local state.
func (d *Draft) Current() gym.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.local.Clone()
}

// Confirmed returns the last state seen from the store.
func (d *Draft) Confirmed() gym.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.confirmed.Clone()
}

// Saving reports whether background writes are still pending.
func (d *Draft) Saving() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight > 0
}

// Deleted reports whether the store reported the session gone.
func (d *Draft) Deleted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deleted
}

func (d *Draft) ToggleSet(ctx context.Context, exerciseID, setID string) (gym.Session, error) {
	return d.apply(ctx, func(s gym.Session) (gym.Session, error) {
		return ToggleSet(s, exerciseID, setID)
	})
}

func (d *Draft) EditSet(ctx context.Context, exerciseID, setID string, field Field, raw string) (gym.Session, error) {
	return d.apply(ctx, func(s gym.Session) (gym.Session, error) {
		return EditSet(s, exerciseID, setID, field, raw)
	})
}

func (d *Draft) Finish(ctx context.Context, confirmIncomplete bool, now time.Time) (gym.Session, error) {
	return d.apply(ctx, func(s gym.Session) (gym.Session, error) {
		return Finish(s, confirmIncomplete, now)
	})
}

func (d *Draft) apply(ctx context.Context, mutate func(gym.Session) (gym.Session, error)) (gym.Session, error) {
	d.mu.Lock()
	next, err := mutate(d.local)
	if err != nil {
		current := d.local.Clone()
		d.mu.Unlock()
		return current, err
	}
	d.local = next
	d.inFlight++
	d.writes.Add(1)
	d.mu.Unlock()

	// the write outlives the caller; only its result is dropped
	writeCtx := context.WithoutCancel(ctx)
	toSave := next.Clone()
	go func() {
		defer d.writes.Done()
		err := d.saver.Save(writeCtx, d.ownerID, toSave)

		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()

		if err != nil {
			d.onError(fmt.Errorf("save session %s: %w", toSave.ID, err))
		}
	}()

	return next.Clone(), nil
}

// Reconcile makes an inbound snapshot the new truth.
func (d *Draft) Reconcile(update SessionUpdate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !update.Exists {
		d.deleted = true
		return
	}
	d.deleted = false
	d.confirmed = update.Session.Clone()
	d.local = update.Session.Clone()
}

// Follow reconciles every update until the stream ends.
func (d *Draft) Follow(updates <-chan SessionUpdate) {
	for u := range updates {
		d.Reconcile(u)
	}
}

// Wait blocks until every background write has returned.
func (d *Draft) Wait() {
	d.writes.Wait()
}

// Package redisnotify fans document change signals out over redis pub/sub,
// so subscribers on any instance see writes made by another.
package redisnotify

import (
	"context"
	"fmt"

	"github.com/2beens/gymprogress/internal/docstore"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	channelPrefix = "gymprogress::changes::"
	changedMsg    = "changed"
)

type pubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

type Notifier struct {
	rdb pubSubClient
}

var _ docstore.Notifier = (*Notifier)(nil)

func New(rdb pubSubClient) *Notifier {
	return &Notifier{rdb: rdb}
}

func Channel(ownerID, collection string) string {
	return channelPrefix + ownerID + "::" + collection
}

func (n *Notifier) Notify(ctx context.Context, ownerID, collection string) error {
	if err := docstore.ValidateScope(ownerID, collection); err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, Channel(ownerID, collection), changedMsg).Err(); err != nil {
		return fmt.Errorf("publish change: %w", err)
	}
	return nil
}

// Listen subscribes to the owner collection channel. Signals coalesce the same
// way docstore.Hub does; the returned channel closes when ctx is done.
func (n *Notifier) Listen(ctx context.Context, ownerID, collection string) (<-chan struct{}, error) {
	if err := docstore.ValidateScope(ownerID, collection); err != nil {
		return nil, err
	}

	ps := n.rdb.Subscribe(ctx, Channel(ownerID, collection))
	// wait for the subscription confirmation, otherwise early publishes are lost
	if _, err := ps.Receive(ctx); err != nil {
		if closeErr := ps.Close(); closeErr != nil {
			log.Errorf("close pubsub: %s", closeErr)
		}
		return nil, fmt.Errorf("subscribe %s/%s: %w", ownerID, collection, err)
	}

	msgs := ps.Channel()
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer func() {
			if err := ps.Close(); err != nil {
				log.Errorf("close pubsub: %s", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}

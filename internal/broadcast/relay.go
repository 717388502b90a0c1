package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/chamados-service/internal/events"
)

// Relay mirrors locally published sync events onto a Redis channel and
// feeds events published by other service instances into the local
// broadcaster, so viewers converge regardless of which instance handled
// the write. Events carry an origin instance id so a relay skips its own.
type Relay struct {
	client      *redis.Client
	channel     string
	origin      string
	broadcaster *Broadcaster
	logger      *zap.Logger
}

// NewRelay creates a relay for the given instance id.
func NewRelay(client *redis.Client, channel, origin string, b *Broadcaster, logger *zap.Logger) *Relay {
	return &Relay{
		client:      client,
		channel:     channel,
		origin:      origin,
		broadcaster: b,
		logger:      logger,
	}
}

// HandleEvent forwards a locally published event to the Redis channel.
// Relay failures are absorbed: the originating write already committed.
func (r *Relay) HandleEvent(ctx context.Context, event events.Event) error {
	event.Origin = r.origin
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.logger.Warn("relay publish failed", zap.Error(err))
	}
	return nil
}

// Run subscribes to the Redis channel and republishes foreign events to the
// local broadcaster until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close() //nolint:errcheck

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event events.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warn("relay received malformed event", zap.Error(err))
				continue
			}
			if event.Origin == r.origin {
				continue
			}
			r.broadcaster.Publish(event)
		}
	}
}

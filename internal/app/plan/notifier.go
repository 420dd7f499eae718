package plan

import (
	"context"
	"encoding/json"

	"wishboard/internal/providers/redis"
	"wishboard/internal/utils"

	"go.uber.org/zap"
)

// Notifier announces committed writes to change-stream subscribers.
type Notifier interface {
	Notify(ctx context.Context, change Change)
}

type busNotifier struct {
	bus *utils.EventBus
}

func NewBusNotifier(bus *utils.EventBus) Notifier {
	return &busNotifier{bus: bus}
}

func (n *busNotifier) Notify(_ context.Context, change Change) {
	n.bus.Publish(EventPlansChanged, change)
}

type redisNotifier struct {
	redisP   *redis.RedisProvider
	channel  string
	fallback Notifier
	logger   *zap.SugaredLogger
}

// NewRedisNotifier publishes changes on a redis channel so every instance
// relaying that channel sees them. When publishing fails the change is
// handed to fallback instead.
func NewRedisNotifier(redisP *redis.RedisProvider, channel string, fallback Notifier, logger *zap.Logger) Notifier {
	return &redisNotifier{
		redisP:   redisP,
		channel:  channel,
		fallback: fallback,
		logger:   logger.Sugar(),
	}
}

func (n *redisNotifier) Notify(ctx context.Context, change Change) {
	payload, err := json.Marshal(change)
	if err == nil {
		err = n.redisP.Publish(ctx, n.channel, payload)
	}
	if err != nil {
		n.logger.Warnw("Failed to publish plan change, delivering locally",
			"channel", n.channel,
			"plan_id", change.ID,
			"error", err,
		)
		n.fallback.Notify(ctx, change)
	}
}

// RelayChanges feeds changes received on the redis channel into the local
// event bus until ctx is done.
func RelayChanges(ctx context.Context, redisP *redis.RedisProvider, channel string, bus *utils.EventBus, logger *zap.Logger) <-chan struct{} {
	log := logger.Sugar()
	return redisP.Subscribe(ctx, channel, func(payload []byte) {
		var change Change
		if err := json.Unmarshal(payload, &change); err != nil {
			log.Warnw("Dropping malformed plan change", "channel", channel, "error", err)
			return
		}
		bus.Publish(EventPlansChanged, change)
	})
}

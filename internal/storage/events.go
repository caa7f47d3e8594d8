package storage

import (
	"encoding/json"

	"pontotaxi/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventsChannel is the Redis pub/sub channel carrying live dashboard events.
// Every server instance subscribes, so events reach sessions regardless of
// which instance handled the mutation.
const EventsChannel = "dashboard:events"

// PublishEvent fans a live event out over Redis. A nil Redis client (admin
// CLI, tests) makes this a no-op.
func (s *Service) PublishEvent(ev models.Event) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, EventsChannel, payload).Err(); err != nil {
		s.Log.Error("event publish failed", zap.String("kind", ev.Kind), zap.Error(err))
		return err
	}
	return nil
}

// SubscribeEvents opens a subscription on the live channel. Callers own the
// returned PubSub and must Close it.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, EventsChannel)
}

// Package livehub fans live-update events out to every open dashboard
// session over WebSocket. Events travel between server instances on Redis
// pub/sub, so a mutation handled anywhere reaches sessions everywhere.
package livehub

import (
	"encoding/json"

	"pontotaxi/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Subscriber opens the Redis subscription carrying live events.
type Subscriber interface {
	SubscribeEvents() *redis.PubSub
}

// Manager owns the session registry. All state is confined to the Run
// goroutine; registration and events arrive over channels.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.Event

	subscriber Subscriber
	log        *zap.Logger
}

// NewManager creates the hub. subscriber may be nil in tests; events then
// only arrive through BroadcastCh.
func NewManager(subscriber Subscriber, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.Event, 16),
		subscriber:   subscriber,
		log:          log,
	}
}

// Run is the hub dispatcher. Start it once, as a goroutine.
func (m *Manager) Run() {
	m.startPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetSessionID()] = client
			m.log.Info("dashboard session opened",
				zap.String("session", client.GetSessionID()),
				zap.String("user", client.GetUserID()))

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetSessionID()]; ok {
				delete(m.Clients, client.GetSessionID())
				client.Close()
				m.log.Info("dashboard session closed",
					zap.String("session", client.GetSessionID()))
			}

		case ev := <-m.BroadcastCh:
			for id, client := range m.Clients {
				select {
				case client.GetSendChannel() <- ev:
				default:
					// Session is not draining its channel; drop it.
					delete(m.Clients, id)
					client.Close()
					m.log.Warn("dropped slow dashboard session", zap.String("session", id))
				}
			}
		}
	}
}

// startPubSubListener pipes the Redis live channel into BroadcastCh.
func (m *Manager) startPubSubListener() {
	if m.subscriber == nil {
		return
	}

	go func() {
		pubsub := m.subscriber.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var ev models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				m.log.Warn("bad live event payload", zap.Error(err))
				continue
			}
			m.BroadcastCh <- ev
		}
	}()
}

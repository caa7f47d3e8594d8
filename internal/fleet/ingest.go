// Package fleet ingests driver and trip events from the vehicle terminals'
// MQTT feed and persists them for the dashboard counters.
package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pontotaxi/backend/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Topics the terminals publish on. The wildcard segment is the vehicle
// prefix.
const (
	TopicTrips  = "fleet/+/trip"
	TopicStatus = "fleet/+/status"
)

var errBadTopic = errors.New("topic missing vehicle prefix")

// Store is what ingestion needs from persistence.
type Store interface {
	UpsertDriver(d *models.Driver) error
	SaveTrip(t *models.Trip) error
	EndTrip(prefix string, endedAt time.Time) error
	PublishEvent(ev models.Event) error
}

// TripEvent is one trip message from a terminal.
type TripEvent struct {
	Event     string `json:"event"` // "started" | "ended"
	Timestamp int64  `json:"ts"`
}

// StatusEvent is a driver status message from a terminal.
type StatusEvent struct {
	Driver string `json:"driver"`
	Status string `json:"status"` // "ativo" | "inativo"
}

// Ingestor subscribes to the fleet topics and persists what arrives.
type Ingestor struct {
	Store  Store
	Log    *zap.Logger
	client mqtt.Client
}

func NewIngestor(store Store, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{Store: store, Log: log}
}

// Connect dials the broker and subscribes. Auto-reconnect is left to the
// client; QoS 1 so events survive short broker outages.
func (i *Ingestor) Connect(broker, clientID string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(false)

	i.client = mqtt.NewClient(opts)
	if token := i.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if token := i.client.Subscribe(TopicTrips, 1, i.onTrip); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicTrips, token.Error())
	}
	if token := i.client.Subscribe(TopicStatus, 1, i.onStatus); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicStatus, token.Error())
	}

	i.Log.Info("fleet ingest connected", zap.String("broker", broker))
	return nil
}

// Disconnect closes the broker connection.
func (i *Ingestor) Disconnect() {
	if i.client != nil {
		i.client.Disconnect(250)
	}
}

func (i *Ingestor) onTrip(_ mqtt.Client, msg mqtt.Message) {
	if err := i.HandleTrip(msg.Topic(), msg.Payload()); err != nil {
		i.Log.Warn("trip event dropped", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

func (i *Ingestor) onStatus(_ mqtt.Client, msg mqtt.Message) {
	if err := i.HandleStatus(msg.Topic(), msg.Payload()); err != nil {
		i.Log.Warn("status event dropped", zap.String("topic", msg.Topic()), zap.Error(err))
	}
}

// HandleTrip persists one trip event. Exported for tests; the MQTT callback
// is a thin wrapper.
func (i *Ingestor) HandleTrip(topic string, payload []byte) error {
	prefix, err := vehiclePrefix(topic)
	if err != nil {
		return err
	}

	var ev TripEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	at := time.Unix(ev.Timestamp, 0)
	if ev.Timestamp == 0 {
		at = time.Now()
	}

	switch ev.Event {
	case "started":
		trip := &models.Trip{
			DriverPrefix: prefix,
			StartedAt:    at,
			Payload:      datatypes.JSON(payload),
		}
		if err := i.Store.SaveTrip(trip); err != nil {
			return err
		}
	case "ended":
		if err := i.Store.EndTrip(prefix, at); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown trip event %q", ev.Event)
	}

	return i.Store.PublishEvent(models.Event{Kind: models.EventFleetUpdated, At: time.Now()})
}

// HandleStatus upserts the driver row for a status event.
func (i *Ingestor) HandleStatus(topic string, payload []byte) error {
	prefix, err := vehiclePrefix(topic)
	if err != nil {
		return err
	}

	var ev StatusEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return err
	}
	status := ev.Status
	if status != models.DriverActive && status != models.DriverInactive {
		status = models.DriverInactive
	}

	driver := &models.Driver{
		Prefix:   prefix,
		Name:     ev.Driver,
		Status:   status,
		LastSeen: time.Now(),
	}
	if err := i.Store.UpsertDriver(driver); err != nil {
		return err
	}

	return i.Store.PublishEvent(models.Event{Kind: models.EventFleetUpdated, At: time.Now()})
}

// vehiclePrefix extracts the wildcard segment of "fleet/<prefix>/...".
func vehiclePrefix(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[1] == "" {
		return "", errBadTopic
	}
	return parts[1], nil
}

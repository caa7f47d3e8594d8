// Package dashboard computes the aggregate counts and averages the back
// office displays. A snapshot is recomputed on a fixed timer and whenever a
// live event arrives, never per request.
package dashboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/protocol"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RefreshInterval is the fallback recompute cadence when no events arrive.
const RefreshInterval = 5 * time.Minute

// snapshotKey caches the latest snapshot in Redis so a freshly started
// instance serves data before its first recompute finishes.
const snapshotKey = "dashboard:snapshot"

// Store is what aggregation needs from persistence.
type Store interface {
	CountMessages(messageType, status string) (int64, error)
	SurveyStats() (int64, float64, error)
	CountDrivers(status string) (int64, error)
	CountTripsSince(since time.Time) (int64, error)
}

// Subscriber opens the live-event subscription used as a recompute trigger.
type Subscriber interface {
	SubscribeEvents() *redis.PubSub
}

// TypeCount is the per-collection slice of the snapshot.
type TypeCount struct {
	Type       string `json:"tipo"`
	Collection string `json:"colecao"`
	Pending    int64  `json:"pendentes"`
	Resolved   int64  `json:"resolvidas"`
	Total      int64  `json:"total"`
}

// Snapshot is one full aggregation pass over every source collection.
type Snapshot struct {
	GeneratedAt time.Time `json:"gerado_em"`

	Messages     []TypeCount `json:"mensagens"`
	PendingTotal int64       `json:"pendentes_total"`
	// ResolutionRate is resolved/total as a percentage; 0 when there are
	// no messages at all.
	ResolutionRate float64 `json:"taxa_resolucao"`

	SurveyCount   int64   `json:"pesquisas"`
	SurveyAverage float64 `json:"media_pesquisas"`

	ActiveDrivers int64 `json:"motoristas_ativos"`
	TripsToday    int64 `json:"viagens_hoje"`
}

// Service keeps the current snapshot and recomputes it in the background.
type Service struct {
	Store      Store
	Subscriber Subscriber
	Redis      *redis.Client
	Log        *zap.Logger

	mu      sync.RWMutex
	current Snapshot
}

// NewService builds the aggregation service. subscriber and rdb may be nil
// (tests, admin CLI); the timer still drives recomputes.
func NewService(store Store, subscriber Subscriber, rdb *redis.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Subscriber: subscriber, Redis: rdb, Log: log}
}

// Current returns the latest snapshot.
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Run computes an initial snapshot and then recomputes on every live event
// and every RefreshInterval. Start it once, as a goroutine.
func (s *Service) Run() {
	trigger := make(chan struct{}, 1)
	s.startEventListener(trigger)

	s.refresh()

	ticker := time.NewTicker(RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-trigger:
			s.refresh()
		}
	}
}

func (s *Service) startEventListener(trigger chan struct{}) {
	if s.Subscriber == nil {
		return
	}
	go func() {
		pubsub := s.Subscriber.SubscribeEvents()
		defer pubsub.Close()

		for range pubsub.Channel() {
			// Coalesce bursts: one pending trigger is enough.
			select {
			case trigger <- struct{}{}:
			default:
			}
		}
	}()
}

func (s *Service) refresh() {
	snap, err := s.Compute()
	if err != nil {
		s.Log.Error("dashboard recompute failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.cache(snap)
}

// Compute runs one full aggregation pass, fanning the per-collection reads
// out in parallel.
func (s *Service) Compute() (Snapshot, error) {
	types := protocol.Types()
	counts := make([]TypeCount, len(types))
	errs := make([]error, len(types)+3)

	var (
		surveyCount   int64
		surveyAverage float64
		activeDrivers int64
		tripsToday    int64
	)

	var wg sync.WaitGroup
	for i, t := range types {
		wg.Add(1)
		go func(i int, msgType string) {
			defer wg.Done()
			tc := TypeCount{Type: msgType, Collection: protocol.CollectionFor(msgType)}
			var err error
			if tc.Pending, err = s.Store.CountMessages(msgType, models.StatusPending); err != nil {
				errs[i] = err
				return
			}
			if tc.Resolved, err = s.Store.CountMessages(msgType, models.StatusResolved); err != nil {
				errs[i] = err
				return
			}
			if tc.Total, err = s.Store.CountMessages(msgType, ""); err != nil {
				errs[i] = err
				return
			}
			counts[i] = tc
		}(i, t)
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if surveyCount, surveyAverage, err = s.Store.SurveyStats(); err != nil {
			errs[len(types)] = err
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if activeDrivers, err = s.Store.CountDrivers(models.DriverActive); err != nil {
			errs[len(types)+1] = err
		}
	}()
	go func() {
		defer wg.Done()
		// Truncate works in UTC; "today" must be the local day.
		y, m, d := time.Now().Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
		var err error
		if tripsToday, err = s.Store.CountTripsSince(midnight); err != nil {
			errs[len(types)+2] = err
		}
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return Snapshot{}, err
		}
	}

	snap := Snapshot{
		GeneratedAt:   time.Now(),
		Messages:      counts,
		SurveyCount:   surveyCount,
		SurveyAverage: surveyAverage,
		ActiveDrivers: activeDrivers,
		TripsToday:    tripsToday,
	}

	var resolved, total int64
	for _, tc := range counts {
		snap.PendingTotal += tc.Pending
		resolved += tc.Resolved
		total += tc.Total
	}
	if total > 0 {
		snap.ResolutionRate = float64(resolved) / float64(total) * 100
	}

	return snap, nil
}

func (s *Service) ctx() context.Context { return context.Background() }

func (s *Service) cache(snap Snapshot) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.Redis.Set(s.ctx(), snapshotKey, data, 2*RefreshInterval).Err(); err != nil {
		s.Log.Warn("snapshot cache write failed", zap.Error(err))
	}
}

// Cached loads the last snapshot another instance cached, if any.
func (s *Service) Cached() (Snapshot, bool) {
	if s.Redis == nil {
		return Snapshot{}, false
	}
	data, err := s.Redis.Get(s.ctx(), snapshotKey).Bytes()
	if err != nil {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	return snap, true
}

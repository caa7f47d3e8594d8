package storage

import (
	"context"
	"time"

	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/protocol"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is everything the services need from persistence. *Service is the
// gorm/redis implementation; tests substitute narrower mocks.
type Storage interface {
	// Protocol numbering
	NextProtocolSeq(messageType string, year int) (int64, error)

	// Message lifecycle
	CreateMessage(msg *models.Message, entry *models.HistoryEntry) error
	GetMessage(messageType, proto string) (*models.Message, error)
	GetArchivedMessage(messageType, proto string) (*models.Message, error)
	ListMessages(messageType, status string) ([]models.Message, error)
	ListMessagesBetween(messageType string, from, to time.Time) ([]models.Message, error)
	UpdateMessageStatus(messageType, proto, status string, entry *models.HistoryEntry) error
	ArchiveMessage(messageType, proto string, archivedAt int64, entry *models.HistoryEntry) error
	UnarchiveMessage(messageType, proto string, entry *models.HistoryEntry) (*models.Message, error)
	SaveResponse(resp *models.MessageResponse, entry *models.HistoryEntry) error
	GetHistory(proto string) ([]models.HistoryEntry, error)
	ListResponses(proto string) ([]models.MessageResponse, error)
	CountMessages(messageType, status string) (int64, error)

	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	DeleteUser(id string) error

	// Surveys
	SaveSurvey(s *models.SurveyResponse) error
	ListSurveysBetween(from, to time.Time) ([]models.SurveyResponse, error)
	ListTestimonials(limit int) ([]models.SurveyResponse, error)
	SurveyStats() (int64, float64, error)

	// Fleet
	UpsertDriver(d *models.Driver) error
	SaveTrip(t *models.Trip) error
	EndTrip(prefix string, endedAt time.Time) error
	CountDrivers(status string) (int64, error)
	CountTripsSince(since time.Time) (int64, error)

	// Settings
	GetSetting(key string) (*models.Setting, error)
	PutSetting(s *models.Setting) error
	ListSettings() ([]models.Setting, error)

	// Live events
	PublishEvent(ev models.Event) error
}

var _ Storage = (*Service)(nil)

// Service implements Storage on PostgreSQL (gorm) plus Redis pub/sub for the
// live channel.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
	Log   *zap.Logger
}

// NewService builds the storage service. rdb may be nil for tools that do
// not need the live channel (the admin CLI).
func NewService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		Log:   log,
	}
}

// Migrate creates the shared tables plus one message table per collection
// and its archival twin.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.SurveyResponse{},
		&models.Driver{},
		&models.Trip{},
		&models.Setting{},
		&models.HistoryEntry{},
		&models.MessageResponse{},
		&models.ProtocolCounter{},
	); err != nil {
		return err
	}

	for _, t := range protocol.Types() {
		if err := db.Table(protocol.CollectionFor(t)).AutoMigrate(&models.Message{}); err != nil {
			return err
		}
		if err := db.Table(protocol.ArchiveFor(t)).AutoMigrate(&models.Message{}); err != nil {
			return err
		}
	}
	return nil
}

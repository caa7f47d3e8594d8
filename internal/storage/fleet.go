package storage

import (
	"errors"
	"time"

	"pontotaxi/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertDriver creates or refreshes a driver row keyed by vehicle prefix.
func (s *Service) UpsertDriver(d *models.Driver) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "status", "last_seen", "updated_at"}),
	}).Create(d).Error
}

// SaveTrip stores a trip event.
func (s *Service) SaveTrip(t *models.Trip) error {
	return s.DB.Create(t).Error
}

// EndTrip closes the most recent open trip of a vehicle. A close event for
// an unknown trip is dropped silently; the fleet feed replays on reconnect.
func (s *Service) EndTrip(prefix string, endedAt time.Time) error {
	var trip models.Trip
	err := s.DB.Where("driver_prefix = ? AND ended_at IS NULL", prefix).
		Order("started_at desc").
		First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.DB.Model(&trip).Update("ended_at", endedAt).Error
}

// CountDrivers counts drivers, optionally by status.
func (s *Service) CountDrivers(status string) (int64, error) {
	var n int64
	q := s.DB.Model(&models.Driver{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// CountTripsSince counts trips started at or after since.
func (s *Service) CountTripsSince(since time.Time) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Trip{}).Where("started_at >= ?", since).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

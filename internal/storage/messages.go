package storage

import (
	"errors"
	"time"

	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/protocol"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMessageNotFound is returned when a protocol does not exist in the
// collection it was looked up in.
var ErrMessageNotFound = errors.New("message not found")

// NextProtocolSeq atomically increments the per-(type, year) counter and
// returns the new sequence. The single upsert statement is what makes
// concurrent submissions collision-free.
func (s *Service) NextProtocolSeq(messageType string, year int) (int64, error) {
	var seq int64
	err := s.DB.Raw(`
        INSERT INTO protocol_counters (message_type, year, seq)
        VALUES (?, ?, 1)
        ON CONFLICT (message_type, year)
        DO UPDATE SET seq = protocol_counters.seq + 1
        RETURNING seq`, messageType, year).Scan(&seq).Error
	if err != nil {
		s.Log.Error("protocol counter increment failed",
			zap.String("type", messageType), zap.Int("year", year), zap.Error(err))
		return 0, err
	}
	return seq, nil
}

// CreateMessage writes the message into its type's collection together with
// the initial history entry, in one transaction.
func (s *Service) CreateMessage(msg *models.Message, entry *models.HistoryEntry) error {
	table := protocol.CollectionFor(msg.Type)
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Create(msg).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// GetMessage reads a message from its active collection.
func (s *Service) GetMessage(messageType, proto string) (*models.Message, error) {
	return s.getFrom(protocol.CollectionFor(messageType), proto)
}

// GetArchivedMessage reads a message from its archival collection.
func (s *Service) GetArchivedMessage(messageType, proto string) (*models.Message, error) {
	return s.getFrom(protocol.ArchiveFor(messageType), proto)
}

func (s *Service) getFrom(table, proto string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Table(table).Where("protocol = ?", proto).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the messages of a type, newest first, optionally
// filtered by status.
func (s *Service) ListMessages(messageType, status string) ([]models.Message, error) {
	var msgs []models.Message
	q := s.DB.Table(protocol.CollectionFor(messageType)).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListMessagesBetween returns the messages of a type created inside
// [from, to), oldest first. Used by report generation.
func (s *Service) ListMessagesBetween(messageType string, from, to time.Time) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Table(protocol.CollectionFor(messageType)).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// UpdateMessageStatus sets the status and appends the history entry in one
// transaction. It does not guard against re-applying the same status; the
// duplicate history entry is the audit trail of the repeated action.
func (s *Service) UpdateMessageStatus(messageType, proto, status string, entry *models.HistoryEntry) error {
	table := protocol.CollectionFor(messageType)
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Table(table).Where("protocol = ?", proto).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMessageNotFound
		}
		return tx.Create(entry).Error
	})
}

// ArchiveMessage moves a message into its archival collection. The whole
// move runs in one transaction and the archival insert is keyed on protocol,
// so a retry after a partial failure cannot duplicate the record.
func (s *Service) ArchiveMessage(messageType, proto string, archivedAt int64, entry *models.HistoryEntry) error {
	active := protocol.CollectionFor(messageType)
	archive := protocol.ArchiveFor(messageType)

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		err := tx.Table(active).Where("protocol = ?", proto).First(&msg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		if err != nil {
			return err
		}

		msg.ID = 0 // archive table assigns its own row id; protocol is the identity
		msg.Status = models.StatusArchived
		msg.ArchivedAt = &archivedAt

		if err := tx.Table(archive).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "protocol"}}, DoNothing: true}).
			Create(&msg).Error; err != nil {
			return err
		}
		if err := tx.Table(active).Where("protocol = ?", proto).Unscoped().Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// UnarchiveMessage moves a message back into its active collection with
// status reset to pending and the archival timestamp cleared. Every other
// field round-trips untouched.
func (s *Service) UnarchiveMessage(messageType, proto string, entry *models.HistoryEntry) (*models.Message, error) {
	active := protocol.CollectionFor(messageType)
	archive := protocol.ArchiveFor(messageType)

	var restored models.Message
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var msg models.Message
		err := tx.Table(archive).Where("protocol = ?", proto).First(&msg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		if err != nil {
			return err
		}

		msg.ID = 0
		msg.Status = models.StatusPending
		msg.ArchivedAt = nil

		if err := tx.Table(active).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "protocol"}}, DoNothing: true}).
			Create(&msg).Error; err != nil {
			return err
		}
		if err := tx.Table(archive).Where("protocol = ?", proto).Unscoped().Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		restored = msg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &restored, nil
}

// SaveResponse records a staff reply and its history entry.
func (s *Service) SaveResponse(resp *models.MessageResponse, entry *models.HistoryEntry) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resp).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// GetHistory returns the full audit trail for a protocol, oldest first.
func (s *Service) GetHistory(proto string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.DB.Where("protocol = ?", proto).Order("created_at asc, id asc").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListResponses returns the staff replies for a protocol, oldest first.
func (s *Service) ListResponses(proto string) ([]models.MessageResponse, error) {
	var resps []models.MessageResponse
	err := s.DB.Where("protocol = ?", proto).Order("created_at asc").Find(&resps).Error
	if err != nil {
		return nil, err
	}
	return resps, nil
}

// CountMessages counts the messages of a type, optionally by status.
func (s *Service) CountMessages(messageType, status string) (int64, error) {
	var n int64
	q := s.DB.Table(protocol.CollectionFor(messageType))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

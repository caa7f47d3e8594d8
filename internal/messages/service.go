// Package messages implements the feedback lifecycle: submission with
// protocol stamping, resolution, the archive/unarchive move and staff
// replies, each one appending an immutable history entry.
package messages

import (
	"time"

	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/protocol"

	"go.uber.org/zap"
)

// SystemActor is recorded on history entries produced without a logged-in
// operator (public submissions).
const SystemActor = "sistema"

// Store is what the lifecycle needs from persistence.
type Store interface {
	NextProtocolSeq(messageType string, year int) (int64, error)
	CreateMessage(msg *models.Message, entry *models.HistoryEntry) error
	GetMessage(messageType, proto string) (*models.Message, error)
	GetArchivedMessage(messageType, proto string) (*models.Message, error)
	ListMessages(messageType, status string) ([]models.Message, error)
	UpdateMessageStatus(messageType, proto, status string, entry *models.HistoryEntry) error
	ArchiveMessage(messageType, proto string, archivedAt int64, entry *models.HistoryEntry) error
	UnarchiveMessage(messageType, proto string, entry *models.HistoryEntry) (*models.Message, error)
	SaveResponse(resp *models.MessageResponse, entry *models.HistoryEntry) error
	GetHistory(proto string) ([]models.HistoryEntry, error)
	ListResponses(proto string) ([]models.MessageResponse, error)
	PublishEvent(ev models.Event) error
}

// Notifier is told about new submissions (ops Telegram chat, webhook).
type Notifier interface {
	NotifyNewMessage(msg *models.Message)
}

// Service handles the message lifecycle.
type Service struct {
	Store    Store
	Notifier Notifier
	Log      *zap.Logger
}

// NewService creates the lifecycle service. notifier may be nil.
func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Store: store, Notifier: notifier, Log: log}
}

// SubmitInput is a public contact-form submission.
type SubmitInput struct {
	Type          string
	Name          string
	Email         string
	Phone         string
	VehiclePrefix string
	Subject       string
	Body          string
	Consent       bool
}

// Submit routes the submission to its type's collection, stamps a protocol
// and records the initial history entry.
func (s *Service) Submit(in SubmitInput) (*models.Message, error) {
	msgType := protocol.Normalize(in.Type)
	year := time.Now().Year()

	seq, err := s.Store.NextProtocolSeq(msgType, year)
	if err != nil {
		return nil, err
	}
	proto := protocol.Format(msgType, seq, year)

	msg := &models.Message{
		Protocol:      proto,
		Type:          msgType,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		VehiclePrefix: in.VehiclePrefix,
		Subject:       in.Subject,
		Body:          in.Body,
		Consent:       in.Consent,
		Status:        models.StatusPending,
	}
	entry := &models.HistoryEntry{
		Protocol: proto,
		Action:   models.ActionCreated,
		Actor:    SystemActor,
	}
	if err := s.Store.CreateMessage(msg, entry); err != nil {
		return nil, err
	}

	s.publish(models.EventMessageCreated, msgType, proto)
	if s.Notifier != nil {
		go s.Notifier.NotifyNewMessage(msg)
	}

	s.Log.Info("message created",
		zap.String("protocol", proto), zap.String("type", msgType))
	return msg, nil
}

// Resolve marks a message resolved. Re-resolving an already resolved message
// succeeds and appends another history entry; the trail, not the status, is
// the record of what happened.
func (s *Service) Resolve(messageType, proto, actor, note string) error {
	msgType := protocol.Normalize(messageType)
	entry := &models.HistoryEntry{
		Protocol: proto,
		Action:   models.ActionResolved,
		Actor:    actor,
		Note:     note,
	}
	if err := s.Store.UpdateMessageStatus(msgType, proto, models.StatusResolved, entry); err != nil {
		return err
	}
	s.publish(models.EventMessageResolved, msgType, proto)
	return nil
}

// Archive moves a message into its archival collection.
func (s *Service) Archive(messageType, proto, actor string) error {
	msgType := protocol.Normalize(messageType)
	entry := &models.HistoryEntry{
		Protocol: proto,
		Action:   models.ActionArchived,
		Actor:    actor,
	}
	if err := s.Store.ArchiveMessage(msgType, proto, time.Now().Unix(), entry); err != nil {
		return err
	}
	s.publish(models.EventMessageArchived, msgType, proto)
	return nil
}

// Unarchive moves a message back to its active collection as pending.
func (s *Service) Unarchive(messageType, proto, actor string) (*models.Message, error) {
	msgType := protocol.Normalize(messageType)
	entry := &models.HistoryEntry{
		Protocol: proto,
		Action:   models.ActionUnarchived,
		Actor:    actor,
	}
	msg, err := s.Store.UnarchiveMessage(msgType, proto, entry)
	if err != nil {
		return nil, err
	}
	s.publish(models.EventMessageUnarchived, msgType, proto)
	return msg, nil
}

// Respond records a staff reply for a message.
func (s *Service) Respond(messageType, proto, author, body string) (*models.MessageResponse, error) {
	msgType := protocol.Normalize(messageType)
	if _, err := s.Store.GetMessage(msgType, proto); err != nil {
		return nil, err
	}

	resp := &models.MessageResponse{
		Protocol: proto,
		Author:   author,
		Body:     body,
	}
	entry := &models.HistoryEntry{
		Protocol: proto,
		Action:   models.ActionResponded,
		Actor:    author,
	}
	if err := s.Store.SaveResponse(resp, entry); err != nil {
		return nil, err
	}
	s.publish(models.EventMessageResponded, msgType, proto)
	return resp, nil
}

// Get returns a message from its active collection.
func (s *Service) Get(messageType, proto string) (*models.Message, error) {
	return s.Store.GetMessage(protocol.Normalize(messageType), proto)
}

// List returns the messages of a type, optionally filtered by status.
func (s *Service) List(messageType, status string) ([]models.Message, error) {
	return s.Store.ListMessages(protocol.Normalize(messageType), status)
}

// GetArchived returns a type's archived message by protocol.
func (s *Service) GetArchived(messageType, proto string) (*models.Message, error) {
	return s.Store.GetArchivedMessage(protocol.Normalize(messageType), proto)
}

// History returns the audit trail for a protocol.
func (s *Service) History(proto string) ([]models.HistoryEntry, error) {
	return s.Store.GetHistory(proto)
}

// Responses returns the staff replies for a protocol.
func (s *Service) Responses(proto string) ([]models.MessageResponse, error) {
	return s.Store.ListResponses(proto)
}

// publish is best effort; a failed event only costs dashboard freshness.
func (s *Service) publish(kind, msgType, proto string) {
	ev := models.Event{
		Kind:       kind,
		Collection: protocol.CollectionFor(msgType),
		Protocol:   proto,
		At:         time.Now(),
	}
	if err := s.Store.PublishEvent(ev); err != nil {
		s.Log.Warn("live event publish failed", zap.String("kind", kind), zap.Error(err))
	}
}

package messages_test

import (
	"errors"
	"strconv"
	"sync"

	"pontotaxi/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the messages.Store interface.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) NextProtocolSeq(messageType string, year int) (int64, error) {
	args := m.Called(messageType, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CreateMessage(msg *models.Message, entry *models.HistoryEntry) error {
	args := m.Called(msg, entry)
	return args.Error(0)
}

func (m *MockStore) GetMessage(messageType, proto string) (*models.Message, error) {
	args := m.Called(messageType, proto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) GetArchivedMessage(messageType, proto string) (*models.Message, error) {
	args := m.Called(messageType, proto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) ListMessages(messageType, status string) ([]models.Message, error) {
	args := m.Called(messageType, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) UpdateMessageStatus(messageType, proto, status string, entry *models.HistoryEntry) error {
	args := m.Called(messageType, proto, status, entry)
	return args.Error(0)
}

func (m *MockStore) ArchiveMessage(messageType, proto string, archivedAt int64, entry *models.HistoryEntry) error {
	args := m.Called(messageType, proto, archivedAt, entry)
	return args.Error(0)
}

func (m *MockStore) UnarchiveMessage(messageType, proto string, entry *models.HistoryEntry) (*models.Message, error) {
	args := m.Called(messageType, proto, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) SaveResponse(resp *models.MessageResponse, entry *models.HistoryEntry) error {
	args := m.Called(resp, entry)
	return args.Error(0)
}

func (m *MockStore) GetHistory(proto string) ([]models.HistoryEntry, error) {
	args := m.Called(proto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryEntry), args.Error(1)
}

func (m *MockStore) ListResponses(proto string) ([]models.MessageResponse, error) {
	args := m.Called(proto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MessageResponse), args.Error(1)
}

func (m *MockStore) PublishEvent(ev models.Event) error {
	args := m.Called(ev)
	return args.Error(0)
}

// MockNotifier records notifications and signals on a channel so tests can
// wait for the async call.
type MockNotifier struct {
	mu       sync.Mutex
	notified []*models.Message
	Done     chan struct{}
}

func newMockNotifier() *MockNotifier {
	return &MockNotifier{Done: make(chan struct{}, 10)}
}

func (n *MockNotifier) NotifyNewMessage(msg *models.Message) {
	n.mu.Lock()
	n.notified = append(n.notified, msg)
	n.mu.Unlock()
	n.Done <- struct{}{}
}

func (n *MockNotifier) Notified() []*models.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*models.Message(nil), n.notified...)
}

// fakeStore is a thread-safe in-memory store used by the concurrency test,
// where per-call mock expectations would get in the way. The sequence
// counter mirrors the database upsert: one atomic increment per (type, year).
type fakeStore struct {
	mu       sync.Mutex
	seqs     map[string]int64
	messages map[string]*models.Message
	archived map[string]*models.Message
	history  map[string][]models.HistoryEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seqs:     make(map[string]int64),
		messages: make(map[string]*models.Message),
		archived: make(map[string]*models.Message),
		history:  make(map[string][]models.HistoryEntry),
	}
}

func (f *fakeStore) NextProtocolSeq(messageType string, year int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := messageType + "/" + strconv.Itoa(year)
	f.seqs[key]++
	return f.seqs[key], nil
}

func (f *fakeStore) CreateMessage(msg *models.Message, entry *models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[msg.Protocol] = msg
	f.history[entry.Protocol] = append(f.history[entry.Protocol], *entry)
	return nil
}

var errNotFound = errors.New("message not found")

func (f *fakeStore) GetMessage(messageType, proto string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[proto]
	if !ok {
		return nil, errNotFound
	}
	return msg, nil
}

func (f *fakeStore) GetArchivedMessage(messageType, proto string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.archived[proto]
	if !ok {
		return nil, errNotFound
	}
	return msg, nil
}

func (f *fakeStore) ListMessages(messageType, status string) ([]models.Message, error) {
	return nil, nil
}

func (f *fakeStore) UpdateMessageStatus(messageType, proto, status string, entry *models.HistoryEntry) error {
	return nil
}

func (f *fakeStore) ArchiveMessage(messageType, proto string, archivedAt int64, entry *models.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[proto]
	if !ok {
		return errNotFound
	}
	moved := *msg
	moved.Status = models.StatusArchived
	moved.ArchivedAt = &archivedAt
	f.archived[proto] = &moved
	delete(f.messages, proto)
	f.history[entry.Protocol] = append(f.history[entry.Protocol], *entry)
	return nil
}

func (f *fakeStore) UnarchiveMessage(messageType, proto string, entry *models.HistoryEntry) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.archived[proto]
	if !ok {
		return nil, errNotFound
	}
	moved := *msg
	moved.Status = models.StatusPending
	moved.ArchivedAt = nil
	f.messages[proto] = &moved
	delete(f.archived, proto)
	f.history[entry.Protocol] = append(f.history[entry.Protocol], *entry)
	return &moved, nil
}

func (f *fakeStore) SaveResponse(resp *models.MessageResponse, entry *models.HistoryEntry) error {
	return nil
}

func (f *fakeStore) GetHistory(proto string) ([]models.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.HistoryEntry(nil), f.history[proto]...), nil
}

func (f *fakeStore) ListResponses(proto string) ([]models.MessageResponse, error) {
	return nil, nil
}

func (f *fakeStore) PublishEvent(ev models.Event) error { return nil }

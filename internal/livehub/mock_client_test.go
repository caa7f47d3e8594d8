package livehub_test

import (
	"pontotaxi/backend/internal/models"
)

type MockClient struct {
	sessionID   string
	userID      string
	closed      bool
	RecvChannel chan models.Event
}

func newMockClient(sessionID, userID string) *MockClient {
	return &MockClient{
		sessionID:   sessionID,
		userID:      userID,
		RecvChannel: make(chan models.Event, 10),
	}
}

// newSlowClient has no channel capacity, so any push would block.
func newSlowClient(sessionID, userID string) *MockClient {
	return &MockClient{
		sessionID:   sessionID,
		userID:      userID,
		RecvChannel: make(chan models.Event),
	}
}

func (c *MockClient) GetSessionID() string {
	return c.sessionID
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetSendChannel() chan<- models.Event {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.closed = true
}

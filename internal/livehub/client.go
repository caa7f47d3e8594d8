package livehub

import "pontotaxi/backend/internal/models"

// Client is one live dashboard session. It abstracts the transport so the
// hub can manage sessions uniformly and tests can substitute fakes.
type Client interface {
	// GetSessionID returns the unique identifier of this session. One
	// operator with two tabs is two sessions.
	GetSessionID() string
	// GetUserID returns the account behind the session.
	GetUserID() string

	// GetSendChannel returns the channel the hub pushes events into.
	GetSendChannel() chan<- models.Event

	// Run starts the session's read and write pumps.
	Run()
	// Close shuts the session down and stops its pumps.
	Close()
}

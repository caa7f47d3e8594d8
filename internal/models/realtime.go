package models

import "time"

// Event kinds published on the live channel.
const (
	EventMessageCreated    = "message_created"
	EventMessageResolved   = "message_resolved"
	EventMessageArchived   = "message_archived"
	EventMessageUnarchived = "message_unarchived"
	EventMessageResponded  = "message_responded"
	EventSurveySubmitted   = "survey_submitted"
	EventFleetUpdated      = "fleet_updated"
)

// Event is a live-update notification fanned out over Redis pub/sub to every
// open dashboard session, and used by the dashboard service as a recompute
// trigger.
type Event struct {
	Kind       string    `json:"kind"`
	Collection string    `json:"collection,omitempty"`
	Protocol   string    `json:"protocol,omitempty"`
	At         time.Time `json:"at"`
}

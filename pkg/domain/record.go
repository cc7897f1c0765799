package domain

import "time"

// Record is the persisted state of a presentation session.
// Only the location survives; fragment visibility is always reset on resume.
type Record struct {
	SessionID string    `json:"session_id"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord creates a record stamped with the current time.
func NewRecord(sessionID, location string) *Record {
	return &Record{
		SessionID: sessionID,
		Location:  location,
		UpdatedAt: time.Now().UTC(),
	}
}

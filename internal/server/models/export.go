package models

import "time"

// Export describes an uploaded journal snapshot.
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Entries   int       `json:"entries"`
}

package models

import "time"

// Entry statuses.
const (
	StatusActive    = "active"
	StatusImportant = "important"
	StatusReview    = "review"
	StatusCompleted = "completed"
)

// Entry is a learning journal entry. Topic and Tags are resolved on read.
type Entry struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Content        *string   `json:"content"`
	Summary        *string   `json:"summary"`
	TopicID        *string   `json:"topic_id"`
	Status         string    `json:"status"`
	ReferenceLinks []string  `json:"reference_links"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Topic *Topic `json:"topic,omitempty"`
	Tags  []Tag  `json:"tags"`
}

// EntryFilter narrows a listing. Empty Status or "all" means every status;
// Query matches title, content and summary case-insensitively.
type EntryFilter struct {
	Query  string
	Status string
}

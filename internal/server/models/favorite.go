package models

import "time"

// FavoriteQuestion is a saved snapshot of a generated interview question.
type FavoriteQuestion struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Question     string    `json:"question"`
	Difficulty   string    `json:"difficulty"`
	Category     string    `json:"category"`
	WhyAsked     string    `json:"why_asked"`
	SampleAnswer string    `json:"sample_answer"`
	KeyPoints    []string  `json:"key_points"`
	FollowUp     string    `json:"follow_up"`
	SourceTopic  *string   `json:"source_topic"`
	CreatedAt    time.Time `json:"created_at"`
}

// Package models holds the API payloads the CLI exchanges with the server.
package models

import "time"

// Entry statuses accepted by the server.
var Statuses = []string{"active", "important", "review", "completed"}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Topic struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Entry struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        *string   `json:"content"`
	Summary        *string   `json:"summary"`
	TopicID        *string   `json:"topic_id"`
	Status         string    `json:"status"`
	ReferenceLinks []string  `json:"reference_links"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Topic          *Topic    `json:"topic,omitempty"`
	Tags           []Tag     `json:"tags"`
}

// EntryInput is the create/update body. A nil TagIDs leaves the tag set
// untouched on update.
type EntryInput struct {
	Title          string    `json:"title"`
	Content        *string   `json:"content,omitempty"`
	Summary        *string   `json:"summary,omitempty"`
	TopicID        *string   `json:"topic_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	ReferenceLinks []string  `json:"reference_links,omitempty"`
	TagIDs         *[]string `json:"tagIds,omitempty"`
}

type FavoriteQuestion struct {
	ID           string    `json:"id"`
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

type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type Subscription struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

type SubscriptionStatus struct {
	Subscribed bool `json:"subscribed"`
	Endpoints  int  `json:"endpoints"`
}

type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Entries   int       `json:"entries"`
}

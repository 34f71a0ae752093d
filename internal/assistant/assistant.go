// Package assistant holds the request/response contract of the assistant
// relay: the actions, the entry record clients send, prompt construction,
// interview-prep parsing and the upstream error taxonomy.
package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/learnjournal/internal/common"
)

type Action string

const (
	ActionSmartSearch   Action = "smart-search"
	ActionInterviewPrep Action = "interview-prep"
	ActionInsights      Action = "insights"
)

// Streams reports whether the action is answered over SSE.
func (a Action) Streams() bool {
	return a == ActionSmartSearch || a == ActionInsights
}

func (a Action) Valid() bool {
	switch a {
	case ActionSmartSearch, ActionInterviewPrep, ActionInsights:
		return true
	}
	return false
}

// Entry statuses.
const (
	StatusActive    = "active"
	StatusImportant = "important"
	StatusReview    = "review"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the entry statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusImportant, StatusReview, StatusCompleted:
		return true
	}
	return false
}

type TopicRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type TagRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Entry is the journal entry as a client hands it to the relay.
// Title and Status are required; everything else is optional.
type Entry struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Summary   *string   `json:"summary"`
	Status    string    `json:"status"`
	Topic     *TopicRef `json:"topic,omitempty"`
	Tags      []TagRef  `json:"tags,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// Request is the relay request body.
type Request struct {
	Action  Action  `json:"action"`
	Query   string  `json:"query,omitempty"`
	Entries []Entry `json:"entries"`
}

// Validate checks the request before anything is sent upstream. Failures
// are *common.ValidationError values.
func (r *Request) Validate() error {
	if !r.Action.Valid() {
		return common.NewValidationError("action", "Invalid action")
	}
	if len(r.Entries) == 0 {
		return common.NewValidationError("entries", "no entries supplied")
	}
	if r.Action == ActionSmartSearch && strings.TrimSpace(r.Query) == "" {
		return common.NewValidationError("query", "query is required for smart-search")
	}
	for i, e := range r.Entries {
		if strings.TrimSpace(e.Title) == "" {
			return common.NewValidationError(fmt.Sprintf("entries[%d].title", i), "title is required")
		}
		if !ValidStatus(e.Status) {
			return common.NewValidationError(fmt.Sprintf("entries[%d].status", i), fmt.Sprintf("unknown status %q", e.Status))
		}
	}
	return nil
}

// Prompt is the pair of messages sent to the model.
type Prompt struct {
	System string
	User   string
}

// Provider is an upstream chat-completion service.
//
// Stream returns a body framed as Server-Sent Events in the
// choices[0].delta.content chunk format, terminated by "data: [DONE]".
// The caller must close it. Complete returns the assistant message text.
// Both return *UpstreamError for non-success upstream statuses.
type Provider interface {
	Stream(ctx context.Context, p Prompt) (io.ReadCloser, error)
	Complete(ctx context.Context, p Prompt) (string, error)
}

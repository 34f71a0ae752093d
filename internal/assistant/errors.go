package assistant

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoContent is returned when the upstream answered without a message.
var ErrNoContent = errors.New("No content in AI response")

// ErrorKind classifies upstream failures.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindRateLimited
	KindUsageLimit
)

// KindFromStatus maps a non-success upstream HTTP status to its kind.
func KindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusPaymentRequired:
		return KindUsageLimit
	default:
		return KindUpstream
	}
}

// HTTPStatus is the status the relay answers with for this kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUsageLimit:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Message is the caller-facing text for this kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindRateLimited:
		return "Rate limit exceeded. Please try again later."
	case KindUsageLimit:
		return "Usage limit reached. Please add credits."
	default:
		return "AI gateway error"
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUsageLimit:
		return "usage_limit"
	default:
		return "upstream"
	}
}

// UpstreamError is a failed upstream call. Status and Body describe what
// the provider answered and are for logs only.
type UpstreamError struct {
	Kind   ErrorKind
	Status int
	Body   string
}

func NewUpstreamError(status int, body string) *UpstreamError {
	return &UpstreamError{Kind: KindFromStatus(status), Status: status, Body: body}
}

func (e *UpstreamError) Error() string {
	return e.Kind.Message()
}

// Detail renders the error with the upstream status for logging.
func (e *UpstreamError) Detail() string {
	return fmt.Sprintf("%s (upstream status %d): %s", e.Kind, e.Status, e.Body)
}

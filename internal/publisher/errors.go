package publisher

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimitExhausted is returned when API kept throttling requests after all retries.
	ErrRateLimitExhausted = errors.New("rate limit retries exhausted")
	// ErrDownloadFailed is returned when source image can't be downloaded or decoded.
	ErrDownloadFailed = errors.New("image download failed")
	// ErrStagedUploadFailed is returned when staged upload target can't be created or written.
	ErrStagedUploadFailed = errors.New("staged upload failed")
	// ErrNoLocation is returned when shop has no inventory location.
	ErrNoLocation = errors.New("shop has no inventory location")
	// ErrUnexpectedResponse is returned when API response can't be used.
	ErrUnexpectedResponse = errors.New("unexpected API response")
)

// UserError is structured validation error returned by API mutations.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// Error returns error message.
func (e *UserError) Error() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return strings.Join(e.Field, ".") + ": " + e.Message
}

// UserMessage returns API message, which is safe to show to users.
func (e *UserError) UserMessage() string {
	return e.Message
}

package platform

import (
	"errors"
)

// ErrNotFound is returned by storage when requested record doesn't exist.
var ErrNotFound = errors.New("record not found")

// ErrLimitReached is returned by storage when conditional usage increment would exceed the limit.
var ErrLimitReached = errors.New("usage limit reached")

// ErrJobNotPending is returned when terminal status is written for job which is not pending anymore.
var ErrJobNotPending = errors.New("import job is not pending")

// DefaultUserMessage is shown to users when error doesn't carry its own plain-language message.
const DefaultUserMessage = "The import could not be completed. Please try again later."

// UserMessager is implemented by errors which carry message safe to show to end users.
type UserMessager interface {
	UserMessage() string
}

// UserMessage returns first user-facing message found in err chain or DefaultUserMessage.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}

	return DefaultUserMessage
}

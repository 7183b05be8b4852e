package scraper

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies scraping failures into causes shown to users.
type Kind string

const (
	KindInvalidURL        Kind = "INVALID_URL"
	KindNotFound          Kind = "NOT_FOUND"
	KindAccessDenied      Kind = "ACCESS_DENIED"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindRemoteUnavailable Kind = "REMOTE_UNAVAILABLE"
	KindUnexpectedStatus  Kind = "UNEXPECTED_STATUS"
	KindUnreachable       Kind = "UNREACHABLE"
	KindNotAStorefront    Kind = "NOT_A_STOREFRONT"
	KindEmptyCatalog      Kind = "EMPTY_CATALOG"
)

var (
	// ErrInvalidURL is returned when URL can't be used for scraping.
	ErrInvalidURL = &Error{Kind: KindInvalidURL}
	// ErrNotFound is returned when store or product doesn't exist.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrAccessDenied is returned when store is private or password protected.
	ErrAccessDenied = &Error{Kind: KindAccessDenied}
	// ErrRateLimited is returned when store rejected request with 429.
	ErrRateLimited = &Error{Kind: KindRateLimited}
	// ErrRemoteUnavailable is returned when store responded with 5xx status.
	ErrRemoteUnavailable = &Error{Kind: KindRemoteUnavailable}
	// ErrUnexpectedStatus is returned for all other non 2xx statuses.
	ErrUnexpectedStatus = &Error{Kind: KindUnexpectedStatus}
	// ErrUnreachable is returned when store can't be reached at all.
	ErrUnreachable = &Error{Kind: KindUnreachable}
	// ErrNotAStorefront is returned when response doesn't have storefront catalog shape.
	ErrNotAStorefront = &Error{Kind: KindNotAStorefront}
	// ErrEmptyCatalog is returned when store has no public products.
	ErrEmptyCatalog = &Error{Kind: KindEmptyCatalog}
)

// Subject is what was requested from the store, it changes wording of some messages.
type Subject int

const (
	SubjectStore Subject = iota
	SubjectProduct
)

// Error is classified scraping error with message safe to show to users.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// Error returns error message.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by Kind, so errors.Is(err, ErrNotFound) works for every not found error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage returns plain-language reason of failure.
func (e *Error) UserMessage() string {
	return e.Message
}

// ClassifyStatus maps non-successful http status into classified error.
func ClassifyStatus(status int, subj Subject) *Error {
	err := &Error{Status: status}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		err.Kind = KindAccessDenied
		err.Message = "This store is password-protected or private. Please make the store public before importing."
	case status == http.StatusNotFound:
		err.Kind = KindNotFound
		err.Message = "Store not found. Please check the URL and try again."
		if subj == SubjectProduct {
			err.Message = "Product not found. Please check the URL and try again."
		}
	case status == http.StatusTooManyRequests:
		err.Kind = KindRateLimited
		err.Message = "The store is rate-limiting requests. Please wait a moment and try again."
	case status >= http.StatusInternalServerError:
		err.Kind = KindRemoteUnavailable
		err.Message = "The store is currently unavailable. Please try again later."
	default:
		err.Kind = KindUnexpectedStatus
		err.Message = fmt.Sprintf("Unexpected error (HTTP %d). Please check the URL and try again.", status)
	}

	return err
}

func unreachable(cause error) *Error {
	return &Error{
		Kind:    KindUnreachable,
		Message: "Could not connect to this store. Please verify the URL is a valid, publicly accessible store.",
		Err:     cause,
	}
}

func notAStorefront(cause error) *Error {
	return &Error{
		Kind: KindNotAStorefront,
		Message: "This doesn't appear to be a public storefront. " +
			"Please enter a valid store URL (e.g. https://example.myshopify.com).",
		Err: cause,
	}
}

func invalidURL(message string, cause error) *Error {
	return &Error{
		Kind:    KindInvalidURL,
		Message: message,
		Err:     cause,
	}
}

func emptyCatalog() *Error {
	return &Error{
		Kind:    KindEmptyCatalog,
		Message: "No products found in this store. The store may be empty or its catalog may not be publicly accessible.",
	}
}

package importer

// userError is error which message is safe to show to users.
type userError string

// Error returns error message.
func (e userError) Error() string {
	return string(e)
}

// UserMessage returns error message.
func (e userError) UserMessage() string {
	return string(e)
}

const (
	// ErrQuotaExhausted is returned when shop has no imports left in current billing period.
	ErrQuotaExhausted = userError("Import limit reached. Please upgrade your plan.")
	// ErrInvalidRequest is returned when import request is malformed.
	ErrInvalidRequest = userError("The selected products can't be imported. Please preview the store again.")
)

package quota

import "time"

type systemClock struct{}

// Now return current UTC time truncated to database precision.
func (c systemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

package postgresadapter

import "time"

// SystemClock reads wall-clock time in UTC, truncated to the microsecond
// precision Postgres stores.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

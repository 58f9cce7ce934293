package postgresadapter

import "time"

// SystemClock reads UTC wall-clock time at timestamptz precision.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

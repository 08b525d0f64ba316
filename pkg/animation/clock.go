package animation

import "time"

// Clock provides time for animations. SystemClock uses wall time; tests
// inject a fake clock through NewLoop to control timing deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

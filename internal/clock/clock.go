// Package clock provides an injectable time source so code that schedules
// deferred work (hold-expiry release timers) can be tested deterministically.
//
// Production code accepts a Clock instead of calling time.Now or
// time.AfterFunc directly. Wire Real() in main; wire Fake() in tests and
// drive it with Advance.
package clock

import "time"

// Clock abstracts the time operations the booking engine needs.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for duration d, then calls f in its own goroutine.
	// The returned Timer cancels the pending call with Stop.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	// Stop prevents the call from firing. It returns true if the call was
	// stopped, false if it already fired or was already stopped.
	Stop() bool
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

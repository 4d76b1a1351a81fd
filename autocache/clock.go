package autocache

import "time"

// Clock is the time source used to measure benchmarking passes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

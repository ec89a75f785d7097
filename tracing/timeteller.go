// Package tracing records transfers as tasks with start and end times, and
// aggregates or persists them through pluggable tracers.
package tracing

import "time"

// TimeInSec is a point in time, in seconds since the teller's origin.
type TimeInSec float64

// A TimeTeller tells the current time. Tracers read time through this
// interface so tests can substitute a controlled clock.
type TimeTeller interface {
	CurrentTime() TimeInSec
}

// A WallTimeTeller tells wall-clock time elapsed since its creation.
type WallTimeTeller struct {
	start time.Time
}

// NewWallTimeTeller creates a WallTimeTeller with its origin at now.
func NewWallTimeTeller() *WallTimeTeller {
	return &WallTimeTeller{start: time.Now()}
}

// CurrentTime returns the seconds elapsed since the teller was created.
func (t *WallTimeTeller) CurrentTime() TimeInSec {
	return TimeInSec(time.Since(t.start).Seconds())
}

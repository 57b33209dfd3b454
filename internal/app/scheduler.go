package app

import "time"

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing; it reports false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs a callback after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// ClockScheduler schedules on the runtime timer.
type ClockScheduler struct{}

func (ClockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

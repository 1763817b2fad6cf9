package model

import "time"

// Calendar answers working-time questions for the scheduler.
// Implementations must be safe for concurrent readers.
type Calendar interface {
	Name() string
	// Defaults converts working units such as days into minutes.
	Defaults() DurationDefaults

	// AddWorkingDuration moves forward by d of working time. Elapsed units
	// move by wall-clock time and negative values move backwards.
	AddWorkingDuration(ts time.Time, d Duration) time.Time
	SubtractWorkingDuration(ts time.Time, d Duration) time.Time
	// NextWorkingInstant returns ts when it is working time, otherwise the
	// start of the next working period.
	NextWorkingInstant(ts time.Time) time.Time
	// PreviousWorkingInstant returns ts when it falls inside or at the end of
	// a working period, otherwise the end of the previous one.
	PreviousWorkingInstant(ts time.Time) time.Time
	WorkingDurationBetween(start, end time.Time, unit TimeUnit) Duration
	// StartOfWorkingDay reports the first working instant on date's day.
	StartOfWorkingDay(date time.Time) (time.Time, bool)
	EndOfWorkingDay(date time.Time) (time.Time, bool)
}

package model

import "time"

// Constraint pins or bounds an activity date.
type Constraint struct {
	Type ConstraintType
	Date time.Time
}

// Activity is a unit of work in a network. Zero time values mean the date is absent.
type Activity struct {
	ID   string
	Name string

	Duration Duration
	// Remaining defaults to Duration when nil.
	Remaining *Duration
	Calendar  Calendar

	Constraint Constraint
	Deadline   time.Time

	ActualStart  time.Time
	ActualFinish time.Time
	// Start and Finish are the stored dates of a manually scheduled activity.
	Start  time.Time
	Finish time.Time

	LevelingDelay Duration

	Summary   bool
	Inactive  bool
	Null      bool
	Milestone bool

	Type   ActivityType
	Mode   SchedulingMode
	Status ActivityStatus

	EarlyStart  time.Time
	EarlyFinish time.Time
	LateStart   time.Time
	LateFinish  time.Time
}

// RemainingDuration returns the remaining work, falling back to Duration.
func (a *Activity) RemainingDuration() Duration {
	if a.Remaining != nil {
		return *a.Remaining
	}
	return a.Duration
}

// Schedulable reports whether the activity takes part in CPM.
func (a *Activity) Schedulable() bool {
	if a.Summary || a.Inactive || a.Null {
		return false
	}
	return a.Type != TypeLevelOfEffort && a.Type != TypeWBSSummary
}

// Started reports whether progress has been recorded.
func (a *Activity) Started() bool { return !a.ActualStart.IsZero() }

// Finished reports whether an actual finish is recorded.
func (a *Activity) Finished() bool { return !a.ActualFinish.IsZero() }

// IsALAP reports whether the activity carries an as-late-as-possible constraint.
func (a *Activity) IsALAP() bool { return a.Constraint.Type == AsLateAsPossible }

// IsStartMilestone covers both start milestones and start flags.
func (a *Activity) IsStartMilestone() bool {
	return a.Type == TypeStartMilestone || a.Type == TypeStartFlag
}

// IsFinishMilestone covers both finish milestones and finish flags.
func (a *Activity) IsFinishMilestone() bool {
	return a.Type == TypeFinishMilestone || a.Type == TypeFinishFlag
}

// EffectiveStatus returns Status, or derives it from the actual dates when unset.
func (a *Activity) EffectiveStatus() ActivityStatus {
	if a.Status != StatusUnspecified {
		return a.Status
	}
	switch {
	case a.Finished():
		return StatusCompleted
	case a.Started():
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

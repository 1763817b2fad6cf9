package model

import (
	"fmt"
	"strings"
)

// ConstraintType restricts where an activity may be placed.
type ConstraintType int

const (
	AsSoonAsPossible ConstraintType = iota
	AsLateAsPossible
	StartNoEarlierThan
	StartNoLaterThan
	FinishNoEarlierThan
	FinishNoLaterThan
	MustStartOn
	MustFinishOn
)

var constraintNames = []string{"asap", "alap", "snet", "snlt", "fnet", "fnlt", "mso", "mfo"}

func (c ConstraintType) String() string { return enumName(constraintNames, int(c)) }

// ParseConstraintType accepts the short names used in String.
func ParseConstraintType(s string) (ConstraintType, error) {
	i, err := parseEnum("constraint type", constraintNames, s)
	return ConstraintType(i), err
}

// RelationType is the kind of dependency between two activities.
type RelationType int

const (
	FinishStart RelationType = iota
	StartStart
	FinishFinish
	StartFinish
)

var relationNames = []string{"fs", "ss", "ff", "sf"}

func (r RelationType) String() string { return strings.ToUpper(enumName(relationNames, int(r))) }

// ParseRelationType accepts FS, SS, FF and SF in any case.
func ParseRelationType(s string) (RelationType, error) {
	i, err := parseEnum("relation type", relationNames, s)
	return RelationType(i), err
}

// ActivityType distinguishes ordinary work from milestones and summary-style rows.
type ActivityType int

const (
	TypeOrdinary ActivityType = iota
	TypeLevelOfEffort
	TypeWBSSummary
	TypeHammock
	TypeStartMilestone
	TypeFinishMilestone
	TypeStartFlag
	TypeFinishFlag
)

var activityTypeNames = []string{
	"ordinary", "level_of_effort", "wbs_summary", "hammock",
	"start_milestone", "finish_milestone", "start_flag", "finish_flag",
}

func (t ActivityType) String() string { return enumName(activityTypeNames, int(t)) }

// ParseActivityType accepts the snake case names used in String.
func ParseActivityType(s string) (ActivityType, error) {
	i, err := parseEnum("activity type", activityTypeNames, s)
	return ActivityType(i), err
}

// SchedulingMode selects between calculated and manually entered dates.
type SchedulingMode int

const (
	ModeAuto SchedulingMode = iota
	ModeManual
)

var modeNames = []string{"auto", "manual"}

func (m SchedulingMode) String() string { return enumName(modeNames, int(m)) }

// ParseSchedulingMode accepts "auto" or "manual".
func ParseSchedulingMode(s string) (SchedulingMode, error) {
	i, err := parseEnum("scheduling mode", modeNames, s)
	return SchedulingMode(i), err
}

// ActivityStatus records progress. StatusUnspecified defers to the actual dates.
type ActivityStatus int

const (
	StatusUnspecified ActivityStatus = iota
	StatusNotStarted
	StatusInProgress
	StatusCompleted
)

var statusNames = []string{"", "not_started", "in_progress", "completed"}

func (s ActivityStatus) String() string { return enumName(statusNames, int(s)) }

// ParseActivityStatus accepts the snake case names used in String.
func ParseActivityStatus(s string) (ActivityStatus, error) {
	i, err := parseEnum("activity status", statusNames, s)
	return ActivityStatus(i), err
}

// LagCalendar chooses the calendar relation lags are measured on.
type LagCalendar int

const (
	LagPredecessorCalendar LagCalendar = iota
	LagSuccessorCalendar
	LagProjectDefaultCalendar
	LagTwentyFourHourCalendar
)

var lagCalendarNames = []string{"predecessor", "successor", "project_default", "24_hour"}

func (l LagCalendar) String() string { return enumName(lagCalendarNames, int(l)) }

// ParseLagCalendar accepts the names used in String.
func ParseLagCalendar(s string) (LagCalendar, error) {
	i, err := parseEnum("lag calendar", lagCalendarNames, s)
	return LagCalendar(i), err
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseEnum(kind string, names []string, s string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for i, n := range names {
		if n == key {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TimeUnit qualifies a Duration value.
type TimeUnit int

const (
	Minutes TimeUnit = iota
	Hours
	Days
	Weeks
	Months
	Years
	Percent
	ElapsedMinutes
	ElapsedHours
	ElapsedDays
	ElapsedWeeks
	ElapsedMonths
	ElapsedYears
	ElapsedPercent
)

var unitSuffixes = map[TimeUnit]string{
	Minutes:        "m",
	Hours:          "h",
	Days:           "d",
	Weeks:          "w",
	Months:         "mo",
	Years:          "y",
	Percent:        "%",
	ElapsedMinutes: "em",
	ElapsedHours:   "eh",
	ElapsedDays:    "ed",
	ElapsedWeeks:   "ew",
	ElapsedMonths:  "emo",
	ElapsedYears:   "ey",
	ElapsedPercent: "e%",
}

func (u TimeUnit) String() string {
	if s, ok := unitSuffixes[u]; ok {
		return s
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// IsElapsed reports whether the unit ignores working time.
func (u TimeUnit) IsElapsed() bool {
	return u >= ElapsedMinutes
}

// IsPercent reports whether the unit is relative to another duration.
func (u TimeUnit) IsPercent() bool {
	return u == Percent || u == ElapsedPercent
}

// Elapsed returns the calendar-ignoring counterpart of u.
func (u TimeUnit) Elapsed() TimeUnit {
	if u.IsElapsed() {
		return u
	}
	return u + ElapsedMinutes
}

// Working returns the working-time counterpart of u.
func (u TimeUnit) Working() TimeUnit {
	if u.IsElapsed() {
		return u - ElapsedMinutes
	}
	return u
}

// DurationDefaults converts working-time units into minutes.
type DurationDefaults struct {
	MinutesPerDay  float64
	MinutesPerWeek float64
	DaysPerMonth   float64
}

// StandardDefaults are the usual eight hour day, forty hour week and twenty day month.
var StandardDefaults = DurationDefaults{MinutesPerDay: 480, MinutesPerWeek: 2400, DaysPerMonth: 20}

const (
	minutesPerElapsedDay   = 1440
	minutesPerElapsedWeek  = minutesPerElapsedDay * 7
	minutesPerElapsedMonth = minutesPerElapsedDay * 30
	minutesPerElapsedYear  = minutesPerElapsedDay * 365
)

// MinutesPer returns how many minutes one unit represents. Percent units return 0.
func (d DurationDefaults) MinutesPer(u TimeUnit) float64 {
	switch u {
	case Minutes, ElapsedMinutes:
		return 1
	case Hours, ElapsedHours:
		return 60
	case Days:
		return d.MinutesPerDay
	case Weeks:
		return d.MinutesPerWeek
	case Months:
		return d.MinutesPerDay * d.DaysPerMonth
	case Years:
		return d.MinutesPerWeek * 52
	case ElapsedDays:
		return minutesPerElapsedDay
	case ElapsedWeeks:
		return minutesPerElapsedWeek
	case ElapsedMonths:
		return minutesPerElapsedMonth
	case ElapsedYears:
		return minutesPerElapsedYear
	default:
		return 0
	}
}

// Duration is an amount of time expressed in a unit.
type Duration struct {
	Value float64
	Units TimeUnit
}

// NewDuration is a shorthand constructor.
func NewDuration(v float64, u TimeUnit) Duration {
	return Duration{Value: v, Units: u}
}

// IsZero reports whether the duration has no length.
func (d Duration) IsZero() bool { return d.Value == 0 }

// Negate flips the sign of the value.
func (d Duration) Negate() Duration { return Duration{Value: -d.Value, Units: d.Units} }

// Minutes converts the duration to minutes using def for working units.
func (d Duration) Minutes(def DurationDefaults) float64 {
	return d.Value * def.MinutesPer(d.Units)
}

// FromMinutes expresses a number of minutes in unit u.
func FromMinutes(minutes float64, u TimeUnit, def DurationDefaults) Duration {
	per := def.MinutesPer(u)
	if per == 0 {
		return Duration{Value: minutes, Units: Minutes}
	}
	return Duration{Value: minutes / per, Units: u}
}

func (d Duration) String() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + d.Units.String()
}

// ParseDuration reads values such as "2d", "4.5h", "3ed" or "50%".
// A bare number is read as days.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, fmt.Errorf("empty duration")
	}
	i := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '.' && r != '-' && r != '+'
	})
	num, suffix := s, ""
	if i >= 0 {
		num, suffix = s[:i], strings.ToLower(strings.TrimSpace(s[i:]))
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}
	if suffix == "" {
		return Duration{Value: v, Units: Days}, nil
	}
	for u, suf := range unitSuffixes {
		if suf == suffix {
			return Duration{Value: v, Units: u}, nil
		}
	}
	return Duration{}, fmt.Errorf("invalid duration unit %q in %q", suffix, s)
}

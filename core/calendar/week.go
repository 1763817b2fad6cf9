package calendar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/cpm/core/model"
)

const minutesPerDay = 24 * 60

// Range is a working period within a day in minutes from midnight. End may be 1440.
type Range struct {
	Start int
	End   int
}

// ParseRange reads "08:00-12:00".
func ParseRange(s string) (Range, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}
	start, err := parseClock(from)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	end, err := parseClock(to)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	return Range{Start: start, End: end}, nil
}

func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q must be HH:MM", s)
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, err
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	if hh < 0 || hh > 24 || mm < 0 || mm > 59 || (hh == 24 && mm != 0) {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return hh*60 + mm, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", r.Start/60, r.Start%60, r.End/60, r.End%60)
}

type dayKey struct {
	y int
	m time.Month
	d int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// WeekCalendar is a weekly working pattern with dated exceptions.
// It is immutable once built and safe to share between scheduling runs.
type WeekCalendar struct {
	name       string
	week       [7][]Range
	exceptions map[dayKey][]Range
	defaults   model.DurationDefaults
}

// Option customises a WeekCalendar.
type Option func(*WeekCalendar) error

// WithDefaults sets the unit conversion factors.
func WithDefaults(d model.DurationDefaults) Option {
	return func(c *WeekCalendar) error {
		if d.MinutesPerDay <= 0 || d.MinutesPerWeek <= 0 || d.DaysPerMonth <= 0 {
			return fmt.Errorf("duration defaults must be positive")
		}
		c.defaults = d
		return nil
	}
}

// WithException replaces the working periods of one date. No ranges means a non-working day.
func WithException(date time.Time, ranges ...Range) Option {
	return func(c *WeekCalendar) error {
		rs, err := normalize(ranges)
		if err != nil {
			return fmt.Errorf("exception %s: %w", date.Format(time.DateOnly), err)
		}
		c.exceptions[keyOf(date)] = rs
		return nil
	}
}

// New builds a calendar from per-weekday working periods.
func New(name string, week map[time.Weekday][]Range, opts ...Option) (*WeekCalendar, error) {
	c := &WeekCalendar{
		name:       name,
		exceptions: make(map[dayKey][]Range),
		defaults:   model.StandardDefaults,
	}
	working := false
	for wd, ranges := range week {
		if wd < time.Sunday || wd > time.Saturday {
			return nil, fmt.Errorf("calendar %s: invalid weekday %d", name, wd)
		}
		rs, err := normalize(ranges)
		if err != nil {
			return nil, fmt.Errorf("calendar %s %s: %w", name, wd, err)
		}
		c.week[wd] = rs
		working = working || len(rs) > 0
	}
	if !working {
		return nil, fmt.Errorf("calendar %s has no working days", name)
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("calendar %s: %w", name, err)
		}
	}
	return c, nil
}

func normalize(ranges []Range) ([]Range, error) {
	rs := append([]Range(nil), ranges...)
	sort.Slice(rs, func(i, j int) bool { return rs[i].Start < rs[j].Start })
	for i, r := range rs {
		if r.Start < 0 || r.End > minutesPerDay || r.Start >= r.End {
			return nil, fmt.Errorf("invalid range %s", r)
		}
		if i > 0 && r.Start < rs[i-1].End {
			return nil, fmt.Errorf("range %s overlaps %s", r, rs[i-1])
		}
	}
	return rs, nil
}

// Standard returns the Monday to Friday 08:00-12:00, 13:00-17:00 calendar.
func Standard() *WeekCalendar {
	day := []Range{{Start: 8 * 60, End: 12 * 60}, {Start: 13 * 60, End: 17 * 60}}
	c, _ := New("Standard", map[time.Weekday][]Range{
		time.Monday: day, time.Tuesday: day, time.Wednesday: day,
		time.Thursday: day, time.Friday: day,
	})
	return c
}

func (c *WeekCalendar) Name() string { return c.name }

func (c *WeekCalendar) Defaults() model.DurationDefaults { return c.defaults }

func (c *WeekCalendar) String() string { return c.name }

func (c *WeekCalendar) rangesOn(day time.Time) []Range {
	if rs, ok := c.exceptions[keyOf(day)]; ok {
		return rs
	}
	return c.week[day.Weekday()]
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func bounds(day time.Time, r Range) (time.Time, time.Time) {
	return day.Add(time.Duration(r.Start) * time.Minute), day.Add(time.Duration(r.End) * time.Minute)
}

func (c *WeekCalendar) toDuration(d model.Duration) time.Duration {
	return time.Duration(d.Minutes(c.defaults) * float64(time.Minute))
}

// AddWorkingDuration implements model.Calendar.
func (c *WeekCalendar) AddWorkingDuration(ts time.Time, d model.Duration) time.Time {
	amount := c.toDuration(d)
	switch {
	case amount == 0:
		return ts
	case d.Units.IsElapsed():
		return ts.Add(amount)
	case amount < 0:
		return c.subtractWork(ts, -amount)
	default:
		return c.addWork(ts, amount)
	}
}

// SubtractWorkingDuration implements model.Calendar.
func (c *WeekCalendar) SubtractWorkingDuration(ts time.Time, d model.Duration) time.Time {
	return c.AddWorkingDuration(ts, d.Negate())
}

// addWork may stop exactly at the end of a working period.
func (c *WeekCalendar) addWork(ts time.Time, remaining time.Duration) time.Time {
	cur := ts
	for day := midnight(ts); ; day = day.AddDate(0, 0, 1) {
		for _, r := range c.rangesOn(day) {
			s, e := bounds(day, r)
			if !e.After(cur) {
				continue
			}
			if cur.Before(s) {
				cur = s
			}
			avail := e.Sub(cur)
			if remaining <= avail {
				return cur.Add(remaining)
			}
			remaining -= avail
			cur = e
		}
	}
}

// subtractWork may stop exactly at the start of a working period.
func (c *WeekCalendar) subtractWork(ts time.Time, remaining time.Duration) time.Time {
	cur := ts
	for day := midnight(ts); ; day = day.AddDate(0, 0, -1) {
		rs := c.rangesOn(day)
		for i := len(rs) - 1; i >= 0; i-- {
			s, e := bounds(day, rs[i])
			if !s.Before(cur) {
				continue
			}
			if cur.After(e) {
				cur = e
			}
			avail := cur.Sub(s)
			if remaining <= avail {
				return cur.Add(-remaining)
			}
			remaining -= avail
			cur = s
		}
	}
}

// NextWorkingInstant implements model.Calendar.
func (c *WeekCalendar) NextWorkingInstant(ts time.Time) time.Time {
	for day := midnight(ts); ; day = day.AddDate(0, 0, 1) {
		for _, r := range c.rangesOn(day) {
			s, e := bounds(day, r)
			if !ts.Before(e) {
				continue
			}
			if ts.Before(s) {
				return s
			}
			return ts
		}
	}
}

// PreviousWorkingInstant implements model.Calendar.
func (c *WeekCalendar) PreviousWorkingInstant(ts time.Time) time.Time {
	for day := midnight(ts); ; day = day.AddDate(0, 0, -1) {
		rs := c.rangesOn(day)
		for i := len(rs) - 1; i >= 0; i-- {
			s, e := bounds(day, rs[i])
			if !s.Before(ts) {
				continue
			}
			if ts.After(e) {
				return e
			}
			return ts
		}
	}
}

// WorkingDurationBetween implements model.Calendar. The result is negative
// when end precedes start.
func (c *WeekCalendar) WorkingDurationBetween(start, end time.Time, unit model.TimeUnit) model.Duration {
	if unit.IsPercent() {
		unit = model.Minutes
	}
	if end.Before(start) {
		return c.WorkingDurationBetween(end, start, unit).Negate()
	}
	var total time.Duration
	if unit.IsElapsed() {
		total = end.Sub(start)
	} else {
		for day := midnight(start); day.Before(end); day = day.AddDate(0, 0, 1) {
			for _, r := range c.rangesOn(day) {
				s, e := bounds(day, r)
				if s.Before(start) {
					s = start
				}
				if e.After(end) {
					e = end
				}
				if e.After(s) {
					total += e.Sub(s)
				}
			}
		}
	}
	return model.FromMinutes(total.Minutes(), unit, c.defaults)
}

// StartOfWorkingDay implements model.Calendar.
func (c *WeekCalendar) StartOfWorkingDay(date time.Time) (time.Time, bool) {
	day := midnight(date)
	rs := c.rangesOn(day)
	if len(rs) == 0 {
		return time.Time{}, false
	}
	s, _ := bounds(day, rs[0])
	return s, true
}

// EndOfWorkingDay implements model.Calendar.
func (c *WeekCalendar) EndOfWorkingDay(date time.Time) (time.Time, bool) {
	day := midnight(date)
	rs := c.rangesOn(day)
	if len(rs) == 0 {
		return time.Time{}, false
	}
	_, e := bounds(day, rs[len(rs)-1])
	return e, true
}

var _ model.Calendar = (*WeekCalendar)(nil)

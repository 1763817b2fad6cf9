package cpm

import (
	"time"

	"github.com/kilianp07/cpm/core/model"
)

// dates is the scratch copy of an activity's computed values.
type dates struct {
	earlyStart  time.Time
	earlyFinish time.Time
	lateStart   time.Time
	lateFinish  time.Time
}

// run holds the state of a single Schedule call.
type run struct {
	style Style
	net   *model.Network
	order []*model.Activity
	dates map[*model.Activity]*dates

	projectStart  time.Time
	projectFinish time.Time
	// dataDate anchors progressed P6 activities.
	dataDate time.Time
	// backwardDone enables the MS Project ALAP predecessor rule.
	backwardDone bool
}

func (s *Scheduler) newRun(net *model.Network, order []*model.Activity, start time.Time) (*run, error) {
	if start.IsZero() {
		return nil, invalid("", "project start", "a project start date is required")
	}
	r := &run{
		style:        s.style,
		net:          net,
		order:        order,
		dates:        make(map[*model.Activity]*dates, len(order)),
		projectStart: start,
		dataDate:     net.Properties.StatusDate,
	}
	if r.style == StyleP6 {
		if err := r.checkLagCalendar(); err != nil {
			return nil, err
		}
	}
	for _, a := range order {
		if err := r.validate(a); err != nil {
			return nil, err
		}
		r.dates[a] = &dates{}
	}
	if r.dataDate.IsZero() {
		r.dataDate = start
	}
	if r.style == StyleP6 && r.dataDate.After(r.projectStart) {
		r.projectStart = r.dataDate
	}
	return r, nil
}

func (r *run) checkLagCalendar() error {
	props := r.net.Properties
	switch props.LagCalendar {
	case model.LagPredecessorCalendar, model.LagSuccessorCalendar:
		return nil
	case model.LagProjectDefaultCalendar:
		if props.DefaultCalendar != nil {
			return nil
		}
		return &UnsupportedConfigurationError{Setting: "lag_calendar", Value: "project_default without a default calendar"}
	default:
		return &UnsupportedConfigurationError{Setting: "lag_calendar", Value: props.LagCalendar.String()}
	}
}

func (r *run) validate(a *model.Activity) error {
	if r.net.Calendar(a) == nil {
		return invalid(a.ID, "calendar", "no calendar and no project default calendar")
	}
	if a.Duration.Units.IsPercent() {
		return invalid(a.ID, "duration", "percent units are only valid for lags")
	}
	if a.RemainingDuration().Units.IsPercent() {
		return invalid(a.ID, "remaining", "percent units are only valid for lags")
	}
	c := a.Constraint
	if c.Type != model.AsSoonAsPossible && c.Type != model.AsLateAsPossible && c.Date.IsZero() {
		return invalid(a.ID, "constraint", "%s requires a date", c.Type)
	}
	if r.style == StyleMSProject {
		if a.Mode == model.ModeManual && !a.Started() && (a.Start.IsZero() || a.Finish.IsZero()) {
			return invalid(a.ID, "mode", "manually scheduled activity needs start and finish")
		}
		if a.LevelingDelay.Units.IsPercent() && !a.LevelingDelay.IsZero() {
			return invalid(a.ID, "leveling delay", "unsupported units %s", a.LevelingDelay.Units)
		}
	}
	for _, rel := range r.net.Predecessors(a) {
		if rel.Lag.Units.IsPercent() && rel.Predecessor.Duration.Units.IsPercent() {
			return invalid(a.ID, "lag", "percent lag from %s needs a concrete predecessor duration", rel.Predecessor.ID)
		}
	}
	return nil
}

// commit copies the scratch dates onto the activities.
func (r *run) commit() {
	for _, a := range r.order {
		d := r.dates[a]
		a.EarlyStart = d.earlyStart
		a.EarlyFinish = d.earlyFinish
		a.LateStart = d.lateStart
		a.LateFinish = d.lateFinish
	}
}

func (r *run) calendar(a *model.Activity) model.Calendar { return r.net.Calendar(a) }

// predecessors returns relations from schedulable predecessors.
func (r *run) predecessors(a *model.Activity) []*model.Relation {
	var out []*model.Relation
	for _, rel := range r.net.Predecessors(a) {
		if rel.Predecessor.Schedulable() {
			out = append(out, rel)
		}
	}
	return out
}

// successors returns relations to schedulable successors.
func (r *run) successors(a *model.Activity) []*model.Relation {
	var out []*model.Relation
	for _, rel := range r.net.Successors(a) {
		if rel.Successor.Schedulable() {
			out = append(out, rel)
		}
	}
	return out
}

// shift moves ts by d on cal. P6 results are rounded to the minute.
func (r *run) shift(cal model.Calendar, ts time.Time, d model.Duration) time.Time {
	out := ts
	if !d.IsZero() {
		out = cal.AddWorkingDuration(ts, d)
	}
	if r.style == StyleP6 {
		out = roundToMinute(out, d.Value < 0)
	}
	return out
}

// roundToMinute rounds half up. When the applied duration was negative a
// remainder of exactly thirty seconds rounds down.
func roundToMinute(t time.Time, negative bool) time.Time {
	base := t.Truncate(time.Minute)
	rem := t.Sub(base)
	half := 30 * time.Second
	if rem > half || (!negative && rem == half) {
		return base.Add(time.Minute)
	}
	return base
}

func (r *run) lagCalendar(rel *model.Relation) model.Calendar {
	if r.style == StyleMSProject {
		return r.calendar(rel.Successor)
	}
	switch r.net.Properties.LagCalendar {
	case model.LagSuccessorCalendar:
		return r.calendar(rel.Successor)
	case model.LagProjectDefaultCalendar:
		return r.net.Properties.DefaultCalendar
	default:
		return r.calendar(rel.Predecessor)
	}
}

// lag resolves percentage lags against the predecessor duration.
func lag(rel *model.Relation) model.Duration {
	l := rel.Lag
	if !l.Units.IsPercent() {
		return l
	}
	pd := rel.Predecessor.Duration
	units := pd.Units
	if l.Units == model.ElapsedPercent {
		units = units.Elapsed()
	}
	return model.NewDuration(pd.Value*l.Value/100, units)
}

func (r *run) addLag(rel *model.Relation, ts time.Time) time.Time {
	l := lag(rel)
	if l.IsZero() {
		return ts
	}
	return r.shift(r.lagCalendar(rel), ts, l)
}

func (r *run) removeLag(rel *model.Relation, ts time.Time) time.Time {
	l := lag(rel)
	if l.IsZero() {
		return ts
	}
	return r.shift(r.lagCalendar(rel), ts, l.Negate())
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

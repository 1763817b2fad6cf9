package cpm

import (
	"time"

	"github.com/kilianp07/cpm/core/model"
)

const (
	minSnapGap = time.Minute
	// maxDayEndGap is the widest gap P6 closes when aligning a late finish
	// with the end of its working day.
	maxDayEndGap = 4 * time.Hour
)

func (r *run) backwardPass() error {
	for i := len(r.order) - 1; i >= 0; i-- {
		if err := r.backward(r.order[i]); err != nil {
			return err
		}
	}
	r.backwardDone = true
	return nil
}

func (r *run) backward(a *model.Activity) error {
	cal := r.calendar(a)
	d := r.dates[a]

	var lf time.Time
	switch {
	case a.Finished():
		lf = a.ActualFinish
	case a.Milestone && a.Started():
		lf = a.ActualStart
	default:
		succs := r.successors(a)
		if len(succs) == 0 {
			lf = r.projectFinish
		} else {
			var err error
			if lf, err = r.latestFinish(a, succs); err != nil {
				return err
			}
		}
		lf = r.backwardConstraint(a, cal, lf)
		if r.style == StyleP6 && !a.Deadline.IsZero() {
			lf = earlier(lf, a.Deadline)
		}
		lf = previousWorkFinish(cal, lf)
		if r.style == StyleP6 && !a.Duration.IsZero() {
			lf = alignDayEnd(cal, lf)
		}
	}

	d.lateFinish = lf
	d.lateStart = r.lateStart(a, cal, lf)
	return nil
}

func (r *run) lateStart(a *model.Activity, cal model.Calendar, lf time.Time) time.Time {
	if r.style == StyleMSProject {
		if a.Started() {
			return a.ActualStart
		}
		return r.shift(cal, lf, a.Duration.Negate())
	}
	dur := a.Duration
	if a.Started() {
		dur = a.RemainingDuration()
	}
	ls := r.shift(cal, lf, dur.Negate())
	if a.IsStartMilestone() || (!a.IsFinishMilestone() && !dur.IsZero()) {
		ls = cal.NextWorkingInstant(ls)
	}
	return ls
}

// latestFinish is the earliest candidate over all successor relations.
func (r *run) latestFinish(a *model.Activity, succs []*model.Relation) (time.Time, error) {
	var best time.Time
	for _, rel := range succs {
		sd := r.dates[rel.Successor]
		if sd == nil || sd.lateStart.IsZero() || sd.lateFinish.IsZero() {
			return time.Time{}, &MissingDateError{Activity: a.ID, What: "late dates of successor " + rel.Successor.ID}
		}
		c := earlier(r.relationLateFinish(rel, sd), r.projectFinish)
		if best.IsZero() || c.Before(best) {
			best = c
		}
	}
	if best.IsZero() {
		return time.Time{}, &MissingDateError{Activity: a.ID, What: "late finish"}
	}
	return best, nil
}

func (r *run) relationLateFinish(rel *model.Relation, sd *dates) time.Time {
	p, s := rel.Predecessor, rel.Successor
	cal := r.calendar(p)
	switch rel.Type {
	case model.StartStart:
		if r.style == StyleP6 {
			if p.Started() || s.Started() {
				return r.shift(cal, sd.lateStart, p.RemainingDuration())
			}
			ls := cal.NextWorkingInstant(r.removeLag(rel, sd.lateStart))
			return r.shift(cal, ls, p.RemainingDuration())
		}
		return r.shift(cal, r.removeLag(rel, sd.lateStart), p.Duration)

	case model.FinishFinish:
		if r.style == StyleP6 && p.Finished() {
			return sd.lateFinish
		}
		return r.removeLag(rel, sd.lateFinish)

	case model.StartFinish:
		return r.removeLag(rel, r.shift(cal, sd.lateFinish, p.Duration))

	default:
		if r.style == StyleP6 && (p.Started() || s.Started()) {
			return sd.lateStart
		}
		return r.removeLag(rel, sd.lateStart)
	}
}

func (r *run) backwardConstraint(a *model.Activity, cal model.Calendar, lf time.Time) time.Time {
	c := a.Constraint
	switch c.Type {
	case model.MustStartOn:
		if r.style == StyleMSProject || !a.Started() {
			lf = r.shift(cal, c.Date, a.Duration)
		}
	case model.MustFinishOn:
		lf = c.Date
	case model.StartNoLaterThan:
		lf = earlier(lf, r.shift(cal, c.Date, a.Duration))
	case model.FinishNoLaterThan:
		lf = earlier(lf, c.Date)
	}
	return lf
}

// previousWorkFinish moves a late finish sitting at the start of a working
// period back to the end of the previous one when no work lies between them.
func previousWorkFinish(cal model.Calendar, lf time.Time) time.Time {
	prev := cal.PreviousWorkingInstant(lf)
	between := cal.WorkingDurationBetween(prev, lf, model.Minutes)
	if between.Value < minSnapGap.Minutes() {
		return prev
	}
	return lf
}

// alignDayEnd snaps lf to the end of its working day when the gap is more
// than a minute and less than four hours.
func alignDayEnd(cal model.Calendar, lf time.Time) time.Time {
	end, ok := cal.EndOfWorkingDay(lf)
	if !ok {
		return lf
	}
	gap := end.Sub(lf)
	if gap > minSnapGap && gap < maxDayEndGap {
		return end
	}
	return lf
}

// alapPass places ALAP activities once late dates exist. MS Project repeats
// the forward pass; P6 pulls each ALAP activity up against its successors.
func (r *run) alapPass() error {
	hasALAP := false
	for _, a := range r.order {
		if a.IsALAP() {
			hasALAP = true
			break
		}
	}
	if !hasALAP {
		return nil
	}
	if r.style == StyleMSProject {
		return r.forwardPass()
	}
	for _, a := range r.order {
		if a.IsALAP() && !a.Started() {
			r.alapAdjust(a)
		}
	}
	return nil
}

func (r *run) alapAdjust(a *model.Activity) {
	cal := r.calendar(a)
	d := r.dates[a]
	remaining := a.RemainingDuration()

	succs := r.successors(a)
	if len(succs) == 0 {
		d.earlyFinish = r.projectFinish
		d.earlyStart = r.shift(cal, d.earlyFinish, remaining.Negate())
		return
	}

	var es time.Time
	for _, rel := range succs {
		sd := r.dates[rel.Successor]
		var c time.Time
		switch rel.Type {
		case model.FinishStart:
			c = r.removeLag(rel, r.shift(cal, sd.earlyStart, remaining.Negate()))
		case model.StartStart:
			c = r.removeLag(rel, sd.earlyStart)
		case model.FinishFinish:
			c = r.shift(cal, r.removeLag(rel, sd.earlyFinish), remaining.Negate())
		default:
			continue
		}
		if es.IsZero() || c.Before(es) {
			es = c
		}
	}
	if es.IsZero() {
		return
	}
	d.earlyStart = es
	d.earlyFinish = r.shift(cal, es, remaining)
}

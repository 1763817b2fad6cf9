package cpm

import (
	"time"

	"github.com/kilianp07/cpm/core/model"
)

func (r *run) forwardPass() error {
	for _, a := range r.order {
		if err := r.forward(a); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) forward(a *model.Activity) error {
	cal := r.calendar(a)
	d := r.dates[a]
	preds := r.predecessors(a)

	if r.style == StyleMSProject && a.Mode == model.ModeManual && !a.Started() {
		d.earlyStart, d.earlyFinish = a.Start, a.Finish
		return nil
	}

	var es, ef time.Time
	var err error
	switch {
	case !a.Started():
		if len(preds) == 0 {
			es, ef = r.unconstrainedStart(a, cal)
		} else if es, err = r.earliestStart(a, preds); err != nil {
			return err
		}
		if !(r.style == StyleP6 && a.IsFinishMilestone()) {
			es = cal.NextWorkingInstant(es)
		}
		es, ef = r.forwardConstraint(a, cal, es, ef)
	case r.style == StyleP6:
		if es, ef, err = r.progressedEarlyDates(a, cal, preds); err != nil {
			return err
		}
	default:
		es = a.ActualStart
	}

	if ef.IsZero() {
		if a.Finished() {
			ef = a.ActualFinish
		} else {
			ef = r.shift(cal, r.levelingDelay(a, es), a.Duration)
		}
	}
	d.earlyStart, d.earlyFinish = es, ef
	return nil
}

// unconstrainedStart seeds an activity without predecessors.
func (r *run) unconstrainedStart(a *model.Activity, cal model.Calendar) (es, ef time.Time) {
	switch a.Constraint.Type {
	case model.StartNoEarlierThan:
		return a.Constraint.Date, time.Time{}
	case model.FinishNoEarlierThan:
		ef = a.Constraint.Date
		return r.shift(cal, ef, a.Duration.Negate()), ef
	default:
		return r.projectStart, time.Time{}
	}
}

func (r *run) forwardConstraint(a *model.Activity, cal model.Calendar, es, ef time.Time) (time.Time, time.Time) {
	c := a.Constraint
	switch c.Type {
	case model.StartNoEarlierThan:
		es = later(es, c.Date)
	case model.StartNoLaterThan:
		es = earlier(es, c.Date)
	case model.FinishNoEarlierThan:
		es = later(es, r.shift(cal, c.Date, a.Duration.Negate()))
	case model.FinishNoLaterThan:
		if r.style == StyleMSProject {
			es = earlier(es, r.shift(cal, c.Date, a.Duration.Negate()))
		}
	case model.MustStartOn:
		es = c.Date
	case model.MustFinishOn:
		ef = c.Date
		es = r.shift(cal, ef, a.Duration.Negate())
	}
	return es, ef
}

// progressedEarlyDates handles P6 activities with an actual start.
func (r *run) progressedEarlyDates(a *model.Activity, cal model.Calendar, preds []*model.Relation) (time.Time, time.Time, error) {
	if a.Finished() {
		return r.dataDate, r.dataDate, nil
	}
	remaining := a.RemainingDuration()
	if len(preds) == 0 {
		ef := r.shift(cal, a.ActualStart, a.Duration)
		return r.shift(cal, ef, remaining.Negate()), ef, nil
	}
	es, err := r.earliestStart(a, preds)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	es = cal.NextWorkingInstant(es)
	return es, r.shift(cal, es, remaining), nil
}

// earliestStart is the latest candidate over all predecessor relations.
func (r *run) earliestStart(a *model.Activity, preds []*model.Relation) (time.Time, error) {
	var best time.Time
	for _, rel := range preds {
		pd := r.dates[rel.Predecessor]
		if pd == nil || pd.earlyStart.IsZero() || pd.earlyFinish.IsZero() {
			return time.Time{}, &MissingDateError{Activity: a.ID, What: "early dates of predecessor " + rel.Predecessor.ID}
		}
		c := r.relationEarlyStart(rel, pd)
		if r.style == StyleP6 && outOfSequence(rel) {
			c = later(c, r.dataDate)
		}
		best = later(best, c)
	}
	if best.IsZero() {
		return time.Time{}, &MissingDateError{Activity: a.ID, What: "early start"}
	}
	return best, nil
}

func (r *run) relationEarlyStart(rel *model.Relation, pd *dates) time.Time {
	p, s := rel.Predecessor, rel.Successor
	cal := r.calendar(s)
	switch rel.Type {
	case model.StartStart:
		if p.Started() {
			return pd.earlyStart
		}
		if r.style == StyleP6 && lag(rel).IsZero() {
			return r.lagCalendar(rel).NextWorkingInstant(pd.earlyStart)
		}
		return r.addLag(rel, pd.earlyStart)

	case model.FinishFinish:
		finish := pd.earlyFinish
		if p.Finished() {
			if r.style == StyleP6 {
				finish = earlier(finish, p.ActualFinish)
			} else {
				finish = p.ActualFinish
			}
		}
		es := r.addLag(rel, r.shift(cal, finish, s.RemainingDuration().Negate()))
		return later(es, r.projectStart)

	case model.StartFinish:
		return r.addLag(rel, r.shift(cal, pd.earlyStart, s.Duration.Negate()))

	default:
		// MS Project only: an ALAP predecessor is placed at its late finish
		// once a backward pass has run.
		if r.style == StyleMSProject && r.backwardDone && p.IsALAP() && !s.IsALAP() {
			return r.addLag(rel, pd.lateFinish)
		}
		if r.style == StyleP6 && p.Finished() {
			return pd.earlyFinish
		}
		return r.addLag(rel, pd.earlyFinish)
	}
}

// outOfSequence reports whether recorded progress contradicts the relation.
func outOfSequence(rel *model.Relation) bool {
	ps := rel.Predecessor.EffectiveStatus()
	ss := rel.Successor.EffectiveStatus()
	if ps == model.StatusNotStarted && ss == model.StatusNotStarted {
		return false
	}
	succStarted := ss == model.StatusInProgress || ss == model.StatusCompleted
	switch rel.Type {
	case model.FinishStart:
		return ps != model.StatusCompleted && succStarted
	case model.StartStart:
		return ps == model.StatusNotStarted && succStarted
	case model.FinishFinish:
		return ps != model.StatusCompleted && ss == model.StatusCompleted
	case model.StartFinish:
		return ps == model.StatusNotStarted && ss == model.StatusCompleted
	}
	return false
}

// levelingDelay applies the MS Project leveling delay as elapsed minutes.
func (r *run) levelingDelay(a *model.Activity, es time.Time) time.Time {
	if r.style != StyleMSProject || a.LevelingDelay.IsZero() || a.LevelingDelay.Units.IsPercent() {
		return es
	}
	minutes := a.LevelingDelay.Value * model.StandardDefaults.MinutesPer(a.LevelingDelay.Units.Elapsed())
	return es.Add(time.Duration(int64(minutes)) * time.Minute)
}

func (r *run) deriveProjectFinish() error {
	if r.style == StyleP6 && !r.net.Properties.MustFinishBy.IsZero() {
		r.projectFinish = r.net.Properties.MustFinishBy
		return nil
	}
	var finish time.Time
	for _, a := range r.order {
		finish = later(finish, r.dates[a].earlyFinish)
	}
	if finish.IsZero() {
		return &MissingDateError{Activity: r.order[len(r.order)-1].ID, What: "early finish"}
	}
	r.projectFinish = finish
	return nil
}

// Package slack derives float values from scheduled CPM dates the way
// Microsoft Project reports them.
package slack

import (
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/cpm/core/model"
)

// Slack holds the float values of one activity, in its duration units.
type Slack struct {
	Start    model.Duration
	Finish   model.Duration
	Total    model.Duration
	Free     model.Duration
	Critical bool
}

// Calculate returns the slack of a, which must have been scheduled.
func Calculate(net *model.Network, a *model.Activity) (Slack, error) {
	cal := net.Calendar(a)
	if cal == nil {
		return Slack{}, fmt.Errorf("activity %s: no calendar", a.ID)
	}
	if a.EarlyStart.IsZero() || a.EarlyFinish.IsZero() || a.LateStart.IsZero() || a.LateFinish.IsZero() {
		return Slack{}, fmt.Errorf("activity %s has not been scheduled", a.ID)
	}
	units := a.Duration.Units
	zero := model.NewDuration(0, units)

	var s Slack
	if a.IsALAP() {
		s.Start, s.Finish = zero, zero
	} else {
		s.Start = cal.WorkingDurationBetween(a.EarlyStart, a.LateStart, units)
		s.Finish = cal.WorkingDurationBetween(a.EarlyFinish, a.LateFinish, units)
	}

	switch {
	case a.Started():
		s.Total = s.Finish
	case s.Start.Value < s.Finish.Value:
		s.Total = s.Start
	default:
		s.Total = s.Finish
	}
	s.Free = freeSlack(net, a, s.Total)
	s.Critical = s.Total.Value <= 0
	return s, nil
}

// ForNetwork computes slack for every schedulable activity keyed by ID.
func ForNetwork(net *model.Network) (map[string]Slack, error) {
	out := make(map[string]Slack, len(net.Activities))
	for _, a := range net.Activities {
		if !a.Schedulable() {
			continue
		}
		s, err := Calculate(net, a)
		if err != nil {
			return nil, err
		}
		out[a.ID] = s
	}
	return out, nil
}

// freeSlack is the smallest gap to a successor that is not yet complete.
func freeSlack(net *model.Network, a *model.Activity, total model.Duration) model.Duration {
	units := a.Duration.Units
	if a.Finished() {
		return model.NewDuration(0, units)
	}
	cal := net.Calendar(a)
	best := math.Inf(1)
	for _, r := range net.Successors(a) {
		s := r.Successor
		if !s.Schedulable() || s.Finished() {
			continue
		}
		from, to := relationDates(r)
		if from.IsZero() || to.IsZero() {
			continue
		}
		gap := cal.WorkingDurationBetween(from, to, model.Minutes).Value - lagMinutes(r, cal)
		best = math.Min(best, gap)
	}
	if math.IsInf(best, 1) {
		return total
	}
	if best < 0 {
		best = 0
	}
	return model.FromMinutes(best, units, cal.Defaults())
}

func relationDates(r *model.Relation) (from, to time.Time) {
	p, s := r.Predecessor, r.Successor
	pStart, pFinish := p.EarlyStart, p.EarlyFinish
	if p.IsALAP() {
		pStart, pFinish = p.LateStart, p.LateFinish
	}
	sStart, sFinish := s.EarlyStart, s.EarlyFinish
	if s.IsALAP() {
		sStart, sFinish = s.LateStart, s.LateFinish
	}
	switch r.Type {
	case model.StartStart:
		return pStart, sStart
	case model.FinishFinish:
		return pFinish, sFinish
	case model.StartFinish:
		return pStart, sFinish
	default:
		return pFinish, sStart
	}
}

func lagMinutes(r *model.Relation, cal model.Calendar) float64 {
	l := r.Lag
	if l.Units.IsPercent() {
		pd := r.Predecessor.Duration
		l = model.NewDuration(pd.Value*l.Value/100, pd.Units)
	}
	return l.Minutes(cal.Defaults())
}

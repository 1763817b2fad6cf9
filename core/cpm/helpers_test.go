package cpm

import (
	"testing"
	"time"

	"github.com/kilianp07/cpm/core/calendar"
	"github.com/kilianp07/cpm/core/metrics"
	"github.com/kilianp07/cpm/core/model"
)

// jan returns a timestamp in January 2024. The 8th is a Monday.
func jan(day, hour, minute int) time.Time {
	return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
}

var monday = jan(8, 8, 0)

func days(v float64) model.Duration { return model.NewDuration(v, model.Days) }

// continuous is an 08:00-17:00 weekday calendar with nine hour days.
func continuous(t *testing.T) *calendar.WeekCalendar {
	t.Helper()
	day := []calendar.Range{{Start: 8 * 60, End: 17 * 60}}
	c, err := calendar.New("continuous", map[time.Weekday][]calendar.Range{
		time.Monday: day, time.Tuesday: day, time.Wednesday: day, time.Thursday: day, time.Friday: day,
	}, calendar.WithDefaults(model.DurationDefaults{MinutesPerDay: 540, MinutesPerWeek: 2700, DaysPerMonth: 20}))
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	return c
}

func activity(id string, d model.Duration) *model.Activity {
	return &model.Activity{ID: id, Name: id, Duration: d}
}

func rel(p, s *model.Activity, typ model.RelationType, lag model.Duration) *model.Relation {
	return &model.Relation{Predecessor: p, Successor: s, Type: typ, Lag: lag}
}

func fs(p, s *model.Activity) *model.Relation { return rel(p, s, model.FinishStart, model.Duration{}) }

func network(t *testing.T, cal model.Calendar, acts []*model.Activity, rels ...*model.Relation) *model.Network {
	t.Helper()
	net, err := model.NewNetwork(model.ProjectProperties{StartDate: monday, DefaultCalendar: cal}, acts, rels)
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	return net
}

func ids(acts []*model.Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}

type runRecorder struct {
	runs []string
}

func (r *runRecorder) RecordScheduleRun(run metrics.ScheduleRun) error {
	r.runs = append(r.runs, run.Outcome)
	return nil
}

package cpm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cpm/core/calendar"
	"github.com/kilianp07/cpm/core/model"
)

var styles = []Style{StyleMSProject, StyleP6}

func schedule(t *testing.T, style Style, net *model.Network) Result {
	t.Helper()
	res, err := New(style).Schedule(context.Background(), net, time.Time{})
	require.NoError(t, err)
	return res
}

func TestEndToEndCriticalChain(t *testing.T) {
	for _, style := range styles {
		t.Run(style.String(), func(t *testing.T) {
			cal := continuous(t)
			a, b := activity("A", days(2)), activity("B", days(3))
			net := network(t, cal, []*model.Activity{a, b}, fs(a, b))

			res := schedule(t, style, net)

			assert.Equal(t, jan(8, 8, 0), a.EarlyStart)
			assert.Equal(t, jan(9, 17, 0), a.EarlyFinish)
			assert.Equal(t, jan(10, 8, 0), b.EarlyStart)
			assert.Equal(t, jan(12, 17, 0), b.EarlyFinish)
			assert.Equal(t, jan(12, 17, 0), res.ProjectFinish)

			assert.Equal(t, b.EarlyFinish, b.LateFinish)
			assert.Equal(t, b.EarlyStart, b.LateStart)
			assert.Equal(t, a.EarlyStart, a.LateStart)
			// A finishes at the end of Tuesday, the equivalent of B starting Wednesday morning.
			assert.Equal(t, jan(9, 17, 0), a.LateFinish)
			assert.Zero(t, cal.WorkingDurationBetween(a.LateFinish, b.LateStart, model.Minutes).Value)
		})
	}
}

func TestUnconstrainedStartIsSnapped(t *testing.T) {
	for _, style := range styles {
		a := activity("A", days(1))
		net := network(t, calendar.Standard(), []*model.Activity{a})
		_, err := New(style).Schedule(context.Background(), net, jan(6, 10, 0))
		require.NoError(t, err)
		assert.Equal(t, jan(8, 8, 0), a.EarlyStart, style.String())
		assert.Equal(t, jan(8, 17, 0), a.EarlyFinish, style.String())
	}
}

func TestFinishStartUsesNextWorkingInstant(t *testing.T) {
	for _, style := range styles {
		cal := calendar.Standard()
		p, s := activity("P", days(0.5)), activity("S", days(1))
		net := network(t, cal, []*model.Activity{p, s}, fs(p, s))
		schedule(t, style, net)
		assert.Equal(t, jan(8, 12, 0), p.EarlyFinish)
		assert.Equal(t, cal.NextWorkingInstant(p.EarlyFinish), s.EarlyStart, style.String())
		assert.Equal(t, jan(8, 13, 0), s.EarlyStart)
	}
}

func TestRescheduleIsDeterministic(t *testing.T) {
	for _, style := range styles {
		a, b, c := activity("A", days(2)), activity("B", days(1)), activity("C", days(4))
		net := network(t, calendar.Standard(), []*model.Activity{a, b, c},
			fs(a, b), rel(a, c, model.StartStart, days(1)), rel(b, c, model.FinishFinish, days(1)))
		schedule(t, style, net)
		first := []time.Time{a.EarlyStart, a.EarlyFinish, a.LateStart, a.LateFinish, c.EarlyStart, c.LateFinish}
		schedule(t, style, net)
		second := []time.Time{a.EarlyStart, a.EarlyFinish, a.LateStart, a.LateFinish, c.EarlyStart, c.LateFinish}
		assert.Equal(t, first, second, style.String())
	}
}

func TestCycleLeavesDatesUntouched(t *testing.T) {
	sentinel := jan(1, 0, 0)
	a, b := activity("A", days(1)), activity("B", days(1))
	for _, x := range []*model.Activity{a, b} {
		x.EarlyStart, x.EarlyFinish, x.LateStart, x.LateFinish = sentinel, sentinel, sentinel, sentinel
	}
	net := network(t, calendar.Standard(), []*model.Activity{a, b}, fs(a, b), fs(b, a))

	rec := &runRecorder{}
	_, err := New(StyleMSProject, WithMetrics(rec)).Schedule(context.Background(), net, time.Time{})
	require.ErrorIs(t, err, ErrCycle)
	for _, x := range []*model.Activity{a, b} {
		assert.Equal(t, sentinel, x.EarlyStart)
		assert.Equal(t, sentinel, x.LateFinish)
	}
	assert.Equal(t, []string{"cycle"}, rec.runs)
}

func TestMustStartOnIgnoresPredecessors(t *testing.T) {
	for _, style := range styles {
		a, b := activity("A", days(5)), activity("B", days(1))
		b.Constraint = model.Constraint{Type: model.MustStartOn, Date: jan(9, 8, 0)}
		net := network(t, calendar.Standard(), []*model.Activity{a, b}, fs(a, b))
		schedule(t, style, net)
		assert.Equal(t, jan(9, 8, 0), b.EarlyStart, style.String())
		assert.Equal(t, jan(9, 17, 0), b.EarlyFinish, style.String())
	}
}

func TestStartNoEarlierThanIsLowerBound(t *testing.T) {
	for _, style := range styles {
		a, b, c := activity("A", days(2)), activity("B", days(1)), activity("C", days(1))
		b.Constraint = model.Constraint{Type: model.StartNoEarlierThan, Date: jan(8, 8, 0)}
		c.Constraint = model.Constraint{Type: model.StartNoEarlierThan, Date: jan(15, 8, 0)}
		net := network(t, calendar.Standard(), []*model.Activity{a, b, c}, fs(a, b), fs(a, c))
		schedule(t, style, net)
		assert.Equal(t, jan(10, 8, 0), b.EarlyStart, style.String())
		assert.Equal(t, jan(15, 8, 0), c.EarlyStart, style.String())
	}
}

func TestFinishConstraints(t *testing.T) {
	a := activity("A", days(2))
	a.Constraint = model.Constraint{Type: model.FinishNoLaterThan, Date: jan(8, 17, 0)}
	net := network(t, calendar.Standard(), []*model.Activity{a})
	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(5, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(8, 17, 0), a.LateFinish)

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(8, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(8, 17, 0), a.LateFinish)

	m := activity("M", days(1))
	m.Constraint = model.Constraint{Type: model.MustFinishOn, Date: jan(10, 17, 0)}
	net = network(t, calendar.Standard(), []*model.Activity{m})
	for _, style := range styles {
		schedule(t, style, net)
		assert.Equal(t, jan(10, 8, 0), m.EarlyStart, style.String())
		assert.Equal(t, jan(10, 17, 0), m.EarlyFinish, style.String())
		assert.Equal(t, jan(10, 17, 0), m.LateFinish, style.String())
		assert.Equal(t, jan(10, 8, 0), m.LateStart, style.String())
	}
}

func TestFinishNoEarlierThanWithoutPredecessors(t *testing.T) {
	a := activity("A", days(1))
	a.Constraint = model.Constraint{Type: model.FinishNoEarlierThan, Date: jan(11, 17, 0)}
	net := network(t, calendar.Standard(), []*model.Activity{a})
	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(11, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(11, 17, 0), a.EarlyFinish)
}

func TestRelationTypesAndLags(t *testing.T) {
	for _, style := range styles {
		t.Run(style.String(), func(t *testing.T) {
			a := activity("A", days(2))
			lagged := activity("FS1", days(1))
			ss := activity("SS50", days(1))
			ff := activity("FF", days(1))
			ffClamp := activity("FF3", days(3))
			net := network(t, calendar.Standard(), []*model.Activity{a, lagged, ss, ff, ffClamp},
				rel(a, lagged, model.FinishStart, days(1)),
				rel(a, ss, model.StartStart, model.NewDuration(50, model.Percent)),
				rel(a, ff, model.FinishFinish, model.Duration{}),
				rel(a, ffClamp, model.FinishFinish, model.Duration{}),
			)
			schedule(t, style, net)
			assert.Equal(t, jan(11, 8, 0), lagged.EarlyStart)
			assert.Equal(t, jan(9, 8, 0), ss.EarlyStart)
			assert.Equal(t, jan(9, 8, 0), ff.EarlyStart)
			assert.Equal(t, jan(9, 17, 0), ff.EarlyFinish)
			assert.Equal(t, jan(8, 8, 0), ffClamp.EarlyStart)
		})
	}
}

func TestStartFinishRelation(t *testing.T) {
	a, b := activity("A", days(1)), activity("B", days(1))
	a.Constraint = model.Constraint{Type: model.StartNoEarlierThan, Date: jan(10, 8, 0)}
	net := network(t, calendar.Standard(), []*model.Activity{a, b}, rel(a, b, model.StartFinish, model.Duration{}))
	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(9, 8, 0), b.EarlyStart)
	assert.Equal(t, jan(9, 17, 0), b.EarlyFinish)
}

func TestP6LagCalendarPolicy(t *testing.T) {
	for _, policy := range []model.LagCalendar{model.LagTwentyFourHourCalendar, model.LagProjectDefaultCalendar} {
		a, b := activity("A", days(1)), activity("B", days(1))
		a.Calendar, b.Calendar = calendar.Standard(), calendar.Standard()
		net, err := model.NewNetwork(model.ProjectProperties{StartDate: monday, LagCalendar: policy},
			[]*model.Activity{a, b}, []*model.Relation{fs(a, b)})
		require.NoError(t, err)

		_, err = New(StyleP6).Schedule(context.Background(), net, time.Time{})
		require.ErrorIs(t, err, ErrUnsupportedConfiguration, policy.String())
		var uc *UnsupportedConfigurationError
		require.True(t, errors.As(err, &uc))
		assert.Equal(t, "lag_calendar", uc.Setting)
		assert.True(t, a.EarlyStart.IsZero())

		// MS Project always measures lags on the successor calendar.
		_, err = New(StyleMSProject).Schedule(context.Background(), net, time.Time{})
		require.NoError(t, err)
	}
}

func TestP6LagOnPredecessorCalendar(t *testing.T) {
	cont := continuous(t)
	a, b := activity("A", days(1)), activity("B", days(1))
	a.Calendar = cont
	b.Calendar = calendar.Standard()
	props := model.ProjectProperties{StartDate: monday, LagCalendar: model.LagPredecessorCalendar}
	net, err := model.NewNetwork(props, []*model.Activity{a, b}, []*model.Relation{rel(a, b, model.FinishStart, model.NewDuration(4, model.Hours))})
	require.NoError(t, err)

	schedule(t, StyleP6, net)
	// Mon 17:00 plus four hours on the 08-17 calendar is Tue 12:00 which the
	// successor calendar moves to 13:00.
	assert.Equal(t, jan(9, 13, 0), b.EarlyStart)

	schedule(t, StyleMSProject, net)
	// Measured on the successor calendar: Tue 08:00 plus four hours.
	assert.Equal(t, jan(9, 13, 0), b.EarlyStart)
}

func TestMSProjectALAPPredecessorQuirk(t *testing.T) {
	a, b, c := activity("A", days(1)), activity("B", days(1)), activity("C", days(5))
	a.Constraint = model.Constraint{Type: model.AsLateAsPossible}
	net := network(t, calendar.Standard(), []*model.Activity{a, b, c}, fs(a, b))

	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(11, 17, 0), a.LateFinish)
	assert.Equal(t, jan(12, 8, 0), b.EarlyStart)
	assert.Equal(t, jan(12, 17, 0), b.EarlyFinish)

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(8, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(9, 8, 0), b.EarlyStart)
}

func TestP6ALAPWithoutSuccessors(t *testing.T) {
	a, c := activity("A", days(1)), activity("C", days(5))
	a.Constraint = model.Constraint{Type: model.AsLateAsPossible}
	net := network(t, calendar.Standard(), []*model.Activity{a, c})
	schedule(t, StyleP6, net)
	assert.Equal(t, jan(12, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(12, 17, 0), a.EarlyFinish)
}

func TestP6Deadline(t *testing.T) {
	a, c := activity("A", days(1)), activity("C", days(5))
	a.Deadline = jan(10, 17, 0)
	net := network(t, calendar.Standard(), []*model.Activity{a, c})

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(10, 17, 0), a.LateFinish)
	assert.Equal(t, jan(10, 8, 0), a.LateStart)

	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(12, 17, 0), a.LateFinish)
}

func TestP6LateFinishDayEndAlignment(t *testing.T) {
	cases := []struct {
		name   string
		finish time.Time
		want   time.Time
	}{
		{"three hours short", jan(12, 14, 0), jan(12, 17, 0)},
		{"four and a half hours short", jan(12, 12, 30), jan(12, 12, 30)},
		{"at day end", jan(12, 17, 0), jan(12, 17, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := activity("A", days(1))
			net, err := model.NewNetwork(model.ProjectProperties{
				StartDate: monday, MustFinishBy: tc.finish, DefaultCalendar: continuous(t),
			}, []*model.Activity{a}, nil)
			require.NoError(t, err)
			res := schedule(t, StyleP6, net)
			assert.Equal(t, tc.finish, res.ProjectFinish)
			assert.Equal(t, tc.want, a.LateFinish)
		})
	}
}

func TestProgressedActivities(t *testing.T) {
	a, b := activity("A", days(2)), activity("B", days(2))
	a.ActualStart, a.ActualFinish = jan(8, 8, 0), jan(9, 17, 0)
	props := model.ProjectProperties{StartDate: monday, StatusDate: jan(10, 8, 0), DefaultCalendar: calendar.Standard()}
	net, err := model.NewNetwork(props, []*model.Activity{a, b}, []*model.Relation{fs(a, b)})
	require.NoError(t, err)

	res := schedule(t, StyleP6, net)
	assert.Equal(t, jan(10, 8, 0), res.ProjectStart)
	assert.Equal(t, jan(10, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(10, 8, 0), a.EarlyFinish)
	assert.Equal(t, jan(9, 17, 0), a.LateFinish)
	assert.Equal(t, jan(10, 8, 0), b.EarlyStart)
	assert.Equal(t, jan(11, 17, 0), b.EarlyFinish)

	res = schedule(t, StyleMSProject, net)
	assert.Equal(t, monday, res.ProjectStart)
	assert.Equal(t, jan(8, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(9, 17, 0), a.EarlyFinish)
	assert.Equal(t, jan(10, 8, 0), b.EarlyStart)
	assert.Equal(t, jan(11, 17, 0), b.EarlyFinish)
}

func TestP6InProgressWithoutPredecessors(t *testing.T) {
	a := activity("A", days(2))
	rem := days(1)
	a.Remaining = &rem
	a.ActualStart = jan(8, 8, 0)
	props := model.ProjectProperties{StartDate: monday, StatusDate: jan(9, 8, 0), DefaultCalendar: calendar.Standard()}
	net, err := model.NewNetwork(props, []*model.Activity{a}, nil)
	require.NoError(t, err)

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(9, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(9, 17, 0), a.EarlyFinish)
	assert.Equal(t, jan(9, 8, 0), a.LateStart)
}

func TestP6OutOfSequenceAnchorsOnDataDate(t *testing.T) {
	p, s := activity("P", days(1)), activity("S", days(2))
	rem := days(1)
	s.Remaining = &rem
	s.ActualStart = jan(8, 8, 0)
	// P is driven by a constraint far before the data date.
	p.Constraint = model.Constraint{Type: model.MustStartOn, Date: jan(1, 8, 0)}
	props := model.ProjectProperties{StartDate: jan(1, 8, 0), StatusDate: jan(10, 8, 0), DefaultCalendar: calendar.Standard()}
	net, err := model.NewNetwork(props, []*model.Activity{p, s}, []*model.Relation{fs(p, s)})
	require.NoError(t, err)

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(1, 17, 0), p.EarlyFinish)
	assert.Equal(t, jan(10, 8, 0), s.EarlyStart)
	assert.Equal(t, jan(10, 17, 0), s.EarlyFinish)
}

func TestOutOfSequence(t *testing.T) {
	started := jan(8, 8, 0)
	mk := func(status model.ActivityStatus) *model.Activity {
		a := activity("X", days(1))
		a.Status = status
		if status != model.StatusNotStarted {
			a.ActualStart = started
		}
		if status == model.StatusCompleted {
			a.ActualFinish = started.Add(time.Hour)
		}
		return a
	}
	ns, ip, cp := model.StatusNotStarted, model.StatusInProgress, model.StatusCompleted
	cases := []struct {
		typ  model.RelationType
		pred model.ActivityStatus
		succ model.ActivityStatus
		want bool
	}{
		{model.FinishStart, ns, ns, false},
		{model.FinishStart, ns, ip, true},
		{model.FinishStart, ip, cp, true},
		{model.FinishStart, cp, ip, false},
		{model.StartStart, ns, ip, true},
		{model.StartStart, ip, ip, false},
		{model.FinishFinish, ip, ip, false},
		{model.FinishFinish, ip, cp, true},
		{model.StartFinish, ns, cp, true},
		{model.StartFinish, ip, cp, false},
	}
	for _, tc := range cases {
		r := rel(mk(tc.pred), mk(tc.succ), tc.typ, model.Duration{})
		if got := outOfSequence(r); got != tc.want {
			t.Fatalf("%s %s->%s: got %v want %v", tc.typ, tc.pred, tc.succ, got, tc.want)
		}
	}
}

func TestMSProjectManualTask(t *testing.T) {
	m, b := activity("M", days(1)), activity("B", days(1))
	m.Mode = model.ModeManual
	m.Start, m.Finish = jan(10, 8, 0), jan(10, 17, 0)
	net := network(t, calendar.Standard(), []*model.Activity{m, b}, fs(m, b))

	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(10, 8, 0), m.EarlyStart)
	assert.Equal(t, jan(10, 17, 0), m.EarlyFinish)
	assert.Equal(t, jan(11, 8, 0), b.EarlyStart)

	m.Start = time.Time{}
	_, err := New(StyleMSProject).Schedule(context.Background(), net, time.Time{})
	require.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestLevelingDelay(t *testing.T) {
	a := activity("A", days(1))
	a.LevelingDelay = model.NewDuration(1, model.ElapsedDays)
	net := network(t, calendar.Standard(), []*model.Activity{a})

	schedule(t, StyleMSProject, net)
	assert.Equal(t, jan(8, 8, 0), a.EarlyStart)
	assert.Equal(t, jan(9, 17, 0), a.EarlyFinish)

	schedule(t, StyleP6, net)
	assert.Equal(t, jan(8, 17, 0), a.EarlyFinish)
}

func TestExcludedActivitiesAreUntouched(t *testing.T) {
	a, x := activity("A", days(1)), activity("X", days(1))
	x.Inactive = true
	net := network(t, calendar.Standard(), []*model.Activity{a, x}, fs(x, a))
	res := schedule(t, StyleMSProject, net)
	assert.Equal(t, []string{"A"}, ids(res.Order))
	assert.True(t, x.EarlyStart.IsZero())
	assert.Equal(t, monday, a.EarlyStart)
}

func TestScheduleValidation(t *testing.T) {
	a := activity("A", days(1))
	net, err := model.NewNetwork(model.ProjectProperties{StartDate: monday}, []*model.Activity{a}, nil)
	require.NoError(t, err)
	_, err = New(StyleMSProject).Schedule(context.Background(), net, time.Time{})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "calendar", ve.Field)

	net = network(t, calendar.Standard(), []*model.Activity{a})
	net.Properties.StartDate = time.Time{}
	_, err = New(StyleMSProject).Schedule(context.Background(), net, time.Time{})
	require.ErrorIs(t, err, ErrInvalidNetwork)

	b := activity("B", model.NewDuration(10, model.Percent))
	net = network(t, calendar.Standard(), []*model.Activity{b})
	_, err = New(StyleP6).Schedule(context.Background(), net, time.Time{})
	require.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestScheduleHonoursCancellation(t *testing.T) {
	a := activity("A", days(1))
	net := network(t, calendar.Standard(), []*model.Activity{a})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &runRecorder{}
	_, err := New(StyleP6, WithMetrics(rec)).Schedule(ctx, net, time.Time{})
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, a.EarlyStart.IsZero())
	assert.Equal(t, []string{"canceled"}, rec.runs)
}

func TestScheduleRecordsRun(t *testing.T) {
	a := activity("A", days(1))
	net := network(t, calendar.Standard(), []*model.Activity{a})
	rec := &runRecorder{}
	res, err := New(StyleMSProject, WithMetrics(rec)).Schedule(context.Background(), net, time.Time{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"ok"}, rec.runs)
}

func TestEmptyNetwork(t *testing.T) {
	net := network(t, calendar.Standard(), nil)
	res := schedule(t, StyleP6, net)
	assert.Empty(t, res.Order)
	assert.Equal(t, monday, res.ProjectFinish)
}

func TestRoundToMinute(t *testing.T) {
	base := jan(8, 10, 0)
	assert.Equal(t, jan(8, 10, 1), roundToMinute(base.Add(30*time.Second), false))
	assert.Equal(t, jan(8, 10, 0), roundToMinute(base.Add(30*time.Second), true))
	assert.Equal(t, jan(8, 10, 1), roundToMinute(base.Add(31*time.Second), true))
	assert.Equal(t, jan(8, 10, 0), roundToMinute(base.Add(29*time.Second), false))
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("Primavera")
	require.NoError(t, err)
	assert.Equal(t, StyleP6, s)
	s, err = ParseStyle("msproject")
	require.NoError(t, err)
	assert.Equal(t, StyleMSProject, s)
	_, err = ParseStyle("asta")
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "missing_date", Outcome(&MissingDateError{Activity: "A", What: "late finish"}))
	assert.Equal(t, "unsupported_configuration", Outcome(&UnsupportedConfigurationError{Setting: "x", Value: "y"}))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}

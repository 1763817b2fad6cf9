package network

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/cpm/core/calendar"
	"github.com/kilianp07/cpm/core/compare"
	"github.com/kilianp07/cpm/core/model"
)

var timeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", time.DateOnly}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseTime reads a timestamp in UTC. An empty string yields the zero time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// Build converts the decoded file into a network.
func (f File) Build() (Loaded, error) {
	cals, def, err := f.calendars()
	if err != nil {
		return Loaded{}, err
	}
	props, err := f.Project.properties(cals, def)
	if err != nil {
		return Loaded{}, err
	}

	acts := make([]*model.Activity, 0, len(f.Activities))
	byID := make(map[string]*model.Activity, len(f.Activities))
	baseline := make(map[string]compare.Dates)
	for i, entry := range f.Activities {
		a, err := entry.activity(cals)
		if err != nil {
			if entry.ID == "" {
				return Loaded{}, fmt.Errorf("activity %d: %w", i, err)
			}
			return Loaded{}, fmt.Errorf("activity %s: %w", entry.ID, err)
		}
		if entry.Baseline != nil {
			d, err := entry.Baseline.dates()
			if err != nil {
				return Loaded{}, fmt.Errorf("activity %s baseline: %w", entry.ID, err)
			}
			baseline[a.ID] = d
		}
		acts = append(acts, a)
		byID[a.ID] = a
	}

	rels := make([]*model.Relation, 0, len(f.Relations))
	for i, entry := range f.Relations {
		r, err := entry.relation(byID)
		if err != nil {
			return Loaded{}, fmt.Errorf("relation %d (%s -> %s): %w", i, entry.Predecessor, entry.Successor, err)
		}
		rels = append(rels, r)
	}

	net, err := model.NewNetwork(props, acts, rels)
	if err != nil {
		return Loaded{}, err
	}
	return Loaded{Network: net, Baseline: baseline, LagCalendarSet: f.Project.LagCalendar != ""}, nil
}

func (f File) calendars() (map[string]model.Calendar, model.Calendar, error) {
	cals := make(map[string]model.Calendar, len(f.Calendars))
	var first model.Calendar
	for i, entry := range f.Calendars {
		if entry.Name == "" {
			return nil, nil, fmt.Errorf("calendar %d: missing name", i)
		}
		if _, dup := cals[entry.Name]; dup {
			return nil, nil, fmt.Errorf("calendar %s: duplicate name", entry.Name)
		}
		c, err := entry.build()
		if err != nil {
			return nil, nil, err
		}
		cals[entry.Name] = c
		if first == nil {
			first = c
		}
	}
	if first == nil {
		std := calendar.Standard()
		cals[std.Name()] = std
		first = std
	}
	return cals, first, nil
}

func (c Calendar) build() (*calendar.WeekCalendar, error) {
	week := make(map[time.Weekday][]calendar.Range, len(c.Week))
	for name, entries := range c.Week {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("calendar %s: unknown weekday %q", c.Name, name)
		}
		rs, err := parseRanges(entries)
		if err != nil {
			return nil, fmt.Errorf("calendar %s %s: %w", c.Name, name, err)
		}
		week[wd] = rs
	}

	var opts []calendar.Option
	if c.MinutesPerDay != 0 || c.MinutesPerWeek != 0 || c.DaysPerMonth != 0 {
		def := model.StandardDefaults
		if c.MinutesPerDay != 0 {
			def.MinutesPerDay = c.MinutesPerDay
		}
		if c.MinutesPerWeek != 0 {
			def.MinutesPerWeek = c.MinutesPerWeek
		}
		if c.DaysPerMonth != 0 {
			def.DaysPerMonth = c.DaysPerMonth
		}
		opts = append(opts, calendar.WithDefaults(def))
	}
	for _, ex := range c.Exceptions {
		date, err := ParseTime(ex.Date)
		if err != nil || date.IsZero() {
			return nil, fmt.Errorf("calendar %s: exception date %q", c.Name, ex.Date)
		}
		rs, err := parseRanges(ex.Ranges)
		if err != nil {
			return nil, fmt.Errorf("calendar %s exception %s: %w", c.Name, ex.Date, err)
		}
		opts = append(opts, calendar.WithException(date, rs...))
	}
	return calendar.New(c.Name, week, opts...)
}

func parseRanges(entries []string) ([]calendar.Range, error) {
	out := make([]calendar.Range, 0, len(entries))
	for _, s := range entries {
		r, err := calendar.ParseRange(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (p Project) properties(cals map[string]model.Calendar, def model.Calendar) (model.ProjectProperties, error) {
	var props model.ProjectProperties
	var err error
	if props.StartDate, err = ParseTime(p.Start); err != nil {
		return props, fmt.Errorf("project start: %w", err)
	}
	if props.MustFinishBy, err = ParseTime(p.MustFinishBy); err != nil {
		return props, fmt.Errorf("project must_finish_by: %w", err)
	}
	if props.StatusDate, err = ParseTime(p.StatusDate); err != nil {
		return props, fmt.Errorf("project status_date: %w", err)
	}
	if p.LagCalendar != "" {
		if props.LagCalendar, err = model.ParseLagCalendar(p.LagCalendar); err != nil {
			return props, fmt.Errorf("project: %w", err)
		}
	}
	props.DefaultCalendar = def
	if p.DefaultCalendar != "" {
		c, ok := cals[p.DefaultCalendar]
		if !ok {
			return props, fmt.Errorf("project: unknown default calendar %q", p.DefaultCalendar)
		}
		props.DefaultCalendar = c
	}
	return props, nil
}

func (s Activity) activity(cals map[string]model.Calendar) (*model.Activity, error) {
	a := &model.Activity{
		ID:        s.ID,
		Name:      s.Name,
		Summary:   s.Summary,
		Inactive:  s.Inactive,
		Null:      s.Null,
		Milestone: s.Milestone,
	}
	var err error
	if s.Duration != "" {
		if a.Duration, err = model.ParseDuration(s.Duration); err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
	}
	if s.Remaining != "" {
		rem, err := model.ParseDuration(s.Remaining)
		if err != nil {
			return nil, fmt.Errorf("remaining: %w", err)
		}
		a.Remaining = &rem
	}
	if s.LevelingDelay != "" {
		if a.LevelingDelay, err = model.ParseDuration(s.LevelingDelay); err != nil {
			return nil, fmt.Errorf("leveling_delay: %w", err)
		}
	}
	if s.Calendar != "" {
		c, ok := cals[s.Calendar]
		if !ok {
			return nil, fmt.Errorf("unknown calendar %q", s.Calendar)
		}
		a.Calendar = c
	}
	if s.Constraint != "" {
		if a.Constraint.Type, err = model.ParseConstraintType(s.Constraint); err != nil {
			return nil, err
		}
	}
	if s.Type != "" {
		if a.Type, err = model.ParseActivityType(s.Type); err != nil {
			return nil, err
		}
	}
	if s.Mode != "" {
		if a.Mode, err = model.ParseSchedulingMode(s.Mode); err != nil {
			return nil, err
		}
	}
	if s.Status != "" {
		if a.Status, err = model.ParseActivityStatus(s.Status); err != nil {
			return nil, err
		}
	}

	dates := []struct {
		name string
		src  string
		dst  *time.Time
	}{
		{"constraint_date", s.ConstraintDate, &a.Constraint.Date},
		{"deadline", s.Deadline, &a.Deadline},
		{"actual_start", s.ActualStart, &a.ActualStart},
		{"actual_finish", s.ActualFinish, &a.ActualFinish},
		{"start", s.Start, &a.Start},
		{"finish", s.Finish, &a.Finish},
	}
	for _, d := range dates {
		if *d.dst, err = ParseTime(d.src); err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
	}
	return a, nil
}

func (b Baseline) dates() (compare.Dates, error) {
	var d compare.Dates
	fields := []struct {
		src string
		dst *time.Time
	}{
		{b.EarlyStart, &d.EarlyStart},
		{b.EarlyFinish, &d.EarlyFinish},
		{b.LateStart, &d.LateStart},
		{b.LateFinish, &d.LateFinish},
	}
	for _, f := range fields {
		t, err := ParseTime(f.src)
		if err != nil {
			return d, err
		}
		*f.dst = t
	}
	return d, nil
}

func (s Relation) relation(byID map[string]*model.Activity) (*model.Relation, error) {
	p, ok := byID[s.Predecessor]
	if !ok {
		return nil, fmt.Errorf("unknown predecessor %q", s.Predecessor)
	}
	succ, ok := byID[s.Successor]
	if !ok {
		return nil, fmt.Errorf("unknown successor %q", s.Successor)
	}
	r := &model.Relation{ID: s.ID, Predecessor: p, Successor: succ}
	var err error
	if s.Type != "" {
		if r.Type, err = model.ParseRelationType(s.Type); err != nil {
			return nil, err
		}
	}
	if s.Lag != "" {
		if r.Lag, err = model.ParseDuration(s.Lag); err != nil {
			return nil, fmt.Errorf("lag: %w", err)
		}
	}
	return r, nil
}

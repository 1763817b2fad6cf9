// Package compare checks scheduled dates against a reference schedule
// exported from the originating planning tool.
package compare

import (
	"fmt"
	"time"

	"github.com/kilianp07/cpm/core/model"
)

// Field names a compared date.
type Field string

const (
	EarlyStart  Field = "early_start"
	EarlyFinish Field = "early_finish"
	LateStart   Field = "late_start"
	LateFinish  Field = "late_finish"
)

// Dates are the reference values for one activity. Zero fields are not
// compared.
type Dates struct {
	EarlyStart  time.Time `json:"early_start,omitempty" yaml:"early_start,omitempty"`
	EarlyFinish time.Time `json:"early_finish,omitempty" yaml:"early_finish,omitempty"`
	LateStart   time.Time `json:"late_start,omitempty" yaml:"late_start,omitempty"`
	LateFinish  time.Time `json:"late_finish,omitempty" yaml:"late_finish,omitempty"`
}

// Mismatch is a computed date that differs from its reference.
type Mismatch struct {
	ActivityID string    `json:"activity_id" yaml:"activity_id"`
	Field      Field     `json:"field" yaml:"field"`
	Expected   time.Time `json:"expected" yaml:"expected"`
	Actual     time.Time `json:"actual" yaml:"actual"`
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: expected %s, got %s", m.ActivityID, m.Field,
		m.Expected.Format("2006-01-02 15:04"), m.Actual.Format("2006-01-02 15:04"))
}

// Report summarises a comparison.
type Report struct {
	Compared       int        `json:"compared" yaml:"compared"`
	ForwardErrors  int        `json:"forward_errors" yaml:"forward_errors"`
	BackwardErrors int        `json:"backward_errors" yaml:"backward_errors"`
	Mismatches     []Mismatch `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// OK reports whether every compared date matched.
func (r Report) OK() bool { return r.ForwardErrors == 0 && r.BackwardErrors == 0 }

// Compare walks the network in order and checks each schedulable activity
// that has a baseline entry.
func Compare(net *model.Network, baseline map[string]Dates) Report {
	var rep Report
	for _, a := range net.Activities {
		want, ok := baseline[a.ID]
		if !ok || !a.Schedulable() {
			continue
		}
		cal := net.Calendar(a)
		rep.Compared++
		checks := []struct {
			field    Field
			want     time.Time
			got      time.Time
			backward bool
		}{
			{EarlyStart, want.EarlyStart, a.EarlyStart, false},
			{EarlyFinish, want.EarlyFinish, a.EarlyFinish, false},
			{LateStart, want.LateStart, a.LateStart, true},
			{LateFinish, want.LateFinish, a.LateFinish, true},
		}
		for _, c := range checks {
			if c.want.IsZero() || Equivalent(cal, c.want, c.got) {
				continue
			}
			if c.backward {
				rep.BackwardErrors++
			} else {
				rep.ForwardErrors++
			}
			rep.Mismatches = append(rep.Mismatches, Mismatch{
				ActivityID: a.ID,
				Field:      c.field,
				Expected:   c.want,
				Actual:     c.got,
			})
		}
	}
	return rep
}

// Equivalent treats a period end and the start of the next working period
// as the same instant.
func Equivalent(cal model.Calendar, a, b time.Time) bool {
	if a.Equal(b) {
		return true
	}
	if cal == nil {
		return false
	}
	return cal.NextWorkingInstant(a).Equal(b) || cal.NextWorkingInstant(b).Equal(a)
}

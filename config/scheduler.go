package config

import (
	"github.com/kilianp07/cpm/core/cpm"
	"github.com/kilianp07/cpm/core/model"
)

// SchedulerConfig holds engine defaults. Command line flags take precedence.
type SchedulerConfig struct {
	// Style is "msproject" or "p6".
	Style string `json:"style"`
	// LagCalendar applies to networks whose file leaves the policy unset.
	LagCalendar string `json:"lag_calendar"`
}

// SetDefaults applies sane defaults.
func (c *SchedulerConfig) SetDefaults() {
	if c.Style == "" {
		c.Style = cpm.StyleMSProject.String()
	}
	if c.LagCalendar == "" {
		c.LagCalendar = model.LagPredecessorCalendar.String()
	}
}

// Validate checks that both names parse.
func (c SchedulerConfig) Validate() error {
	if _, err := cpm.ParseStyle(c.Style); err != nil {
		return err
	}
	_, err := model.ParseLagCalendar(c.LagCalendar)
	return err
}

// EngineStyle returns the parsed Style.
func (c SchedulerConfig) EngineStyle() (cpm.Style, error) { return cpm.ParseStyle(c.Style) }

// LagPolicy returns the parsed lag calendar policy.
func (c SchedulerConfig) LagPolicy() (model.LagCalendar, error) {
	return model.ParseLagCalendar(c.LagCalendar)
}

package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/cpm/core/compare"
	"github.com/kilianp07/cpm/core/model"
)

// File is the on-disk layout of a project network.
type File struct {
	Project    Project    `yaml:"project" json:"project" toml:"project"`
	Calendars  []Calendar `yaml:"calendars" json:"calendars" toml:"calendars"`
	Activities []Activity `yaml:"activities" json:"activities" toml:"activities"`
	Relations  []Relation `yaml:"relations" json:"relations" toml:"relations"`
}

// Project holds the network wide properties.
type Project struct {
	Start           string `yaml:"start" json:"start" toml:"start"`
	MustFinishBy    string `yaml:"must_finish_by" json:"must_finish_by" toml:"must_finish_by"`
	StatusDate      string `yaml:"status_date" json:"status_date" toml:"status_date"`
	LagCalendar     string `yaml:"lag_calendar" json:"lag_calendar" toml:"lag_calendar"`
	DefaultCalendar string `yaml:"default_calendar" json:"default_calendar" toml:"default_calendar"`
}

// Calendar describes a weekly working pattern.
type Calendar struct {
	Name string `yaml:"name" json:"name" toml:"name"`
	// Week maps weekday names to ranges such as "08:00-12:00".
	Week           map[string][]string `yaml:"week" json:"week" toml:"week"`
	Exceptions     []Exception         `yaml:"exceptions" json:"exceptions" toml:"exceptions"`
	MinutesPerDay  float64             `yaml:"minutes_per_day" json:"minutes_per_day" toml:"minutes_per_day"`
	MinutesPerWeek float64             `yaml:"minutes_per_week" json:"minutes_per_week" toml:"minutes_per_week"`
	DaysPerMonth   float64             `yaml:"days_per_month" json:"days_per_month" toml:"days_per_month"`
}

// Exception overrides one date. No ranges makes it a non-working day.
type Exception struct {
	Date   string   `yaml:"date" json:"date" toml:"date"`
	Ranges []string `yaml:"ranges" json:"ranges" toml:"ranges"`
}

// Activity is one activity entry.
type Activity struct {
	ID             string    `yaml:"id" json:"id" toml:"id"`
	Name           string    `yaml:"name" json:"name" toml:"name"`
	Duration       string    `yaml:"duration" json:"duration" toml:"duration"`
	Remaining      string    `yaml:"remaining" json:"remaining" toml:"remaining"`
	Calendar       string    `yaml:"calendar" json:"calendar" toml:"calendar"`
	Constraint     string    `yaml:"constraint" json:"constraint" toml:"constraint"`
	ConstraintDate string    `yaml:"constraint_date" json:"constraint_date" toml:"constraint_date"`
	Deadline       string    `yaml:"deadline" json:"deadline" toml:"deadline"`
	ActualStart    string    `yaml:"actual_start" json:"actual_start" toml:"actual_start"`
	ActualFinish   string    `yaml:"actual_finish" json:"actual_finish" toml:"actual_finish"`
	Start          string    `yaml:"start" json:"start" toml:"start"`
	Finish         string    `yaml:"finish" json:"finish" toml:"finish"`
	LevelingDelay  string    `yaml:"leveling_delay" json:"leveling_delay" toml:"leveling_delay"`
	Type           string    `yaml:"type" json:"type" toml:"type"`
	Mode           string    `yaml:"mode" json:"mode" toml:"mode"`
	Status         string    `yaml:"status" json:"status" toml:"status"`
	Summary        bool      `yaml:"summary" json:"summary" toml:"summary"`
	Inactive       bool      `yaml:"inactive" json:"inactive" toml:"inactive"`
	Null           bool      `yaml:"null" json:"null" toml:"null"`
	Milestone      bool      `yaml:"milestone" json:"milestone" toml:"milestone"`
	Baseline       *Baseline `yaml:"baseline" json:"baseline" toml:"baseline"`
}

// Baseline holds the dates the originating tool computed for an activity.
type Baseline struct {
	EarlyStart  string `yaml:"early_start" json:"early_start" toml:"early_start"`
	EarlyFinish string `yaml:"early_finish" json:"early_finish" toml:"early_finish"`
	LateStart   string `yaml:"late_start" json:"late_start" toml:"late_start"`
	LateFinish  string `yaml:"late_finish" json:"late_finish" toml:"late_finish"`
}

// Relation links two activities by ID.
type Relation struct {
	ID          string `yaml:"id" json:"id" toml:"id"`
	Predecessor string `yaml:"predecessor" json:"predecessor" toml:"predecessor"`
	Successor   string `yaml:"successor" json:"successor" toml:"successor"`
	Type        string `yaml:"type" json:"type" toml:"type"`
	Lag         string `yaml:"lag" json:"lag" toml:"lag"`
}

// Loaded is a decoded network together with its reference dates.
type Loaded struct {
	Network  *model.Network
	Baseline map[string]compare.Dates
	// LagCalendarSet reports whether the file chose a lag calendar policy.
	LagCalendarSet bool
}

// Load reads a network file, choosing the decoder from its extension.
func Load(path string) (Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return Loaded{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	l, err := Decode(f, ext)
	if err != nil {
		return Loaded{}, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Decode reads a network in the given format: yaml, json or toml.
func Decode(r io.Reader, format string) (Loaded, error) {
	var file File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
			return Loaded{}, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return Loaded{}, err
		}
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
			return Loaded{}, err
		}
	default:
		return Loaded{}, fmt.Errorf("unsupported format: %s", format)
	}
	return file.Build()
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Row is the computed schedule of one activity.
type Row struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	EarlyStart  time.Time `json:"early_start" yaml:"early_start"`
	EarlyFinish time.Time `json:"early_finish" yaml:"early_finish"`
	LateStart   time.Time `json:"late_start" yaml:"late_start"`
	LateFinish  time.Time `json:"late_finish" yaml:"late_finish"`
	TotalSlack  string    `json:"total_slack" yaml:"total_slack"`
	FreeSlack   string    `json:"free_slack" yaml:"free_slack"`
	Critical    bool      `json:"critical" yaml:"critical"`
}

// Report is a scheduled network ready to be written out.
type Report struct {
	RunID         string    `json:"run_id" yaml:"run_id"`
	Style         string    `json:"style" yaml:"style"`
	ProjectStart  time.Time `json:"project_start" yaml:"project_start"`
	ProjectFinish time.Time `json:"project_finish" yaml:"project_finish"`
	Activities    []Row     `json:"activities" yaml:"activities"`
}

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteYAML writes the report to w as YAML.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes one line per activity with a header row.
func WriteCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "name", "early_start", "early_finish", "late_start", "late_finish", "total_slack", "free_slack", "critical"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rep.Activities {
		rec := []string{
			r.ID,
			r.Name,
			r.EarlyStart.Format(time.RFC3339),
			r.EarlyFinish.Format(time.RFC3339),
			r.LateStart.Format(time.RFC3339),
			r.LateFinish.Format(time.RFC3339),
			r.TotalSlack,
			r.FreeSlack,
			strconv.FormatBool(r.Critical),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cpm/core/slack"
	"github.com/kilianp07/cpm/pkg/export"
)

func newScheduleCmd(a *app) *cobra.Command {
	var opts scheduleOptions
	var output string
	cmd := &cobra.Command{
		Use:   "schedule <file>",
		Short: "Compute early and late dates for a network file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadAndSchedule(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			rep, err := buildReport(s)
			if err != nil {
				return err
			}
			if output == "table" {
				return printSchedule(cmd, rep)
			}
			return encode(cmd.OutOrStdout(), output, rep)
		},
	}
	addScheduleFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json, yaml or csv")
	return cmd
}

func addScheduleFlags(cmd *cobra.Command, opts *scheduleOptions) {
	cmd.Flags().StringVar(&opts.style, "style", "", "msproject or p6 (defaults to scheduler.style)")
	cmd.Flags().StringVar(&opts.start, "start", "", "project start, 2006-01-02[T15:04] (defaults to the file)")
}

func buildReport(s *scheduled) (export.Report, error) {
	slacks, err := slack.ForNetwork(s.Network)
	if err != nil {
		return export.Report{}, err
	}
	rep := export.Report{
		RunID:         s.result.RunID,
		Style:         s.style.String(),
		ProjectStart:  s.result.ProjectStart,
		ProjectFinish: s.result.ProjectFinish,
	}
	for _, act := range s.result.Order {
		sl := slacks[act.ID]
		rep.Activities = append(rep.Activities, export.Row{
			ID:          act.ID,
			Name:        act.Name,
			EarlyStart:  act.EarlyStart,
			EarlyFinish: act.EarlyFinish,
			LateStart:   act.LateStart,
			LateFinish:  act.LateFinish,
			TotalSlack:  sl.Total.String(),
			FreeSlack:   sl.Free.String(),
			Critical:    sl.Critical,
		})
	}
	return rep, nil
}

func printSchedule(cmd *cobra.Command, rep export.Report) error {
	rows := make([][]string, 0, len(rep.Activities))
	for _, r := range rep.Activities {
		rows = append(rows, []string{
			r.ID, r.Name,
			r.EarlyStart.Format(timeLayout), r.EarlyFinish.Format(timeLayout),
			r.LateStart.Format(timeLayout), r.LateFinish.Format(timeLayout),
			r.TotalSlack, strconv.FormatBool(r.Critical),
		})
	}
	w := cmd.OutOrStdout()
	if err := renderTable(w, []string{"ID", "Name", "Early start", "Early finish", "Late start", "Late finish", "Total slack", "Critical"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: %s -> %s (run %s)\n", rep.Style,
		rep.ProjectStart.Format(timeLayout), rep.ProjectFinish.Format(timeLayout), rep.RunID)
	return err
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cpm/core/compare"
)

// ErrBaselineMismatch is returned when computed dates differ from the file's baseline.
var ErrBaselineMismatch = errors.New("dates differ from baseline")

func newCompareCmd(a *app) *cobra.Command {
	var opts scheduleOptions
	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Schedule a network and check the result against its baseline dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadAndSchedule(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			rep := compare.Compare(s.Network, s.Baseline)
			w := cmd.OutOrStdout()
			if len(rep.Mismatches) > 0 {
				rows := make([][]string, 0, len(rep.Mismatches))
				for _, m := range rep.Mismatches {
					rows = append(rows, []string{m.ActivityID, string(m.Field), m.Expected.Format(timeLayout), m.Actual.Format(timeLayout)})
				}
				if err := renderTable(w, []string{"ID", "Field", "Expected", "Actual"}, rows); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "%s: %d compared, %d forward errors, %d backward errors\n",
				s.style, rep.Compared, rep.ForwardErrors, rep.BackwardErrors); err != nil {
				return err
			}
			if !rep.OK() {
				return ErrBaselineMismatch
			}
			return nil
		},
	}
	addScheduleFlags(cmd, &opts)
	return cmd
}

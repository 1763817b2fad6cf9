package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cpm/core/cpm"
	"github.com/kilianp07/cpm/infra/network"
)

func newPathsCmd(a *app) *cobra.Command {
	var from string
	var backwards bool
	cmd := &cobra.Command{
		Use:   "paths <file>",
		Short: "List the activity chains of a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := network.Load(args[0])
			if err != nil {
				return err
			}
			dir := cpm.Successors
			if backwards {
				dir = cpm.Predecessors
			}
			var chains []cpm.Chain
			if from == "" {
				chains = cpm.EnumerateAllPaths(loaded.Network, dir)
			} else {
				start, ok := loaded.Network.Activity(from)
				if !ok {
					return fmt.Errorf("unknown activity %q", from)
				}
				chains = cpm.EnumeratePaths(loaded.Network, start, dir)
			}
			a.log.Debugw("paths enumerated", map[string]any{"chains": len(chains), "from": from})
			for _, c := range chains {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), c.String()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start from this activity ID instead of every root")
	cmd.Flags().BoolVar(&backwards, "predecessors", false, "walk predecessors instead of successors")
	return cmd
}

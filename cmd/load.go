package cmd

import (
	"context"
	"fmt"

	"github.com/kilianp07/cpm/core/cpm"
	"github.com/kilianp07/cpm/infra/network"
)

// scheduleOptions are the flags shared by the scheduling subcommands.
type scheduleOptions struct {
	style string
	start string
}

// scheduled is a network after a successful run.
type scheduled struct {
	network.Loaded
	style  cpm.Style
	result cpm.Result
}

// loadAndSchedule reads path and schedules it with the configured defaults,
// letting flags override them.
func (a *app) loadAndSchedule(ctx context.Context, path string, opts scheduleOptions) (*scheduled, error) {
	defer a.release(ctx)

	name := opts.style
	if name == "" {
		name = a.cfg.Scheduler.Style
	}
	style, err := cpm.ParseStyle(name)
	if err != nil {
		return nil, err
	}
	start, err := network.ParseTime(opts.start)
	if err != nil {
		return nil, fmt.Errorf("--start: %w", err)
	}

	loaded, err := network.Load(path)
	if err != nil {
		return nil, err
	}
	if !loaded.LagCalendarSet {
		policy, err := a.cfg.Scheduler.LagPolicy()
		if err != nil {
			return nil, err
		}
		loaded.Network.Properties.LagCalendar = policy
	}

	s := cpm.New(style, cpm.WithLogger(a.log), cpm.WithMetrics(a.sink))
	res, err := s.Schedule(ctx, loaded.Network, start)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return &scheduled{Loaded: loaded, style: style, result: res}, nil
}

package cpm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCycle                    = errors.New("cyclic network")
	ErrMissingDate              = errors.New("missing date")
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	ErrInvalidNetwork           = errors.New("invalid network")
)

// CycleError reports a dependency loop among schedulable activities.
// Path is the loop found by the sort, first and last IDs equal.
// Components lists every strongly connected group of more than one activity
// (or a self-loop), each sorted by network order.
type CycleError struct {
	Path       []string
	Components [][]string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// MissingDateError means a relation produced no candidate date. It indicates
// a malformed network or a bug, never a user scheduling problem.
type MissingDateError struct {
	Activity string
	What     string
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("%s: %s for activity %s", ErrMissingDate, e.What, e.Activity)
}

func (e *MissingDateError) Unwrap() error { return ErrMissingDate }

type UnsupportedConfigurationError struct {
	Setting string
	Value   string
}

func (e *UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s=%s", ErrUnsupportedConfiguration, e.Setting, e.Value)
}

func (e *UnsupportedConfigurationError) Unwrap() error { return ErrUnsupportedConfiguration }

// ValidationError rejects input the engine cannot schedule.
type ValidationError struct {
	Activity string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Activity == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidNetwork, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: activity %s: %s: %s", ErrInvalidNetwork, e.Activity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidNetwork }

func invalid(activity, field, format string, args ...any) error {
	return &ValidationError{Activity: activity, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Outcome labels err for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCycle):
		return "cycle"
	case errors.Is(err, ErrMissingDate):
		return "missing_date"
	case errors.Is(err, ErrUnsupportedConfiguration):
		return "unsupported_configuration"
	case errors.Is(err, ErrInvalidNetwork):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

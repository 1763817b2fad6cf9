// Package cpm computes Critical Path Method dates for a model.Network.
//
// Sort orders the schedulable activities, Scheduler runs the forward pass,
// derives the project finish and runs the backward pass, following either
// Microsoft Project or Primavera P6 rules depending on its Style. Dates are
// computed into per-run scratch state and only written to the activities
// when every pass succeeds. EnumeratePaths and EnumerateAllPaths list the
// dependency chains of a network for reporting.
package cpm

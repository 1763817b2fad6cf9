package cpm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/cpm/core/calendar"
	"github.com/kilianp07/cpm/core/model"
)

func chainIDs(chains []Chain) [][]string {
	out := make([][]string, len(chains))
	for i, c := range chains {
		out[i] = c.IDs()
	}
	return out
}

func TestEnumeratePathsDiamond(t *testing.T) {
	a, b, c, d := activity("A", days(1)), activity("B", days(1)), activity("C", days(1)), activity("D", days(1))
	net := network(t, calendar.Standard(), []*model.Activity{a, b, c, d}, fs(a, b), fs(a, c), fs(b, d), fs(c, d))

	got := EnumeratePaths(net, a, Successors)
	assert.Equal(t, [][]string{{"A", "B", "D"}, {"A", "C", "D"}}, chainIDs(got))
	assert.Equal(t, "A -> B -> D", got[0].String())

	back := EnumeratePaths(net, d, Predecessors)
	assert.Equal(t, [][]string{{"D", "B", "A"}, {"D", "C", "A"}}, chainIDs(back))
}

func TestEnumeratePathsSkipsExcludedAndDuplicates(t *testing.T) {
	a, b, s := activity("A", days(1)), activity("B", days(1)), activity("S", days(1))
	s.Summary = true
	net := network(t, calendar.Standard(), []*model.Activity{a, b, s},
		fs(a, b), rel(a, b, model.StartStart, model.Duration{}), fs(a, s))
	assert.Equal(t, [][]string{{"A", "B"}}, chainIDs(EnumeratePaths(net, a, Successors)))
}

func TestEnumeratePathsStopsOnLoop(t *testing.T) {
	a, b, c := activity("A", days(1)), activity("B", days(1)), activity("C", days(1))
	net := network(t, calendar.Standard(), []*model.Activity{a, b, c}, fs(a, b), fs(b, c), fs(c, a))
	assert.Equal(t, [][]string{{"A", "B", "C"}}, chainIDs(EnumeratePaths(net, a, Successors)))
}

func TestEnumerateAllPaths(t *testing.T) {
	a, b, c := activity("A", days(1)), activity("B", days(1)), activity("C", days(1))
	x, y := activity("X", days(1)), activity("Y", days(1))
	net := network(t, calendar.Standard(), []*model.Activity{b, a, c, x, y},
		fs(a, b), fs(a, c), fs(x, y), fs(y, x))

	got := EnumerateAllPaths(net, Successors)
	assert.Equal(t, [][]string{{"A", "B"}, {"A", "C"}, {"X", "Y"}}, chainIDs(got))

	got = EnumerateAllPaths(net, Predecessors)
	assert.Equal(t, [][]string{{"B", "A"}, {"C", "A"}, {"X", "Y"}}, chainIDs(got))
}

package cpm

import (
	"strings"

	"github.com/kilianp07/cpm/core/model"
)

// Direction selects which edges the path enumerator follows.
type Direction int

const (
	Successors Direction = iota
	Predecessors
)

// Chain is an ordered run of activities linked by relations.
type Chain []*model.Activity

// IDs returns the activity IDs of the chain.
func (c Chain) IDs() []string {
	ids := make([]string, len(c))
	for i, a := range c {
		ids[i] = a.ID
	}
	return ids
}

func (c Chain) String() string { return strings.Join(c.IDs(), " -> ") }

func (c Chain) contains(a *model.Activity) bool {
	for _, x := range c {
		if x == a {
			return true
		}
	}
	return false
}

// neighbours returns the distinct schedulable activities adjacent to a in
// relation order.
func neighbours(net *model.Network, a *model.Activity, dir Direction) []*model.Activity {
	rels := net.Successors(a)
	if dir == Predecessors {
		rels = net.Predecessors(a)
	}
	var out []*model.Activity
	seen := make(map[*model.Activity]bool, len(rels))
	for _, rel := range rels {
		n := rel.Successor
		if dir == Predecessors {
			n = rel.Predecessor
		}
		if !n.Schedulable() || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// EnumeratePaths returns every maximal chain starting at start. An activity
// reachable through several branches appears in each of their chains.
// A chain never revisits an activity it already contains.
func EnumeratePaths(net *model.Network, start *model.Activity, dir Direction) []Chain {
	var out []Chain
	stack := []Chain{{start}}
	for len(stack) > 0 {
		chain := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for {
			var next []*model.Activity
			for _, n := range neighbours(net, chain[len(chain)-1], dir) {
				if !chain.contains(n) {
					next = append(next, n)
				}
			}
			if len(next) == 0 {
				out = append(out, chain)
				break
			}
			if len(next) == 1 {
				chain = append(chain, next[0])
				continue
			}
			// Push in reverse so branches come out in relation order.
			for i := len(next) - 1; i >= 0; i-- {
				branch := make(Chain, len(chain), len(chain)+1)
				copy(branch, chain)
				stack = append(stack, append(branch, next[i]))
			}
			break
		}
	}
	return out
}

// EnumerateAllPaths walks the whole network. Chains start at activities with
// no schedulable neighbour against dir, taken in input order; activities left
// unreached (loops) are then used as heads in input order.
func EnumerateAllPaths(net *model.Network, dir Direction) []Chain {
	against := Predecessors
	if dir == Predecessors {
		against = Successors
	}
	processed := make(map[*model.Activity]bool)
	var out []Chain
	emit := func(head *model.Activity) {
		processed[head] = true
		for _, c := range EnumeratePaths(net, head, dir) {
			for _, a := range c {
				processed[a] = true
			}
			out = append(out, c)
		}
	}
	for _, a := range net.Activities {
		if a.Schedulable() && !processed[a] && len(neighbours(net, a, against)) == 0 {
			emit(a)
		}
	}
	for _, a := range net.Activities {
		if a.Schedulable() && !processed[a] {
			emit(a)
		}
	}
	return out
}

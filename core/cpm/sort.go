package cpm

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/kilianp07/cpm/core/model"
)

const (
	unvisited = iota
	inProgress
	done
)

type sortFrame struct {
	activity *model.Activity
	preds    []*model.Relation
	next     int
}

// Sort returns the schedulable activities of net with every schedulable
// predecessor ahead of its successors. Roots are taken in input order so the
// result is stable for a given network.
func Sort(net *model.Network) ([]*model.Activity, error) {
	state := make(map[*model.Activity]int, len(net.Activities))
	order := make([]*model.Activity, 0, len(net.Activities))
	for _, root := range net.Activities {
		if !root.Schedulable() || state[root] != unvisited {
			continue
		}
		state[root] = inProgress
		stack := []*sortFrame{{activity: root, preds: net.Predecessors(root)}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next < len(top.preds) {
				p := top.preds[top.next].Predecessor
				top.next++
				if !p.Schedulable() {
					continue
				}
				switch state[p] {
				case inProgress:
					return nil, newCycleError(net, loopPath(stack, p))
				case unvisited:
					state[p] = inProgress
					stack = append(stack, &sortFrame{activity: p, preds: net.Predecessors(p)})
				}
				continue
			}
			state[top.activity] = done
			order = append(order, top.activity)
			stack = stack[:len(stack)-1]
		}
	}
	return order, nil
}

// loopPath walks the stack from the first occurrence of p and returns the
// loop in successor direction.
func loopPath(stack []*sortFrame, p *model.Activity) []string {
	i := len(stack) - 1
	for i > 0 && stack[i].activity != p {
		i--
	}
	path := make([]string, 0, len(stack)-i+1)
	path = append(path, p.ID)
	for j := len(stack) - 1; j >= i; j-- {
		path = append(path, stack[j].activity.ID)
	}
	return path
}

func newCycleError(net *model.Network, path []string) *CycleError {
	return &CycleError{Path: path, Components: cyclicComponents(net)}
}

// cyclicComponents finds every loop in the schedulable subgraph using
// Tarjan's algorithm.
func cyclicComponents(net *model.Network) [][]string {
	index := make(map[*model.Activity]int64, len(net.Activities))
	g := simple.NewDirectedGraph()
	for i, a := range net.Activities {
		if a.Schedulable() {
			index[a] = int64(i)
			g.AddNode(simple.Node(i))
		}
	}
	selfLoop := make(map[int64]bool)
	for _, r := range net.Relations {
		from, okFrom := index[r.Predecessor]
		to, okTo := index[r.Successor]
		if !okFrom || !okTo {
			continue
		}
		if from == to {
			selfLoop[from] = true
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	var groups [][]int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) == 1 && !selfLoop[scc[0].ID()] {
			continue
		}
		ids := make([]int64, len(scc))
		for i, n := range scc {
			ids[i] = n.ID()
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		groups = append(groups, ids)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	out := make([][]string, len(groups))
	for i, ids := range groups {
		out[i] = make([]string, len(ids))
		for j, id := range ids {
			out[i][j] = net.Activities[id].ID
		}
	}
	return out
}

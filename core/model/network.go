package model

import (
	"fmt"
	"time"
)

// Relation is a dependency from Predecessor to Successor.
type Relation struct {
	ID          string
	Predecessor *Activity
	Successor   *Activity
	Type        RelationType
	Lag         Duration
}

// ProjectProperties carries project level scheduling settings.
type ProjectProperties struct {
	StartDate    time.Time
	MustFinishBy time.Time
	// StatusDate is the data date used to anchor progressed activities.
	StatusDate      time.Time
	LagCalendar     LagCalendar
	DefaultCalendar Calendar
}

// Network is an immutable set of activities and relations with lookup indexes.
// Only the computed dates of its activities change after construction.
type Network struct {
	Properties ProjectProperties
	Activities []*Activity
	Relations  []*Relation

	byID  map[string]*Activity
	preds map[*Activity][]*Relation
	succs map[*Activity][]*Relation
}

// NewNetwork indexes activities and relations. Relation order is preserved
// in the predecessor and successor lists.
func NewNetwork(props ProjectProperties, activities []*Activity, relations []*Relation) (*Network, error) {
	n := &Network{
		Properties: props,
		Activities: activities,
		Relations:  relations,
		byID:       make(map[string]*Activity, len(activities)),
		preds:      make(map[*Activity][]*Relation),
		succs:      make(map[*Activity][]*Relation),
	}
	known := make(map[*Activity]bool, len(activities))
	for _, a := range activities {
		if a == nil {
			return nil, fmt.Errorf("nil activity")
		}
		if a.ID == "" {
			return nil, fmt.Errorf("activity without id")
		}
		if _, dup := n.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate activity id %s", a.ID)
		}
		n.byID[a.ID] = a
		known[a] = true
	}
	for i, r := range relations {
		if r == nil || r.Predecessor == nil || r.Successor == nil {
			return nil, fmt.Errorf("relation %d: missing endpoint", i)
		}
		if !known[r.Predecessor] || !known[r.Successor] {
			return nil, fmt.Errorf("relation %d (%s -> %s): endpoint not in network", i, r.Predecessor.ID, r.Successor.ID)
		}
		n.preds[r.Successor] = append(n.preds[r.Successor], r)
		n.succs[r.Predecessor] = append(n.succs[r.Predecessor], r)
	}
	return n, nil
}

// Activity looks up an activity by ID.
func (n *Network) Activity(id string) (*Activity, bool) {
	a, ok := n.byID[id]
	return a, ok
}

// Predecessors returns the relations ending at a.
func (n *Network) Predecessors(a *Activity) []*Relation { return n.preds[a] }

// Successors returns the relations starting at a.
func (n *Network) Successors(a *Activity) []*Relation { return n.succs[a] }

// Calendar returns the activity calendar or the project default.
func (n *Network) Calendar(a *Activity) Calendar {
	if a.Calendar != nil {
		return a.Calendar
	}
	return n.Properties.DefaultCalendar
}

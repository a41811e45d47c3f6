package domain

import "time"

// Node is a single manufacturing step placed into a production plan.
// Edges are not stored on the node: the graph store owns the one edge
// list, and successor/predecessor views are derived from it. Snapshots
// encode edges as per-node connection ids at serialization time only.
type Node struct {
	ID          string
	OperationID string
	Name        string
	Type        string
	DurationMin int // estimated minutes per unit
	Skills      []string
	Materials   []MaterialEntry
	SemiCode    string // issued output identifier, empty until committed
	OutputQty   *float64
	OutputUnit  string

	AssignedWorker     string
	AssignedStations   []StationSlot
	AssignmentMode     AssignmentMode
	AssignmentWarnings []string
	RequiresAttention  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StationSlot binds a candidate station to a node with a priority.
// Priority 1 is the primary station and drives both skill requirements
// and code-prefix derivation.
type StationSlot struct {
	StationID string
	Priority  int
}

// PrimaryStation returns the station id with priority 1, or the first
// slot when no slot carries priority 1. Empty when no station is bound.
func (n *Node) PrimaryStation() string {
	if len(n.AssignedStations) == 0 {
		return ""
	}
	for _, s := range n.AssignedStations {
		if s.Priority == 1 {
			return s.StationID
		}
	}
	return n.AssignedStations[0].StationID
}

// MaterialEntry is one raw-material input row of a node. DerivedFrom is
// set when the row was auto-created because an upstream node's output
// feeds this node; such rows are owned by propagation and removed when
// the upstream edge or node goes away.
type MaterialEntry struct {
	MaterialID  string
	Name        string
	Quantity    *float64 // nil while the planner has not fixed a quantity
	Unit        string
	DerivedFrom string // upstream node id, empty for planner-entered rows
}

// Derived reports whether the row was created by material propagation.
func (m MaterialEntry) Derived() bool {
	return m.DerivedFrom != ""
}

// Edge is a directed pair of node ids. It simultaneously encodes a
// scheduling dependency (To cannot run before From) and a material-flow
// default (From's output becomes a candidate input of To).
type Edge struct {
	FromID string
	ToID   string
}

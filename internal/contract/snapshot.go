// Package contract holds the serializable shapes this core exposes to
// its external collaborators: the plan snapshot stored by persistence
// and consumed by downstream schedulers.
package contract

import (
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

// PlanSnapshot is the full node list of a plan with edges encoded as
// each node's outgoing connection ids.
type PlanSnapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
}

// NodeSnapshot serializes one plan node.
type NodeSnapshot struct {
	ID          string             `json:"id"`
	OperationID string             `json:"operationId"`
	Name        string             `json:"name"`
	Type        string             `json:"type,omitempty"`
	DurationMin int                `json:"durationMin,omitempty"`
	Skills      []string           `json:"skills,omitempty"`
	Materials   []MaterialSnapshot `json:"materials,omitempty"`
	SemiCode    string             `json:"semiCode,omitempty"`
	OutputQty   *float64           `json:"outputQty,omitempty"`
	OutputUnit  string             `json:"outputUnit,omitempty"`
	Next        []string           `json:"next,omitempty"`

	AssignedWorker     string                `json:"assignedWorker,omitempty"`
	AssignedStations   []StationSlotSnapshot `json:"assignedStations,omitempty"`
	AssignmentMode     string                `json:"assignmentMode,omitempty"`
	AssignmentWarnings []string              `json:"assignmentWarnings,omitempty"`
	RequiresAttention  bool                  `json:"requiresAttention,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MaterialSnapshot serializes one material row.
type MaterialSnapshot struct {
	MaterialID  string   `json:"materialId"`
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	DerivedFrom string   `json:"derivedFrom,omitempty"`
}

// StationSlotSnapshot serializes one station binding.
type StationSlotSnapshot struct {
	StationID string `json:"stationId"`
	Priority  int    `json:"priority"`
}

// EncodeSnapshot converts nodes and edges into the snapshot form.
func EncodeSnapshot(nodes []*domain.Node, edges []domain.Edge) PlanSnapshot {
	next := make(map[string][]string)
	for _, e := range edges {
		next[e.FromID] = append(next[e.FromID], e.ToID)
	}

	snap := PlanSnapshot{Nodes: make([]NodeSnapshot, 0, len(nodes))}
	for _, n := range nodes {
		ns := NodeSnapshot{
			ID:                 n.ID,
			OperationID:        n.OperationID,
			Name:               n.Name,
			Type:               n.Type,
			DurationMin:        n.DurationMin,
			Skills:             n.Skills,
			SemiCode:           n.SemiCode,
			OutputQty:          n.OutputQty,
			OutputUnit:         n.OutputUnit,
			Next:               next[n.ID],
			AssignedWorker:     n.AssignedWorker,
			AssignmentMode:     string(n.AssignmentMode),
			AssignmentWarnings: n.AssignmentWarnings,
			RequiresAttention:  n.RequiresAttention,
			CreatedAt:          n.CreatedAt,
			UpdatedAt:          n.UpdatedAt,
		}
		for _, m := range n.Materials {
			ns.Materials = append(ns.Materials, MaterialSnapshot(m))
		}
		for _, s := range n.AssignedStations {
			ns.AssignedStations = append(ns.AssignedStations, StationSlotSnapshot(s))
		}
		snap.Nodes = append(snap.Nodes, ns)
	}
	return snap
}

// DecodeSnapshot converts a snapshot back into nodes and edges.
func DecodeSnapshot(snap PlanSnapshot) ([]*domain.Node, []domain.Edge) {
	nodes := make([]*domain.Node, 0, len(snap.Nodes))
	var edges []domain.Edge
	for _, ns := range snap.Nodes {
		n := &domain.Node{
			ID:                 ns.ID,
			OperationID:        ns.OperationID,
			Name:               ns.Name,
			Type:               ns.Type,
			DurationMin:        ns.DurationMin,
			Skills:             ns.Skills,
			SemiCode:           ns.SemiCode,
			OutputQty:          ns.OutputQty,
			OutputUnit:         ns.OutputUnit,
			AssignedWorker:     ns.AssignedWorker,
			AssignmentMode:     domain.AssignmentMode(ns.AssignmentMode),
			AssignmentWarnings: ns.AssignmentWarnings,
			RequiresAttention:  ns.RequiresAttention,
			CreatedAt:          ns.CreatedAt,
			UpdatedAt:          ns.UpdatedAt,
		}
		for _, m := range ns.Materials {
			n.Materials = append(n.Materials, domain.MaterialEntry(m))
		}
		for _, s := range ns.AssignedStations {
			n.AssignedStations = append(n.AssignedStations, domain.StationSlot(s))
		}
		nodes = append(nodes, n)
		for _, toID := range ns.Next {
			edges = append(edges, domain.Edge{FromID: ns.ID, ToID: toID})
		}
	}
	return nodes, edges
}

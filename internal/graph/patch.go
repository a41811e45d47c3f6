package graph

import (
	"fmt"

	"github.com/mbeckers/fabplan/internal/domain"
)

// NodePatch carries the fields of a node a planner edit may change.
// Nil fields are left untouched.
type NodePatch struct {
	Name        *string
	DurationMin *int
	Skills      *[]string
	Materials   *[]domain.MaterialEntry // planner-entered rows only
	SemiCode    *string
	OutputQty   **float64
	OutputUnit  *string

	AssignedWorker     *string
	AssignedStations   *[]domain.StationSlot
	AssignmentMode     *domain.AssignmentMode
	AssignmentWarnings *[]string
	RequiresAttention  *bool
}

// apply writes the patch onto n. Replacing the material list keeps the
// node's existing derived rows: the incoming list may only carry
// planner-entered rows, so propagation stays the sole owner of derived
// ones.
func (p NodePatch) apply(n *domain.Node) error {
	if p.Name != nil {
		n.Name = *p.Name
	}
	if p.DurationMin != nil {
		if *p.DurationMin < 0 {
			return fmt.Errorf("duration must not be negative")
		}
		n.DurationMin = *p.DurationMin
	}
	if p.Skills != nil {
		n.Skills = append([]string(nil), (*p.Skills)...)
	}
	if p.Materials != nil {
		for _, m := range *p.Materials {
			if m.Derived() {
				return fmt.Errorf("derived material row %s cannot be set directly", m.MaterialID)
			}
		}
		var derived []domain.MaterialEntry
		for _, m := range n.Materials {
			if m.Derived() {
				derived = append(derived, m)
			}
		}
		n.Materials = append(derived, (*p.Materials)...)
	}
	if p.SemiCode != nil {
		n.SemiCode = *p.SemiCode
	}
	if p.OutputQty != nil {
		n.OutputQty = *p.OutputQty
	}
	if p.OutputUnit != nil {
		n.OutputUnit = *p.OutputUnit
	}
	if p.AssignedWorker != nil {
		n.AssignedWorker = *p.AssignedWorker
	}
	if p.AssignedStations != nil {
		n.AssignedStations = append([]domain.StationSlot(nil), (*p.AssignedStations)...)
	}
	if p.AssignmentMode != nil {
		n.AssignmentMode = *p.AssignmentMode
	}
	if p.AssignmentWarnings != nil {
		n.AssignmentWarnings = append([]string(nil), (*p.AssignmentWarnings)...)
	}
	if p.RequiresAttention != nil {
		n.RequiresAttention = *p.RequiresAttention
	}
	return nil
}

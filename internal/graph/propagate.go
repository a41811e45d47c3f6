package graph

import (
	"fmt"

	"github.com/mbeckers/fabplan/internal/domain"
)

// deriveInput appends a material row on to mirroring from's declared
// output, unless to already carries a row derived from that node. The
// upstream semi-finished code doubles as the material id; it may still
// be empty and is filled in by a later PropagateOutput.
func deriveInput(to, from *domain.Node) {
	for _, m := range to.Materials {
		if m.DerivedFrom == from.ID {
			return
		}
	}
	to.Materials = append(to.Materials, domain.MaterialEntry{
		MaterialID:  from.SemiCode,
		Name:        from.Name,
		Quantity:    copyQty(from.OutputQty),
		Unit:        from.OutputUnit,
		DerivedFrom: from.ID,
	})
}

// stripDerived removes every material row on n derived from the given
// upstream node id. Planner-entered rows are left alone.
func stripDerived(n *domain.Node, fromID string) {
	kept := n.Materials[:0]
	for _, m := range n.Materials {
		if m.DerivedFrom != fromID {
			kept = append(kept, m)
		}
	}
	n.Materials = kept
}

// PropagateOutput refreshes the derived material rows of every direct
// successor of fromID after the upstream node's output identity (code,
// quantity or unit) changed. Rows are updated in place, never
// duplicated, and rows a planner removed by disconnecting stay
// removed. The operation is idempotent.
func (s *Store) PropagateOutput(fromID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.nodes[fromID]
	if !ok {
		return fmt.Errorf("propagating output: node %s not in plan", fromID)
	}
	for _, succID := range s.successorsLocked(fromID) {
		succ := s.nodes[succID]
		for i := range succ.Materials {
			if succ.Materials[i].DerivedFrom != fromID {
				continue
			}
			succ.Materials[i].MaterialID = from.SemiCode
			succ.Materials[i].Name = from.Name
			succ.Materials[i].Quantity = copyQty(from.OutputQty)
			succ.Materials[i].Unit = from.OutputUnit
		}
	}
	return nil
}

func copyQty(q *float64) *float64 {
	if q == nil {
		return nil
	}
	v := *q
	return &v
}

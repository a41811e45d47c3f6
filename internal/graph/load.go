package graph

import (
	"fmt"

	"github.com/mbeckers/fabplan/internal/domain"
)

// Load rebuilds a store from a persisted snapshot. Nodes are installed
// verbatim and edges re-validated through the same acyclicity check as
// interactive connects, so a corrupted snapshot cannot smuggle a cycle
// into a session. Material rows are taken as stored: load never
// re-creates derived rows a planner removed by disconnecting.
func Load(nodes []*domain.Node, edges []domain.Edge) (*Store, error) {
	s := NewStore()
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("loading plan: node with empty id")
		}
		if _, ok := s.nodes[n.ID]; ok {
			return nil, fmt.Errorf("loading plan: duplicate node id %s", n.ID)
		}
		s.nodes[n.ID] = copyNode(n)
		s.order = append(s.order, n.ID)
	}
	for _, e := range edges {
		if e.FromID == e.ToID {
			return nil, fmt.Errorf("loading plan: self-referential edge on %s", e.FromID)
		}
		if _, ok := s.nodes[e.FromID]; !ok {
			return nil, fmt.Errorf("loading plan: edge from unknown node %s", e.FromID)
		}
		if _, ok := s.nodes[e.ToID]; !ok {
			return nil, fmt.Errorf("loading plan: edge to unknown node %s", e.ToID)
		}
		dup := false
		for _, have := range s.edges {
			if have == e {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if s.pathExists(e.ToID, e.FromID) {
			return nil, fmt.Errorf("loading plan: edge %s -> %s closes a cycle", e.FromID, e.ToID)
		}
		s.edges = append(s.edges, e)
	}
	return s, nil
}

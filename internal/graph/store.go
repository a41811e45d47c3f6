// Package graph holds the in-memory production plan graph for one
// editing session and keeps its invariants intact under interactive
// mutation: the edge set stays acyclic, every edge is mirrored by a
// derived material row on its successor, and cascading cleanup on
// disconnect or node removal never leaves dangling references.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

// Store owns the node collection and the edge list of one plan. The
// edge list is the single source of truth; successor and predecessor
// views are computed from it on demand. Mutations are single-writer:
// each public operation runs to completion under the store lock, so a
// caller never observes a graph where edges and material mirrors have
// diverged.
type Store struct {
	mu    sync.Mutex
	nodes map[string]*domain.Node
	order []string // node insertion order, for stable iteration
	edges []domain.Edge
	subs  []func(Event)
}

// NewStore returns an empty plan graph.
func NewStore() *Store {
	return &Store{nodes: make(map[string]*domain.Node)}
}

// Subscribe registers a listener for mutation events. Subscribers are
// called synchronously after the mutation completed and must not
// mutate the store.
func (s *Store) Subscribe(fn func(Event)) {
	s.subs = append(s.subs, fn)
}

func (s *Store) emit(ev Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}

// AddNode places an operation into the plan as a new node and returns
// a copy of it. The caller supplies the node id.
func (s *Store) AddNode(id string, op domain.Operation) (*domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return nil, fmt.Errorf("adding node: empty id")
	}
	if _, ok := s.nodes[id]; ok {
		return nil, fmt.Errorf("adding node: id %s already in plan", id)
	}

	now := time.Now().UTC()
	n := &domain.Node{
		ID:          id,
		OperationID: op.ID,
		Name:        op.Name,
		Type:        op.Type,
		Skills:      append([]string(nil), op.Skills...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nodes[id] = n
	s.order = append(s.order, id)
	s.emit(Event{Kind: NodeAdded, NodeID: id})
	return copyNode(n), nil
}

// RemoveNode deletes a node and cascades: every edge touching it goes
// away, and every remaining node loses the material rows derived from
// it. The cascade is one atomic step.
func (s *Store) RemoveNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return fmt.Errorf("removing node: %s not in plan", id)
	}

	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.FromID != id && e.ToID != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept

	delete(s.nodes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for _, n := range s.nodes {
		stripDerived(n, id)
	}
	s.emit(Event{Kind: NodeRemoved, NodeID: id})
	return nil
}

// Connect adds the directed edge (fromID, toID). It fails on self
// loops, unknown endpoints, duplicate edges, and edges that would
// close a cycle. On success the successor gains a material row derived
// from the upstream node's declared output, unless one already exists.
func (s *Store) Connect(fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromID == toID {
		return fmt.Errorf("connecting %s to itself is not allowed", fromID)
	}
	from, ok := s.nodes[fromID]
	if !ok {
		return fmt.Errorf("connecting: source node %s not in plan", fromID)
	}
	to, ok := s.nodes[toID]
	if !ok {
		return fmt.Errorf("connecting: target node %s not in plan", toID)
	}
	for _, e := range s.edges {
		if e.FromID == fromID && e.ToID == toID {
			return fmt.Errorf("connecting: edge %s -> %s already exists", fromID, toID)
		}
	}
	if s.pathExists(toID, fromID) {
		return fmt.Errorf("connecting %s -> %s would create a cycle", fromID, toID)
	}

	s.edges = append(s.edges, domain.Edge{FromID: fromID, ToID: toID})
	deriveInput(to, from)
	s.emit(Event{Kind: EdgeAdded, Edge: &domain.Edge{FromID: fromID, ToID: toID}})
	return nil
}

// Disconnect removes the edge (fromID, toID) along with the successor's
// material row derived from the upstream node.
func (s *Store) Disconnect(fromID, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.edges {
		if e.FromID == fromID && e.ToID == toID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("disconnecting: no edge %s -> %s", fromID, toID)
	}
	s.edges = append(s.edges[:idx], s.edges[idx+1:]...)
	if to, ok := s.nodes[toID]; ok {
		stripDerived(to, fromID)
	}
	s.emit(Event{Kind: EdgeRemoved, Edge: &domain.Edge{FromID: fromID, ToID: toID}})
	return nil
}

// UpdateNode applies a patch to a node. Zero-valued patch fields leave
// the node untouched. Derived material rows cannot be replaced through
// a patch; they are owned by propagation.
func (s *Store) UpdateNode(id string, patch NodePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("updating node: %s not in plan", id)
	}
	if err := patch.apply(n); err != nil {
		return fmt.Errorf("updating node %s: %w", id, err)
	}
	n.UpdatedAt = time.Now().UTC()
	s.emit(Event{Kind: NodeUpdated, NodeID: id})
	return nil
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (*domain.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return copyNode(n), true
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []*domain.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyNode(s.nodes[id]))
	}
	return out
}

// Len returns the node count.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Edges returns a copy of the edge list in insertion order.
func (s *Store) Edges() []domain.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Edge(nil), s.edges...)
}

// Successors returns the ids of direct successors of id, sorted.
func (s *Store) Successors(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successorsLocked(id)
}

func (s *Store) successorsLocked(id string) []string {
	var out []string
	for _, e := range s.edges {
		if e.FromID == id {
			out = append(out, e.ToID)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the ids of direct predecessors of id, sorted.
func (s *Store) Predecessors(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.edges {
		if e.ToID == id {
			out = append(out, e.FromID)
		}
	}
	sort.Strings(out)
	return out
}

// pathExists reports whether a directed path from src to dst exists.
func (s *Store) pathExists(src, dst string) bool {
	seen := map[string]bool{src: true}
	stack := []string{src}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == dst {
			return true
		}
		for _, e := range s.edges {
			if e.FromID == cur && !seen[e.ToID] {
				seen[e.ToID] = true
				stack = append(stack, e.ToID)
			}
		}
	}
	return false
}

func copyNode(n *domain.Node) *domain.Node {
	c := *n
	c.Skills = append([]string(nil), n.Skills...)
	c.Materials = append([]domain.MaterialEntry(nil), n.Materials...)
	c.AssignedStations = append([]domain.StationSlot(nil), n.AssignedStations...)
	c.AssignmentWarnings = append([]string(nil), n.AssignmentWarnings...)
	return &c
}

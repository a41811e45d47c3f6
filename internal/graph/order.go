package graph

import (
	"fmt"
	"sort"
	"strings"
)

// CycleError reports that the plan graph contains at least one cycle.
// NodeIDs lists every node that could not be ordered, sorted.
type CycleError struct {
	NodeIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("plan contains a cycle involving nodes: %s", strings.Join(e.NodeIDs, ", "))
}

// ExecutionOrder returns a topologically valid sequence of node ids
// using Kahn's algorithm. Ties among simultaneously ready nodes break
// ascending by node id, so the order is deterministic for a given
// graph. If any nodes remain unresolved the whole call fails with a
// *CycleError naming them; no partial order is returned.
func (s *Store) ExecutionOrder() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indegree := make(map[string]int, len(s.nodes))
	for id := range s.nodes {
		indegree[id] = 0
	}
	for _, e := range s.edges {
		indegree[e.ToID]++
	}

	var ready []string
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(s.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for _, e := range s.edges {
			if e.FromID != id {
				continue
			}
			indegree[e.ToID]--
			if indegree[e.ToID] == 0 {
				unlocked = append(unlocked, e.ToID)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	if len(order) < len(s.nodes) {
		var stuck []string
		for id, deg := range indegree {
			if deg > 0 {
				stuck = append(stuck, id)
			}
		}
		sort.Strings(stuck)
		return nil, &CycleError{NodeIDs: stuck}
	}
	return order, nil
}

package graph

import (
	"testing"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutionOrder_EmptyGraph(t *testing.T) {
	s := NewStore()
	order, err := s.ExecutionOrder()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestExecutionOrder_RespectsEdges(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	addNode(t, s, "paint", "Paint")
	addNode(t, s, "pack", "Pack")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.Connect("cut", "paint"))
	require.NoError(t, s.Connect("weld", "pack"))
	require.NoError(t, s.Connect("paint", "pack"))

	order, err := s.ExecutionOrder()
	require.NoError(t, err)
	require.Len(t, order, 4)

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range s.Edges() {
		assert.Less(t, pos[e.FromID], pos[e.ToID], "%s must precede %s", e.FromID, e.ToID)
	}
}

func TestExecutionOrder_DeterministicTieBreak(t *testing.T) {
	// Three roots with no constraints among them: ties break by id.
	s := NewStore()
	addNode(t, s, "c", "C")
	addNode(t, s, "a", "A")
	addNode(t, s, "b", "B")

	for range 5 {
		order, err := s.ExecutionOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	}
}

func TestExecutionOrder_CycleNamesStuckNodes(t *testing.T) {
	s := NewStore()
	addNode(t, s, "a", "A")
	addNode(t, s, "b", "B")
	addNode(t, s, "c", "C")
	require.NoError(t, s.Connect("a", "b"))
	require.NoError(t, s.Connect("b", "c"))

	// Force a cycle past the connect guard to exercise the resolver's
	// own detection, the path persistence takes through Load.
	s.edges = append(s.edges, domain.Edge{FromID: "c", ToID: "b"})

	order, err := s.ExecutionOrder()
	assert.Nil(t, order)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"b", "c"}, cycleErr.NodeIDs)
}

func TestExecutionOrder_DisconnectedComponents(t *testing.T) {
	s := NewStore()
	addNode(t, s, "x1", "X1")
	addNode(t, s, "x2", "X2")
	addNode(t, s, "y1", "Y1")
	require.NoError(t, s.Connect("x1", "x2"))

	order, err := s.ExecutionOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "y1", "x2"}, order)
}

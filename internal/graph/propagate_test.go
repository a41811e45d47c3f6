package graph

import (
	"testing"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagateOutput_UpdatesDirectSuccessors(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	addNode(t, s, "paint", "Paint")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.Connect("weld", "paint"))

	require.NoError(t, s.UpdateNode("cut", NodePatch{
		SemiCode:   strPtr("CUT-001"),
		OutputQty:  qtyPtr(qty(10)),
		OutputUnit: strPtr("pcs"),
	}))
	require.NoError(t, s.PropagateOutput("cut"))

	weld, _ := s.Node("weld")
	require.Len(t, weld.Materials, 1)
	assert.Equal(t, "CUT-001", weld.Materials[0].MaterialID)
	assert.Equal(t, 10.0, *weld.Materials[0].Quantity)
	assert.Equal(t, "pcs", weld.Materials[0].Unit)

	// Propagation stops at direct successors; paint mirrors weld's
	// output, not cut's.
	paint, _ := s.Node("paint")
	require.Len(t, paint.Materials, 1)
	assert.Equal(t, "weld", paint.Materials[0].DerivedFrom)
	assert.Empty(t, paint.Materials[0].MaterialID)
}

func TestPropagateOutput_Idempotent(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.UpdateNode("cut", NodePatch{SemiCode: strPtr("CUT-001")}))

	require.NoError(t, s.PropagateOutput("cut"))
	require.NoError(t, s.PropagateOutput("cut"))

	weld, _ := s.Node("weld")
	assert.Len(t, weld.Materials, 1)
}

func TestPropagateOutput_NeverResurrectsRemovedRows(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.Disconnect("cut", "weld"))
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.Disconnect("cut", "weld"))

	require.NoError(t, s.PropagateOutput("cut"))

	weld, _ := s.Node("weld")
	assert.Empty(t, weld.Materials)
}

func TestPropagateOutput_LeavesPlannerRowsAlone(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.UpdateNode("weld", NodePatch{
		Materials: &[]domain.MaterialEntry{{MaterialID: "WIRE-3", Name: "Wire", Quantity: qty(0.5), Unit: "kg"}},
	}))

	require.NoError(t, s.UpdateNode("cut", NodePatch{SemiCode: strPtr("CUT-001")}))
	require.NoError(t, s.PropagateOutput("cut"))

	weld, _ := s.Node("weld")
	require.Len(t, weld.Materials, 2)
	assert.Equal(t, "CUT-001", weld.Materials[0].MaterialID)
	assert.Equal(t, "WIRE-3", weld.Materials[1].MaterialID)
}

func TestPropagateOutput_UnknownNode(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.PropagateOutput("ghost"))
}

func TestLoad_RoundTrip(t *testing.T) {
	s := NewStore()
	addNode(t, s, "cut", "Cut")
	addNode(t, s, "weld", "Weld")
	require.NoError(t, s.Connect("cut", "weld"))
	require.NoError(t, s.UpdateNode("cut", NodePatch{
		SemiCode:  strPtr("CUT-001"),
		OutputQty: qtyPtr(qty(2)),
	}))

	loaded, err := Load(s.Nodes(), s.Edges())
	require.NoError(t, err)

	assert.Equal(t, s.Edges(), loaded.Edges())
	orig, _ := s.Node("cut")
	got, ok := loaded.Node("cut")
	require.True(t, ok)
	assert.Equal(t, orig.SemiCode, got.SemiCode)
	assert.Equal(t, *orig.OutputQty, *got.OutputQty)

	weld, _ := loaded.Node("weld")
	require.Len(t, weld.Materials, 1)
	assert.Equal(t, "cut", weld.Materials[0].DerivedFrom)
}

func TestLoad_RejectsCycle(t *testing.T) {
	nodes := []*domain.Node{{ID: "a"}, {ID: "b"}}
	edges := []domain.Edge{{FromID: "a", ToID: "b"}, {FromID: "b", ToID: "a"}}

	_, err := Load(nodes, edges)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoad_SkipsDuplicateEdges(t *testing.T) {
	nodes := []*domain.Node{{ID: "a"}, {ID: "b"}}
	edges := []domain.Edge{{FromID: "a", ToID: "b"}, {FromID: "a", ToID: "b"}}

	s, err := Load(nodes, edges)
	require.NoError(t, err)
	assert.Len(t, s.Edges(), 1)
}

func TestLoad_RejectsUnknownEndpoints(t *testing.T) {
	nodes := []*domain.Node{{ID: "a"}}
	_, err := Load(nodes, []domain.Edge{{FromID: "a", ToID: "ghost"}})
	assert.Error(t, err)
}

package contract

import (
	"testing"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_EncodesEdgesAsNextIDs(t *testing.T) {
	nodes := []*domain.Node{
		{ID: "n1", Name: "Cut"},
		{ID: "n2", Name: "Weld"},
		{ID: "n3", Name: "Paint"},
	}
	edges := []domain.Edge{
		{FromID: "n1", ToID: "n2"},
		{FromID: "n1", ToID: "n3"},
		{FromID: "n2", ToID: "n3"},
	}

	snap := EncodeSnapshot(nodes, edges)
	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, []string{"n2", "n3"}, snap.Nodes[0].Next)
	assert.Equal(t, []string{"n3"}, snap.Nodes[1].Next)
	assert.Empty(t, snap.Nodes[2].Next)

	gotNodes, gotEdges := DecodeSnapshot(snap)
	require.Len(t, gotNodes, 3)
	assert.Equal(t, "Cut", gotNodes[0].Name)
	assert.Equal(t, edges, gotEdges)
}

func TestSnapshot_PreservesMaterialAndAssignmentState(t *testing.T) {
	q := 4.0
	nodes := []*domain.Node{{
		ID:       "n1",
		Name:     "Weld",
		SemiCode: "W-001",
		Materials: []domain.MaterialEntry{
			{MaterialID: "C-001", Name: "Cut", Quantity: &q, Unit: "pcs", DerivedFrom: "n0"},
			{MaterialID: "WIRE-3", Name: "Wire", Unit: "kg"},
		},
		AssignedStations:   []domain.StationSlot{{StationID: "st1", Priority: 1}},
		AssignedWorker:     "w1",
		AssignmentMode:     domain.AssignManual,
		AssignmentWarnings: []string{"worker w1 has 1 overlapping commitment(s) in the execution window"},
		RequiresAttention:  false,
	}}

	gotNodes, _ := DecodeSnapshot(EncodeSnapshot(nodes, nil))
	require.Len(t, gotNodes, 1)
	n := gotNodes[0]
	require.Len(t, n.Materials, 2)
	assert.True(t, n.Materials[0].Derived())
	assert.Nil(t, n.Materials[1].Quantity, "unknown quantity survives the round trip")
	assert.Equal(t, domain.AssignManual, n.AssignmentMode)
	assert.Equal(t, nodes[0].AssignmentWarnings, n.AssignmentWarnings)
	require.Len(t, n.AssignedStations, 1)
	assert.Equal(t, "st1", n.AssignedStations[0].StationID)
}

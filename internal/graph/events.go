package graph

import "github.com/mbeckers/fabplan/internal/domain"

// EventKind identifies a store mutation.
type EventKind string

const (
	NodeAdded   EventKind = "node_added"
	NodeRemoved EventKind = "node_removed"
	NodeUpdated EventKind = "node_updated"
	EdgeAdded   EventKind = "edge_added"
	EdgeRemoved EventKind = "edge_removed"
)

// Event describes one completed store mutation. NodeID is set for node
// events, Edge for edge events. Visual layers and persistence hooks
// subscribe to these instead of mutating the store directly.
type Event struct {
	Kind   EventKind
	NodeID string
	Edge   *domain.Edge
}

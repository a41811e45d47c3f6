package contract

import (
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

// SaveNodeRequest carries one planner save of a node. Nil pointer
// fields leave the corresponding node field untouched. Stations, when
// set, replaces the node's station bindings; a save that would leave
// the node with zero stations is rejected. Mode selects assignment
// resolution: auto picks a free eligible worker, manual records the
// given Worker, empty leaves the current assignment alone.
type SaveNodeRequest struct {
	Name        *string
	DurationMin *int
	// Materials replaces the node's planner-entered rows. Derived
	// rows are owned by propagation and survive the replacement.
	Materials  []domain.MaterialEntry
	OutputQty  *float64
	OutputUnit *string

	Stations []domain.StationSlot
	Mode     domain.AssignmentMode
	Worker   string

	// Optional explicit execution window for availability checks;
	// both must be set or the window defaults to now plus the node
	// duration.
	WindowStart *time.Time
	WindowEnd   *time.Time
}

// ScheduledNode is one node's slot in a deployed plan.
type ScheduledNode struct {
	NodeID   string
	WorkerID string
	StartAt  time.Time
	EndAt    time.Time
}

// DeployResult reports a successful deployment: the execution order
// handed to downstream schedulers and the written schedule entries.
type DeployResult struct {
	PlanID    string
	Order     []string
	Scheduled []ScheduledNode
}

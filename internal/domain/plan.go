package domain

import "time"

// Plan is a saved production plan: the node list (edges ride on the
// nodes) plus metadata. Kind distinguishes working plans from reusable
// templates.
type Plan struct {
	ID        string
	Name      string
	OrderRef  string // approved-order reference used to pre-seed metadata
	Kind      PlanKind
	Status    PlanStatus
	Nodes     []*Node
	Edges     []Edge
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduleEntry is a worker commitment in a time window. Entries span
// plans; the assignment resolver reads them as a point-in-time snapshot
// when checking availability.
type ScheduleEntry struct {
	ID       string
	WorkerID string
	PlanID   string
	NodeID   string
	StartAt  time.Time
	EndAt    time.Time
}

// Overlaps reports whether the entry intersects the half-open window
// [start, end).
func (e ScheduleEntry) Overlaps(start, end time.Time) bool {
	return e.StartAt.Before(end) && start.Before(e.EndAt)
}

// LedgerEntry is the material/WIP ledger row upserted once a node's
// semi-finished code is committed.
type LedgerEntry struct {
	SemiCode  string
	Name      string
	Quantity  float64
	Unit      string
	PlanID    string
	NodeID    string
	UpdatedAt time.Time
}

package domain

// Operation is an entry of the external operation catalog: a reusable
// definition a planner drags into a plan.
type Operation struct {
	ID         string
	Name       string
	Type       string
	Skills     []string
	OutputCode string
}

// Station is a physical workstation. EffectiveSkills is the union of
// the skills inherited from every operation the station supports and
// the station-specific SubSkills; it is computed by the catalog layer,
// not stored.
type Station struct {
	ID              string
	Name            string
	OperationIDs    []string
	SubSkills       []string
	EffectiveSkills []string
}

// Worker is a person eligible for node assignment.
type Worker struct {
	ID     string
	Name   string
	Skills []string
}

package domain

type AssignmentMode string

const (
	AssignNone   AssignmentMode = ""
	AssignAuto   AssignmentMode = "auto"
	AssignManual AssignmentMode = "manual"
)

type PlanKind string

const (
	KindPlan     PlanKind = "plan"
	KindTemplate PlanKind = "template"
)

type PlanStatus string

const (
	PlanDraft    PlanStatus = "draft"
	PlanDeployed PlanStatus = "deployed"
	PlanArchived PlanStatus = "archived"
)

// ValidPlanKinds is the canonical set of accepted plan kind strings.
var ValidPlanKinds = map[string]bool{
	"plan": true, "template": true,
}

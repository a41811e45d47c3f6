package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbeckers/fabplan/internal/domain"
)

// FormatPlan renders a plan with its nodes, edges, and per-node
// assignment state.
func FormatPlan(p *domain.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", StyleHeader.Render(p.Name), StyleDim.Render(string(p.Kind)+"/"+string(p.Status)))
	if p.OrderRef != "" {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render("order:"), p.OrderRef)
	}
	fmt.Fprintf(&b, "%s %s\n\n", StyleDim.Render("id:"), p.ID)

	next := make(map[string][]string)
	for _, e := range p.Edges {
		next[e.FromID] = append(next[e.FromID], e.ToID)
	}

	for _, n := range p.Nodes {
		b.WriteString(FormatNode(n))
		if succ := next[n.ID]; len(succ) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("->"), strings.Join(succ, ", "))
		}
		b.WriteString("\n")
	}
	if len(p.Nodes) == 0 {
		b.WriteString(StyleDim.Render("(empty plan)") + "\n")
	}
	return b.String()
}

// FormatNode renders one node with materials and assignment state.
func FormatNode(n *domain.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n", StyleBold.Render(n.Name), StyleDim.Render("["+n.ID+"]"),
		AttentionIndicator(n.RequiresAttention, n.AssignedWorker != ""))
	if n.SemiCode != "" {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("code:"), StyleBlue.Render(n.SemiCode))
	}
	if n.DurationMin > 0 {
		fmt.Fprintf(&b, "  %s %d min\n", StyleDim.Render("duration:"), n.DurationMin)
	}
	if n.OutputQty != nil {
		fmt.Fprintf(&b, "  %s %s %s\n", StyleDim.Render("output:"), FormatQty(n.OutputQty), n.OutputUnit)
	}
	for _, m := range n.Materials {
		marker := " "
		if m.Derived() {
			marker = StyleBlue.Render("^")
		}
		fmt.Fprintf(&b, "  %s %s %s x %s %s\n", marker, valueOr(m.MaterialID, "-"), m.Name, FormatQty(m.Quantity), m.Unit)
	}
	if n.AssignedWorker != "" {
		fmt.Fprintf(&b, "  %s %s (%s)\n", StyleDim.Render("worker:"), n.AssignedWorker, n.AssignmentMode)
	}
	if len(n.AssignedStations) > 0 {
		var slots []string
		for _, s := range n.AssignedStations {
			slots = append(slots, fmt.Sprintf("%s(p%d)", s.StationID, s.Priority))
		}
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("stations:"), strings.Join(slots, ", "))
	}
	for _, w := range n.AssignmentWarnings {
		fmt.Fprintf(&b, "  %s %s\n", StyleYellow.Render("!"), w)
	}
	return b.String()
}

// FormatOrder renders an execution order as a numbered list.
func FormatOrder(order []string) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Execution order") + "\n")
	for i, id := range order {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, id)
	}
	return b.String()
}

// FormatQty renders a nullable quantity; unknown quantities show as "?".
func FormatQty(q *float64) string {
	if q == nil {
		return StyleYellow.Render("?")
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package registry

import (
	"sort"
	"strconv"
	"strings"
)

// Signature builds the canonical, order-independent key deciding
// whether two nodes share a semi-finished code: operation identity,
// station identity, and the sorted material rows as id:quantity:unit.
func Signature(in Input) string {
	mats := make([]string, 0, len(in.Node.Materials))
	for _, m := range in.Node.Materials {
		mats = append(mats, m.MaterialID+":"+formatQty(m.Quantity)+":"+m.Unit)
	}
	sort.Strings(mats)

	stationID := ""
	if in.Station != nil {
		stationID = in.Station.ID
	}
	parts := []string{in.Operation.ID, in.Operation.OutputCode, stationID, strings.Join(mats, ",")}
	return strings.Join(parts, "|")
}

// Prefix derives the letter-code portion of an issued code. Preferred:
// the sorted, deduplicated concatenation of output codes of every
// operation the primary station supports. Fallbacks: the node's own
// operation code, then the first letter of the node name or type.
func Prefix(in Input) string {
	if in.Station != nil {
		codes := make(map[string]bool)
		for _, op := range in.StationOps {
			if op.OutputCode != "" {
				codes[op.OutputCode] = true
			}
		}
		if len(codes) > 0 {
			sorted := make([]string, 0, len(codes))
			for c := range codes {
				sorted = append(sorted, c)
			}
			sort.Strings(sorted)
			return strings.Join(sorted, "")
		}
	}
	if in.Operation.OutputCode != "" {
		return in.Operation.OutputCode
	}
	if l := firstLetter(in.Node.Name); l != "" {
		return l
	}
	if l := firstLetter(in.Node.Type); l != "" {
		return l
	}
	return "X"
}

func firstLetter(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}

func formatQty(q *float64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

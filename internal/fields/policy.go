package fields

import (
	"fmt"
	"strings"
)

// NotAvailable is the placeholder written for missing text fields, and for
// missing amounts and confidences under PolicyNA.
const NotAvailable = "N/A"

// Policy decides what absent amounts and confidences serialize to.
type Policy struct {
	Name    string
	Missing any
}

var (
	// PolicyZero reports absent amounts and confidences as 0.
	PolicyZero = Policy{Name: "zero", Missing: 0.0}
	// PolicyNA reports absent amounts and confidences as "N/A".
	PolicyNA = Policy{Name: "na", Missing: NotAvailable}
)

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "zero", "0":
		return PolicyZero, nil
	case "na", "n/a":
		return PolicyNA, nil
	default:
		return Policy{}, fmt.Errorf("unknown missing value policy %q", raw)
	}
}

func (p Policy) number(v *float64) any {
	if v == nil {
		if p.Missing == nil {
			return 0.0
		}
		return p.Missing
	}
	return *v
}

func text(v *string) string {
	if v == nil {
		return NotAvailable
	}
	return *v
}

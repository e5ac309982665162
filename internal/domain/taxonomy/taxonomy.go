// Package taxonomy holds the fixed set of opportunity type labels the
// analysis pipeline classifies into.
package taxonomy

// Unknown is the fallback label assigned when the model suggests a type
// outside the registry.
const Unknown = "Unknown"

// types is ordered; the order is part of the API contract for
// GET /opportunity-types and for prompt construction.
var types = []string{
	"Security Assessment",
	"Cloud Security",
	"Endpoint Security",
	"SIEM/SOC",
	"Identity Management",
	"Network Security",
	"Data Protection",
	"Vulnerability Management",
	"Compliance & Audit",
	"Incident Response",
	"Security Training",
	"Mainframe Security",
}

// List returns the valid opportunity type labels in registry order.
func List() []string {
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// Contains reports whether label is a member of the registry.
// The Unknown fallback label is not a member.
func Contains(label string) bool {
	for _, t := range types {
		if t == label {
			return true
		}
	}
	return false
}

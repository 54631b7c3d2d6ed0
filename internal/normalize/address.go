package normalize

import (
	"strings"
)

// DefaultState is the jurisdiction code applied when a record has no state,
// and the marker stripped from composite addresses during decomposition.
const DefaultState = "GA"

// AddressParts are the discrete fields a canonical address is built from.
// A blank field is treated as absent.
type AddressParts struct {
	Number string `json:"number,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

// IsEmpty reports whether every field is absent
func (p AddressParts) IsEmpty() bool {
	return isBlank(p.Number) && isBlank(p.Street) && isBlank(p.City) &&
		isBlank(p.State) && isBlank(p.Zip)
}

// Compose builds the canonical single-line address "number street city state
// zip", skipping absent fields and trimming the rest so that fields are
// separated by exactly one space. A missing state becomes DefaultState, except
// that a record with no fields at all composes to "".
func Compose(parts AddressParts) string {
	if parts.IsEmpty() {
		return ""
	}

	state := parts.State
	if isBlank(state) {
		state = DefaultState
	}

	ordered := [5]string{parts.Number, parts.Street, parts.City, state, parts.Zip}
	kept := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

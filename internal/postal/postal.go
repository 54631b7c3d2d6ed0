// Package postal cross-checks decomposition results against libpostal.
// libpostal is a C library, so the real implementation is only built with
// the libpostal build tag; otherwise every call reports ErrUnavailable.
package postal

import (
	"errors"
	"strings"

	"github.com/lville-gis/internal/normalize"
)

// ErrUnavailable is returned when the binary was built without libpostal
var ErrUnavailable = errors.New("postal: built without libpostal support")

// Component is one labelled span from the libpostal parser
type Component struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Comparison reports how a decomposition lines up with libpostal's parse
type Comparison struct {
	Components        []Component `json:"components"`
	HouseNumber       string      `json:"house_number"`
	Road              string      `json:"road"`
	HouseNumberAgrees bool        `json:"house_number_agrees"`
	RoadAgrees        bool        `json:"road_agrees"`
}

// compare fills the agreement flags. The road agrees when every token of
// our street name appears in libpostal's road, in any order.
func compare(parsed []Component, c normalize.AddressComponents) Comparison {
	cmp := Comparison{Components: parsed}
	for _, p := range parsed {
		switch p.Label {
		case "house_number":
			cmp.HouseNumber = strings.ToUpper(p.Value)
		case "road":
			cmp.Road = strings.ToUpper(p.Value)
		}
	}

	cmp.HouseNumberAgrees = cmp.HouseNumber == c.StreetNumber

	roadTokens := make(map[string]bool)
	for _, t := range strings.Fields(cmp.Road) {
		roadTokens[t] = true
	}
	name := strings.Fields(c.StreetName)
	cmp.RoadAgrees = len(name) > 0
	for _, t := range name {
		if !roadTokens[t] {
			cmp.RoadAgrees = false
			break
		}
	}
	return cmp
}

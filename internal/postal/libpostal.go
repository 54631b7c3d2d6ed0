//go:build libpostal

package postal

import (
	postal "github.com/openvenues/gopostal/parser"

	"github.com/lville-gis/internal/normalize"
)

// Available reports whether libpostal was compiled in
func Available() bool { return true }

// Parse runs the libpostal address parser
func Parse(raw string) ([]Component, error) {
	parsed := postal.ParseAddress(raw)
	out := make([]Component, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, Component{Label: p.Label, Value: p.Value})
	}
	return out, nil
}

// Compare parses raw with libpostal and checks it against c
func Compare(raw string, c normalize.AddressComponents) (Comparison, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return Comparison{}, err
	}
	return compare(parsed, c), nil
}

//go:build !libpostal

package postal

import (
	"github.com/lville-gis/internal/normalize"
)

// Available reports whether libpostal was compiled in
func Available() bool { return false }

// Parse always fails without libpostal
func Parse(raw string) ([]Component, error) {
	return nil, ErrUnavailable
}

// Compare always fails without libpostal
func Compare(raw string, c normalize.AddressComponents) (Comparison, error) {
	return Comparison{}, ErrUnavailable
}

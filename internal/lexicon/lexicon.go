// Package lexicon holds the token sets that drive address classification:
// directions, street types, sub-address markers and known city names.
//
// A Lexicon is built once per run and never mutated afterwards, so a single
// value can be shared by any number of goroutines without locking.
package lexicon

import (
	"strings"
)

// Lists is the raw form of a lexicon as it appears in parsing_lists.json.
type Lists struct {
	Directions  []string `json:"dir_list" yaml:"dir_list"`
	SubAddress  []string `json:"subadd_list" yaml:"subadd_list"`
	Cities      []string `json:"city_list" yaml:"city_list"`
	StreetTypes []string `json:"sttype_list" yaml:"sttype_list"`
}

// Lexicon is an immutable set of recognised tokens. All entries are stored
// upper-cased with single interior spaces.
type Lexicon struct {
	directions  map[string]struct{}
	streetTypes map[string]struct{}
	subAddress  map[string]struct{}
	cities      map[string]struct{}
}

// Counts reports how many entries each set holds
type Counts struct {
	Directions  int `json:"directions"`
	StreetTypes int `json:"street_types"`
	SubAddress  int `json:"sub_address_markers"`
	Cities      int `json:"cities"`
}

// New builds a Lexicon from raw lists. Entries are upper-cased and blank
// entries are skipped.
func New(lists Lists) *Lexicon {
	return &Lexicon{
		directions:  toSet(lists.Directions),
		streetTypes: toSet(lists.StreetTypes),
		subAddress:  toSet(lists.SubAddress),
		cities:      toSet(lists.Cities),
	}
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		key := Normalize(t)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

// Normalize upper-cases a token and collapses interior whitespace, the form
// in which every lexicon entry is stored.
func Normalize(token string) string {
	return strings.Join(strings.Fields(strings.ToUpper(token)), " ")
}

// IsDirection reports whether token is a pre/post directional qualifier.
// Tokens are expected upper-case already. A nil Lexicon recognises nothing.
func (l *Lexicon) IsDirection(token string) bool {
	if l == nil {
		return false
	}
	_, ok := l.directions[token]
	return ok
}

// IsStreetType reports whether token is a street-type suffix
func (l *Lexicon) IsStreetType(token string) bool {
	if l == nil {
		return false
	}
	_, ok := l.streetTypes[token]
	return ok
}

// IsSubAddressMarker reports whether token marks a unit/suite/lot qualifier
func (l *Lexicon) IsSubAddressMarker(token string) bool {
	if l == nil {
		return false
	}
	_, ok := l.subAddress[token]
	return ok
}

// IsCity reports whether name (one token or a space-joined bigram) is a known
// city. The comparison is case-insensitive.
func (l *Lexicon) IsCity(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.cities[Normalize(name)]
	return ok
}

// Counts returns the size of each token set
func (l *Lexicon) Counts() Counts {
	if l == nil {
		return Counts{}
	}
	return Counts{
		Directions:  len(l.directions),
		StreetTypes: len(l.streetTypes),
		SubAddress:  len(l.subAddress),
		Cities:      len(l.cities),
	}
}

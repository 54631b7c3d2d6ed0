package normalize

import (
	"github.com/lville-gis/internal/lexicon"
)

// Direction is a pre- or post-directional qualifier such as N or SE.
// Recognized is false when the text did not come from the lexicon's direction
// set, e.g. a value read back from storage that no longer classifies.
type Direction struct {
	Value      string
	Recognized bool
}

// NewDirection classifies token against the lexicon
func NewDirection(lex *lexicon.Lexicon, token string) Direction {
	return Direction{Value: token, Recognized: token != "" && lex.IsDirection(token)}
}

func (d Direction) String() string { return d.Value }

// IsZero reports whether no direction was extracted
func (d Direction) IsZero() bool { return d.Value == "" }

// MarshalText encodes the direction as its bare text
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.Value), nil }

// UnmarshalText keeps the text but leaves it unrecognized until classified
// against a lexicon.
func (d *Direction) UnmarshalText(b []byte) error {
	*d = Direction{Value: string(b)}
	return nil
}

// StreetType is a street-type suffix such as DR or AVE
type StreetType struct {
	Value      string
	Recognized bool
}

// NewStreetType classifies token against the lexicon
func NewStreetType(lex *lexicon.Lexicon, token string) StreetType {
	return StreetType{Value: token, Recognized: token != "" && lex.IsStreetType(token)}
}

func (s StreetType) String() string { return s.Value }

func (s StreetType) IsZero() bool { return s.Value == "" }

func (s StreetType) MarshalText() ([]byte, error) { return []byte(s.Value), nil }

func (s *StreetType) UnmarshalText(b []byte) error {
	*s = StreetType{Value: string(b)}
	return nil
}

// AddressComponents is the structured result of decomposing a composite
// address. Extraction is best-effort: fields stay empty when the input does
// not support them.
type AddressComponents struct {
	RawInput      string     `json:"raw_input"`
	CleanAddress  string     `json:"clean_address"`
	StreetNumber  string     `json:"street_number"`
	PreDirection  Direction  `json:"pre_direction"`
	StreetName    string     `json:"street_name"`
	StreetType    StreetType `json:"street_type"`
	PostDirection Direction  `json:"post_direction"`
}

// RoutingColumns names the values returned by Row, in order
var RoutingColumns = []string{"clean_address", "st_num", "pre_dir", "st_name", "st_type", "post_dir"}

// Row returns the persisted fields in RoutingColumns order
func (c AddressComponents) Row() []string {
	return []string{
		c.CleanAddress,
		c.StreetNumber,
		c.PreDirection.Value,
		c.StreetName,
		c.StreetType.Value,
		c.PostDirection.Value,
	}
}

// SameRouting reports whether two results agree on the five routing fields,
// ignoring the raw and cleaned input text.
func (c AddressComponents) SameRouting(o AddressComponents) bool {
	return c.StreetNumber == o.StreetNumber &&
		c.PreDirection == o.PreDirection &&
		c.StreetName == o.StreetName &&
		c.StreetType == o.StreetType &&
		c.PostDirection == o.PostDirection
}

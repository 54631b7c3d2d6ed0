package normalize

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/lville-gis/internal/lexicon"
)

func testLexicon() *lexicon.Lexicon {
	return lexicon.New(lexicon.Lists{
		Directions:  []string{"N", "S", "E", "W", "NE", "NW", "SE", "SW"},
		StreetTypes: []string{"DR", "ST", "AVE", "RD", "CT", "LN", "PKWY"},
		SubAddress:  []string{"APT", "UNIT", "STE", "LOT"},
		Cities:      []string{"LAWRENCEVILLE", "DULUTH", "SUGAR HILL"},
	})
}

type routing struct {
	num, pre, name, typ, post string
}

func routingOf(c AddressComponents) routing {
	return routing{c.StreetNumber, c.PreDirection.Value, c.StreetName, c.StreetType.Value, c.PostDirection.Value}
}

func TestDecompose(t *testing.T) {
	lex := testLexicon()

	tests := []struct {
		name  string
		input string
		want  routing
	}{
		{
			name:  "number name type",
			input: "2430 TUCKER DR GA 30045",
			want:  routing{num: "2430", name: "TUCKER", typ: "DR"},
		},
		{
			name:  "pre and post direction",
			input: "100 N MAIN ST S GA 30045",
			want:  routing{num: "100", pre: "N", name: "MAIN", typ: "ST", post: "S"},
		},
		{
			name:  "highway keeps route number and no type",
			input: "123 HWY 20 GA 30045",
			want:  routing{num: "123", name: "HWY 20"},
		},
		{
			name:  "highway with post direction",
			input: "123 HWY 20 E GA 30045",
			want:  routing{num: "123", name: "HWY 20", post: "E"},
		},
		{
			name:  "highway name only first two tokens",
			input: "77 HWY 316 BYPASS GA 30045",
			want:  routing{num: "77", name: "HWY 316"},
		},
		{
			name:  "lower-case input is normalised",
			input: "100 n main st s ga 30045",
			want:  routing{num: "100", pre: "N", name: "MAIN", typ: "ST", post: "S"},
		},
		{
			name:  "no street type",
			input: "18 OLD PEACHTREE GA 30043",
			want:  routing{num: "18", name: "OLD PEACHTREE"},
		},
		{
			name:  "no number",
			input: "MAIN ST GA 30045",
			want:  routing{name: "MAIN", typ: "ST"},
		},
		{
			name:  "alphanumeric number is not a street number",
			input: "12A MAIN ST GA 30045",
			want:  routing{name: "12A MAIN", typ: "ST"},
		},
		{
			name:  "no jurisdiction marker keeps trailing zip",
			input: "12 MAIN ST 30045",
			want:  routing{num: "12", name: "MAIN ST 30045"},
		},
		{
			name:  "marker inside street content",
			input: "123 GA HWY 20 GA 30045",
			want:  routing{num: "123", name: "GA HWY 20"},
		},
		{
			name:  "null placeholders removed",
			input: "55 <Null> PIKE ST <Nul.l> GA 30046",
			want:  routing{num: "55", name: "PIKE", typ: "ST"},
		},
		{
			name:  "comma truncation",
			input: "123 MAIN ST, BLDG A GA 30045",
			want:  routing{num: "123", name: "MAIN", typ: "ST"},
		},
		{
			name:  "hyphen truncation",
			input: "500 OAK DR - REAR GA 30045",
			want:  routing{num: "500", name: "OAK", typ: "DR"},
		},
		{
			name:  "comma wins over hyphen",
			input: "12 A-B ST, X-Y GA 30045",
			want:  routing{num: "12", name: "A-B", typ: "ST"},
		},
		{
			name:  "sub-address marker truncates",
			input: "500 OAK DR APT 4 GA 30045",
			want:  routing{num: "500", name: "OAK", typ: "DR"},
		},
		{
			name:  "sub-address wins over city",
			input: "5 ELM ST LOT 3 DULUTH GA 30096",
			want:  routing{num: "5", name: "ELM", typ: "ST"},
		},
		{
			name:  "trailing city dropped",
			input: "500 OAK DR LAWRENCEVILLE GA 30045",
			want:  routing{num: "500", name: "OAK", typ: "DR"},
		},
		{
			name:  "trailing city bigram dropped",
			input: "9 PINE LN SUGAR HILL GA 30518",
			want:  routing{num: "9", name: "PINE", typ: "LN"},
		},
		{
			name:  "trailing city case-insensitive",
			input: "9 pine ln Duluth GA 30096",
			want:  routing{num: "9", name: "PINE", typ: "LN"},
		},
		{
			name:  "number and direction only",
			input: "100 N GA 30045",
			want:  routing{num: "100", pre: "N"},
		},
		{
			name:  "post direction removes last token not first equal token",
			input: "100 MAIN S ST S GA 30045",
			want:  routing{num: "100", name: "MAIN S", typ: "ST", post: "S"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.input, lex)
			if routingOf(got) != tt.want {
				t.Errorf("Decompose(%q) = %+v, want %+v", tt.input, routingOf(got), tt.want)
			}
			if got.RawInput != tt.input {
				t.Errorf("RawInput = %q, want %q", got.RawInput, tt.input)
			}
		})
	}
}

func TestDecomposeEmpty(t *testing.T) {
	for _, in := range []string{"", "   "} {
		got := Decompose(in, testLexicon())
		if (routingOf(got) != routing{}) || got.CleanAddress != "" {
			t.Errorf("Decompose(%q) = %+v, want empty components", in, got)
		}
	}
}

func TestDecomposeNilLexicon(t *testing.T) {
	got := Decompose("100 N MAIN ST GA 30045", nil)
	want := routing{num: "100", name: "N MAIN ST"}
	if routingOf(got) != want {
		t.Errorf("Decompose() = %+v, want %+v", routingOf(got), want)
	}
}

func TestDecomposeCleanAddress(t *testing.T) {
	got := Decompose("2430  <Null>  Tucker Dr, Unit 3 GA 30045", testLexicon())
	want := "2430 TUCKER DR, UNIT 3"
	if got.CleanAddress != want {
		t.Errorf("CleanAddress = %q, want %q", got.CleanAddress, want)
	}
}

func TestDecomposeEquivalentForms(t *testing.T) {
	lex := testLexicon()

	tests := []struct {
		name string
		a, b string
	}{
		{"comma content discarded", "123 MAIN ST, BLDG A GA 30045", "123 MAIN ST GA 30045"},
		{"hyphen range repaired", "2430 - 2432 TUCKER DR GA 30045", "2430 TUCKER DR GA 30045"},
		{"stray hyphen drops its neighbour", "2430 - TUCKER DR GA 30045", "2430 DR GA 30045"},
		{"city suffix ignored", "100 N MAIN ST LAWRENCEVILLE GA 30045", "100 N MAIN ST GA 30045"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := Decompose(tt.a, lex), Decompose(tt.b, lex)
			if !a.SameRouting(b) {
				t.Errorf("Decompose(%q) = %+v, Decompose(%q) = %+v", tt.a, routingOf(a), tt.b, routingOf(b))
			}
		})
	}
}

func TestHyphenRepairNeedsThreeTokens(t *testing.T) {
	got := repairHyphen("2430 -")
	if got != "2430 -" {
		t.Errorf("repairHyphen() = %q, want input unchanged", got)
	}
}

func TestDecomposeStreetNameStable(t *testing.T) {
	lex := testLexicon()
	inputs := []string{
		"100 N MAIN ST S GA 30045",
		"2430 TUCKER DR GA 30045",
		"9 NE OLD NORCROSS RD GA 30045",
		"18 OLD PEACHTREE GA 30043",
		"500 OAK DR APT 4 GA 30045",
	}

	for _, in := range inputs {
		first := Decompose(in, lex)
		rewrapped := strings.Join([]string{first.StreetNumber, first.StreetName, first.StreetType.Value}, " ")
		second := Decompose(rewrapped, lex)
		if second.StreetName != first.StreetName {
			t.Errorf("street name drifted for %q: %q -> %q", in, first.StreetName, second.StreetName)
		}
	}
}

func TestComposeDecomposeNotInverse(t *testing.T) {
	parts := AddressParts{Number: "100", Street: "N Main St", City: "Lawrenceville", Zip: "30045"}
	got := Decompose(Compose(parts), testLexicon())

	if got.StreetName == parts.Street {
		t.Errorf("expected lossy round trip, street name came back as %q", got.StreetName)
	}
	if got.StreetNumber != parts.Number {
		t.Errorf("StreetNumber = %q, want %q", got.StreetNumber, parts.Number)
	}
}

func TestDecomposeConcurrent(t *testing.T) {
	lex := testLexicon()
	want := routingOf(Decompose("100 N MAIN ST S GA 30045", lex))

	var wg sync.WaitGroup
	errs := make(chan routing, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := routingOf(Decompose("100 N MAIN ST S GA 30045", lex)); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Decompose() = %+v, want %+v", got, want)
	}
}

func TestComponentsJSON(t *testing.T) {
	c := Decompose("100 N MAIN ST S GA 30045", testLexicon())
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["pre_direction"] != "N" || m["street_type"] != "ST" || m["post_direction"] != "S" {
		t.Errorf("unexpected json %s", data)
	}

	var back AddressComponents
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.PreDirection.Recognized {
		t.Error("decoded direction should be unrecognized until classified")
	}
}

func TestClassification(t *testing.T) {
	lex := testLexicon()

	if d := NewDirection(lex, "NE"); !d.Recognized {
		t.Error("NE should be a recognised direction")
	}
	if d := NewDirection(lex, "NORTH"); d.Recognized || d.Value != "NORTH" {
		t.Errorf("NewDirection(NORTH) = %+v, want unrecognized carrying text", d)
	}
	if s := NewStreetType(lex, "BLVD"); s.Recognized || s.String() != "BLVD" {
		t.Errorf("NewStreetType(BLVD) = %+v, want unrecognized carrying text", s)
	}
	if d := NewDirection(lex, ""); d.Recognized || !d.IsZero() {
		t.Errorf("NewDirection(\"\") = %+v, want zero", d)
	}
}

func TestRow(t *testing.T) {
	c := Decompose("100 N MAIN ST S GA 30045", testLexicon())
	got := c.Row()
	want := []string{"100 N MAIN ST S", "100", "N", "MAIN", "ST", "S"}
	if len(got) != len(RoutingColumns) {
		t.Fatalf("Row() has %d values, want %d", len(got), len(RoutingColumns))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Row()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

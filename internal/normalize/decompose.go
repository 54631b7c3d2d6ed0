package normalize

import (
	"strings"
	"unicode"

	"github.com/lville-gis/internal/debug"
	"github.com/lville-gis/internal/lexicon"
)

const (
	highwayToken = "HWY"
	hyphenToken  = "-"
)

// jurisdictionMarker is embedded between street content and zip by upstream
// composition ("... LAWRENCEVILLE GA 30045").
var jurisdictionMarker = " " + DefaultState + " "

// Null placeholders left behind by the source exports, upper-cased
var nullPlaceholders = []string{"<NULL>", "<NUL.L>"}

// Decompose splits a composite address into routing components.
// It never fails: unparseable input simply leaves fields empty.
func Decompose(raw string, lex *lexicon.Lexicon) AddressComponents {
	return DecomposeDebug(false, raw, lex)
}

// DecomposeDebug is Decompose with optional per-stage tracing
func DecomposeDebug(localDebug bool, raw string, lex *lexicon.Lexicon) AddressComponents {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	c := AddressComponents{RawInput: raw}
	if strings.TrimSpace(raw) == "" {
		return c
	}

	s := strings.ToUpper(raw)
	debug.DebugOutput(localDebug, "Input: %s", s)

	s = stripJurisdiction(s)
	debug.DebugOutput(localDebug, "After jurisdiction strip: %s", s)

	s = removePlaceholders(s)
	c.CleanAddress = s
	debug.DebugOutput(localDebug, "Clean address: %s", s)

	s = repairHyphen(s)
	debug.DebugOutput(localDebug, "After hyphen repair: %s", s)

	tokens := truncate(s, lex)
	debug.DebugOutput(localDebug, "Tokens: %v", tokens)

	extract(&c, tokens, lex)
	debug.DebugOutput(localDebug, "Components: num=%q pre=%q name=%q type=%q post=%q",
		c.StreetNumber, c.PreDirection, c.StreetName, c.StreetType, c.PostDirection)

	return c
}

// stripJurisdiction drops the state marker and everything after it. When the
// marker occurs more than once the street itself contains it, so only the
// final two tokens (state and zip) are dropped instead.
func stripJurisdiction(s string) string {
	segments := strings.Split(s, jurisdictionMarker)
	if len(segments) > 2 {
		fields := strings.Fields(s)
		return strings.Join(fields[:len(fields)-2], " ")
	}
	return segments[0]
}

func removePlaceholders(s string) string {
	for _, p := range nullPlaceholders {
		s = strings.ReplaceAll(s, p, "")
	}
	return strings.Join(strings.Fields(s), " ")
}

// repairHyphen handles "2430 - 2432 TUCKER DR": a lone hyphen in second
// position is dropped together with the token that follows it.
func repairHyphen(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) < 3 || tokens[1] != hyphenToken {
		return s
	}
	kept := make([]string, 0, len(tokens)-2)
	kept = append(kept, tokens[0])
	kept = append(kept, tokens[3:]...)
	return strings.Join(kept, " ")
}

// truncate removes trailing content that is not part of the base address.
// The first rule that applies wins: comma, hyphen, sub-address marker, then a
// trailing one- or two-token city name.
func truncate(s string, lex *lexicon.Lexicon) []string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.Fields(s[:i])
	}
	if i := strings.IndexByte(s, '-'); i >= 0 {
		return strings.Fields(s[:i])
	}

	tokens := strings.Fields(s)
	for i, t := range tokens {
		if lex.IsSubAddressMarker(t) {
			return tokens[:i]
		}
	}

	n := len(tokens)
	if n >= 1 && lex.IsCity(tokens[n-1]) {
		return tokens[:n-1]
	}
	if n >= 2 && lex.IsCity(strings.Join(tokens[n-2:], " ")) {
		return tokens[:n-2]
	}
	return tokens
}

// extract assigns components by narrowing [lo, hi) over tokens; the slice
// itself is never modified.
func extract(c *AddressComponents, tokens []string, lex *lexicon.Lexicon) {
	lo, hi := 0, len(tokens)

	if lo < hi && isNumeric(tokens[lo]) {
		c.StreetNumber = tokens[lo]
		lo++
	}

	if lo < hi {
		if d := NewDirection(lex, tokens[lo]); d.Recognized {
			c.PreDirection = d
			lo++
		}
	}

	if lo < hi {
		if d := NewDirection(lex, tokens[hi-1]); d.Recognized {
			c.PostDirection = d
			hi--
		}
	}

	rest := tokens[lo:hi]
	if len(rest) == 0 {
		return
	}

	// Highway names keep their route number and never carry a street type.
	if rest[0] == highwayToken {
		c.StreetName = strings.Join(rest[:min(2, len(rest))], " ")
		return
	}

	if t := NewStreetType(lex, rest[len(rest)-1]); t.Recognized {
		c.StreetType = t
		rest = rest[:len(rest)-1]
	}
	c.StreetName = strings.Join(rest, " ")
}

// isNumeric reports whether s is non-empty and made only of digits
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

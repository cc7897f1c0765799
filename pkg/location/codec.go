// Package location converts grid positions to and from the compact,
// bookmarkable location strings published by a presentation ("/", "/2", "/2/1").
//
// Decoding never fails: malformed components decode to 0 and out-of-range
// values are returned as-is for the navigator to clamp.
package location

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/aretw0/lectern/pkg/domain"
)

const (
	// Prefix starts every encoded location.
	Prefix = "/"
	// Separator divides the row and column components.
	Separator = "/"
)

// Encode returns the minimal location for pos. Trailing zero components are
// omitted, so the origin encodes as Prefix alone.
func Encode(pos domain.Position) string {
	var b strings.Builder
	b.WriteString(Prefix)
	if pos.Row == 0 && pos.Column == 0 {
		return b.String()
	}
	b.WriteString(strconv.Itoa(pos.Row))
	if pos.Column != 0 {
		b.WriteString(Separator)
		b.WriteString(strconv.Itoa(pos.Column))
	}
	return b.String()
}

// Decode parses a location string. A leading '#' (raw URL fragment) and the
// prefix are optional. Each component is read like a leading-integer parse:
// surrounding junk is ignored and a component without digits becomes 0.
func Decode(s string) domain.Position {
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(s, Prefix)

	parts := strings.SplitN(s, Separator, 3)
	var pos domain.Position
	if len(parts) > 0 {
		pos.Row = leadingInt(parts[0])
	}
	if len(parts) > 1 {
		pos.Column = leadingInt(parts[1])
	}
	return pos
}

// leadingInt parses optional whitespace, an optional sign and a run of
// decimal digits. Values beyond the int range saturate.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			if neg {
				return math.MinInt
			}
			return math.MaxInt
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}

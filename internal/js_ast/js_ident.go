package js_ast

import "unicode"

// IsIdentifierStart/IsIdentifierContinue follow the ECMAScript IdentifierName
// grammar closely enough for a minifier: full conformance would also need
// the Unicode ID_Start/ID_Continue property tables, which isn't worth the
// binary size here since generated identifiers are always ASCII.
func IsIdentifierStart(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		return true
	case c < 0x80:
		return false
	default:
		return unicode.IsLetter(c)
	}
}

func IsIdentifierContinue(c rune) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	return IsIdentifierStart(c)
}

func IsIdentifier(text string) bool {
	if len(text) == 0 {
		return false
	}
	for i, c := range text {
		if i == 0 {
			if !IsIdentifierStart(c) {
				return false
			}
		} else if !IsIdentifierContinue(c) {
			return false
		}
	}
	return true
}

// NameMinifier draws names from a..z, aa..az, ba.., skipping the sequence
// over any name in a reserved set. It implements the "shortest available
// name" generator of transformer pass 1 (§4.2).
type NameMinifier struct {
	reserved map[string]bool
}

func NewNameMinifier(reserved map[string]bool) *NameMinifier {
	return &NameMinifier{reserved: reserved}
}

const minifierAlphabet = "abcdefghijklmnopqrstuvwxyz"

// NumberToMinifiedName maps 0,1,2,...,25,26,27,... to a,b,...,z,aa,ab,...
// This is the same base-26 "bijective numeration" used by spreadsheet column
// names, chosen because it never needs a leading-zero special case.
func NumberToMinifiedName(i int) string {
	n := len(minifierAlphabet)
	digits := []byte{minifierAlphabet[i%n]}
	i = i / n
	for i > 0 {
		i--
		digits = append([]byte{minifierAlphabet[i%n]}, digits...)
		i = i / n
	}
	return string(digits)
}

// NextAvailable returns the shortest name at or after candidate index start
// that is not in the reserved set, along with the index just past it so the
// caller can resume the search for the next symbol.
func (m *NameMinifier) NextAvailable(start int) (string, int) {
	i := start
	for {
		name := NumberToMinifiedName(i)
		i++
		if !m.reserved[name] {
			return name, i
		}
	}
}

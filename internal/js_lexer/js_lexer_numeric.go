package js_lexer

import (
	"strconv"
	"unicode"
)

func isUnicodeLetter(c rune) bool {
	return unicode.IsLetter(c)
}

// parseFloatLiteral parses the decimal literal text produced by the
// tokenizer above (digits, optional ".", optional exponent) into a double.
func parseFloatLiteral(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

package salary

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount coerces a salary cell to a number. It accepts currency
// symbols, a leading or trailing ISO code ("USD 70000", "70000 EUR"),
// thousands separators and a trailing "k". Any other letter, as in
// "1e5" or "12abc34", makes the cell unparseable. Blank and negative
// cells report false too.
func ParseAmount(s string) (float64, bool) {
	s = trimCurrencyCode(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	mult := 1.0
	if last := s[len(s)-1]; last == 'k' || last == 'K' {
		mult = 1000
		s = s[:len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == '_', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
		default:
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * mult, true
}

// trimCurrencyCode drops one three-letter upper-case code at either end
// of s, provided it stands apart from other letters.
func trimCurrencyCode(s string) string {
	if len(s) >= 3 && isCurrencyCode(s[:3]) && (len(s) == 3 || !isASCIILetter(s[3])) {
		s = strings.TrimSpace(s[3:])
	}
	if n := len(s); n >= 3 && isCurrencyCode(s[n-3:]) && (n == 3 || !isASCIILetter(s[n-4])) {
		s = strings.TrimSpace(s[:n-3])
	}
	return s
}

func isCurrencyCode(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

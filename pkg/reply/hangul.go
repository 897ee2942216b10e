package reply

import "unicode"

// ContainsHangul reports whether s contains at least one Hangul character.
// Only messages for which it holds get a user translation; English input,
// however broken, is never translated.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

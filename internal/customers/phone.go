package customers

import "strings"

// NormalizePhone reduces a phone number to its digits. "(503) 555-0100" and
// "503.555.0100" normalize to the same identity key.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

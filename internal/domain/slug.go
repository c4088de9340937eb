package domain

import "strings"

// Slugify derives a stable identifier from a display name. The same rule is
// used everywhere a name becomes a lookup key (topics, languages, store
// matching), so recurring names always map to the same slug.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

package directory

import (
	"regexp"

	"golang.org/x/text/cases"
)

// emailPattern accepts local@domain.tld where no part contains whitespace
// or another @. Whitespace covers ASCII whitespace with \v, every
// Unicode separator, and the byte order mark.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidEmail reports whether email matches the accepted address grammar.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// fold returns the case-folded form of s used for email uniqueness and
// search. A Caser is not safe for concurrent use, so each call makes one.
func fold(s string) string {
	return cases.Fold().String(s)
}

// sameEmail reports whether two addresses collide under case folding.
// An empty stored address never collides.
func sameEmail(stored, candidate string) bool {
	return stored != "" && fold(stored) == fold(candidate)
}

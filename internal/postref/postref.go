// Package postref classifies an incoming post reference as a canonical UUID
// or a human-readable slug. Canonical ids resolve on either enrichment path;
// slugs only resolve against the raw posts table, because the post_stats view
// is keyed by canonical id.
package postref

import (
	"strings"

	"github.com/google/uuid"
)

// Kind is the classification of a post reference.
type Kind int

const (
	// KindCanonicalID is the opaque, stable UUID form.
	KindCanonicalID Kind = iota
	// KindSlug is anything that is not UUID-shaped.
	KindSlug
)

const canonicalIDLen = 36

// Classify decides whether ref is a canonical id or a slug. Only the dashed
// 36-character form counts as canonical; uuid.Parse also accepts URN and
// undashed variants the store never emits, so length is checked first.
func Classify(ref string) Kind {
	if len(ref) == canonicalIDLen {
		if _, err := uuid.Parse(ref); err == nil {
			return KindCanonicalID
		}
	}
	return KindSlug
}

// NormalizeSlug lowercases and trims a slug reference before lookup. Slugs
// are stored case-normalized, so lookups must match.
func NormalizeSlug(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// ValidSlug reports whether s is a well-formed slug: non-empty, lowercase
// alphanumeric plus '-' and '_'.
func ValidSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

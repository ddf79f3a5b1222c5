// Package textutils extracts structured hints from free-text transaction
// descriptions.
package textutils

import (
	"strings"
	"unicode"

	"fjacquet/statement-csv/internal/models"

	"github.com/cloudflare/ahocorasick"
)

// LocationExtractor finds the place a transaction happened in its
// description. It is safe for concurrent use once built.
type LocationExtractor struct {
	matcher *ahocorasick.Matcher
	aliases []string
	// owner[i] is the canonical name of the first city listing aliases[i].
	owner []string
}

// NewLocationExtractor indexes every alias of every city. Aliases are matched
// case-insensitively; a city without aliases is matched on its own name.
func NewLocationExtractor(cities []models.City) *LocationExtractor {
	e := &LocationExtractor{}
	seen := make(map[string]bool)

	for _, city := range cities {
		canonical := CanonicalCity(city.Name)
		if canonical == "" {
			continue
		}
		aliases := city.Aliases
		if len(aliases) == 0 {
			aliases = []string{city.Name}
		}
		for _, alias := range aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" || seen[alias] {
				continue
			}
			seen[alias] = true
			e.aliases = append(e.aliases, alias)
			e.owner = append(e.owner, canonical)
		}
	}

	if len(e.aliases) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.aliases)
	}
	return e
}

// Extract returns the canonical city named in description. When no known
// city appears, the trailing word that looks like a place name is used.
func (e *LocationExtractor) Extract(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	if city := e.KnownCity(description); city != "" {
		return city
	}
	return TrailingWord(description)
}

// KnownCity returns the canonical name of the longest alias found in
// description, or "". Equal lengths resolve to the earlier alias.
func (e *LocationExtractor) KnownCity(description string) string {
	if e == nil || e.matcher == nil {
		return ""
	}

	hits := e.matcher.MatchThreadSafe([]byte(strings.ToLower(description)))
	best := -1
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.aliases) {
			continue
		}
		if best < 0 || len(e.aliases[idx]) > len(e.aliases[best]) ||
			(len(e.aliases[idx]) == len(e.aliases[best]) && idx < best) {
			best = idx
		}
	}
	if best < 0 {
		return ""
	}
	return e.owner[best]
}

// CanonicalCity upper-cases a city name and removes everything that is not a
// letter or digit, so "New Delhi" becomes "NEWDELHI".
func CanonicalCity(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TrailingWord returns the last word of description that contains a letter,
// with surrounding punctuation removed. Purely numeric words such as
// reference numbers are skipped.
func TrailingWord(description string) string {
	words := strings.Fields(description)
	for i := len(words) - 1; i >= 0; i-- {
		word := strings.TrimFunc(words[i], func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if hasLetter(word) {
			return word
		}
	}
	return ""
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

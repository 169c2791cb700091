package normalization

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Matcher scores the similarity of two strings on a 0-100 scale. It is
// an interface so clustering can be tested without depending on the
// real fuzzy-matching library.
type Matcher interface {
	Similarity(a, b string) int
}

// tokenSetMatcher is the default Matcher: token-set ratio, the same
// metric the reference agent uses, ignoring word order and case.
type tokenSetMatcher struct{}

// Similarity implements Matcher.
func (tokenSetMatcher) Similarity(a, b string) int {
	return fuzzy.TokenSetRatio(strings.ToLower(a), strings.ToLower(b))
}

package normalization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubMatcher lets clustering tests avoid the real fuzzy library: pairs
// listed in same are similar (score 100), everything else is 0.
type stubMatcher struct {
	same map[[2]string]bool
}

func (m stubMatcher) Similarity(a, b string) int {
	if m.same[[2]string{a, b}] || m.same[[2]string{b, a}] {
		return 100
	}
	return 0
}

func newStubAgent(pairs [][2]string) *Agent {
	same := make(map[[2]string]bool, len(pairs))
	for _, p := range pairs {
		same[p] = true
	}
	return &Agent{FacultyThreshold: 80, CourseThreshold: 75, matcher: stubMatcher{same: same}}
}

func TestClusterNamesRejectsSingletons(t *testing.T) {
	agent := newStubAgent(nil)
	suggestions := agent.suggestionsFor([]string{"Dr. Smith", "Dr. Jones"}, 80, EntityFaculty)
	assert.Empty(t, suggestions)
}

func TestClusterNamesGroupsSimilarNames(t *testing.T) {
	agent := newStubAgent([][2]string{{"Dr. Smith", "Smith"}})
	suggestions := agent.suggestionsFor([]string{"Dr. Smith", "Smith", "Dr. Jones"}, 80, EntityFaculty)
	require.Len(t, suggestions, 1)
	assert.ElementsMatch(t, []string{"Dr. Smith", "Smith"}, suggestions[0].DetectedNames)
	assert.Equal(t, "Dr. Smith", suggestions[0].SuggestedCanonical)
	assert.InDelta(t, 0.90, suggestions[0].Confidence, 1e-9)
}

func TestClusterNamesDeduplicatesCaseInsensitively(t *testing.T) {
	agent := newStubAgent(nil)
	suggestions := agent.suggestionsFor([]string{"Dr. Smith", "dr. smith", "Dr. Jones", "dr. jones"}, 80, EntityFaculty)
	assert.Empty(t, suggestions)
}

func TestApplyConfirmationsOnlyRewritesAccepted(t *testing.T) {
	suggestions := []Suggestion{
		{ClusterID: 0, DetectedNames: []string{"DBMS", "Database Systems"}, SuggestedCanonical: "Database Systems"},
		{ClusterID: 1, DetectedNames: []string{"OS", "Operating Systems"}, SuggestedCanonical: "Operating Systems"},
	}
	confirmations := Confirmations{0: "accepted", 1: "rejected"}

	mapping := ApplyConfirmations(suggestions, confirmations)

	assert.Equal(t, "Database Systems", mapping["DBMS"])
	assert.Equal(t, "Database Systems", mapping["Database Systems"])
	_, ok := mapping["OS"]
	assert.False(t, ok, "rejected cluster must not appear in the mapping")
}

// TestApplyConfirmationsSafety is P4: no name is rewritten unless its
// cluster id is explicitly "accepted".
func TestApplyConfirmationsSafety(t *testing.T) {
	suggestions := []Suggestion{
		{ClusterID: 5, DetectedNames: []string{"A", "B"}, SuggestedCanonical: "B"},
	}
	mapping := ApplyConfirmations(suggestions, Confirmations{})
	assert.Empty(t, mapping)
}

// TestFinalizeMappingIdempotent is P3: applying the confirmed mapping
// twice in a row (re-running analyze+apply against the already-mapped
// names) is a no-op the second time around — every name is already its
// own canonical form, so no new clusters form.
func TestFinalizeMappingIdempotent(t *testing.T) {
	agent := newStubAgent([][2]string{{"Dr. Smith", "Smith"}})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result := agent.Analyze([]string{"Dr. Smith", "Smith"}, nil, now)
	confirmations := Confirmations{0: "accepted"}
	first := FinalizeMapping(result, confirmations, Confirmations{}, 1, now)

	applied := make([]string, 0)
	seen := map[string]bool{}
	for _, name := range []string{"Dr. Smith", "Smith"} {
		canonical, ok := first.FacultyMapping[name]
		if !ok {
			canonical = name
		}
		if !seen[canonical] {
			seen[canonical] = true
			applied = append(applied, canonical)
		}
	}
	require.Equal(t, []string{"Dr. Smith"}, applied)

	secondResult := agent.Analyze(applied, nil, now)
	assert.Empty(t, secondResult.FacultySuggestions, "re-analyzing the already-canonical names must not re-cluster them")
}

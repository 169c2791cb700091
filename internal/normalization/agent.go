// Package normalization clusters messy faculty/course name strings by
// fuzzy similarity and turns confirmed clusters into a canonical-name
// mapping. It never rewrites a name on its own — every suggestion sits
// in pending_confirmation until a caller accepts or rejects it.
package normalization

import "time"

// ConfirmationStatus is the lifecycle state of one suggestion.
type ConfirmationStatus string

const (
	StatusPendingConfirmation ConfirmationStatus = "pending_confirmation"
	StatusAccepted            ConfirmationStatus = "accepted"
	StatusRejected            ConfirmationStatus = "rejected"
)

// EntityType distinguishes faculty clusters from course clusters.
type EntityType string

const (
	EntityFaculty EntityType = "faculty"
	EntityCourse  EntityType = "course"
)

// Suggestion is one detected cluster awaiting a human decision.
type Suggestion struct {
	ClusterID          int                `json:"cluster_id"`
	DetectedNames      []string           `json:"detected_names"`
	SuggestedCanonical string             `json:"suggested_canonical"`
	Confidence         float64            `json:"confidence"`
	Status             ConfirmationStatus `json:"status"`
	EntityType         EntityType         `json:"entity_type"`
}

// AnalysisResult is the output of Analyze: suggestions for both entity
// types, all still pending.
type AnalysisResult struct {
	FacultySuggestions []Suggestion `json:"faculty_suggestions"`
	CourseSuggestions  []Suggestion `json:"course_suggestions"`
	AnalysisTimestamp  time.Time    `json:"analysis_timestamp"`
}

// Confirmations maps a cluster id to "accepted" or "rejected". Absent
// ids default to rejected (ApplyConfirmations never rewrites a name it
// was not explicitly told to).
type Confirmations map[int]string

// FinalMapping is the result of confirming an AnalysisResult: for every
// accepted cluster, every detected name maps to the cluster's canonical
// name. Rejected and unmentioned clusters contribute nothing.
type FinalMapping struct {
	FacultyMapping   map[string]string `json:"final_faculty_mapping"`
	CourseMapping    map[string]string `json:"final_course_mapping"`
	AppliedTimestamp time.Time         `json:"applied_timestamp"`
	Version          int               `json:"version"`
}

// Agent clusters and maps names for one entity-threshold pair.
type Agent struct {
	FacultyThreshold int
	CourseThreshold  int
	matcher          Matcher
}

// NewAgent builds an Agent with the given thresholds (0-100) and the
// default token-set-ratio matcher.
func NewAgent(facultyThreshold, courseThreshold int) *Agent {
	return &Agent{
		FacultyThreshold: facultyThreshold,
		CourseThreshold:  courseThreshold,
		matcher:          tokenSetMatcher{},
	}
}

// Analyze clusters facultyNames and courseNames independently and
// returns every non-singleton cluster as a pending suggestion.
func (a *Agent) Analyze(facultyNames, courseNames []string, now time.Time) AnalysisResult {
	return AnalysisResult{
		FacultySuggestions: a.suggestionsFor(facultyNames, a.FacultyThreshold, EntityFaculty),
		CourseSuggestions:  a.suggestionsFor(courseNames, a.CourseThreshold, EntityCourse),
		AnalysisTimestamp:  now,
	}
}

func (a *Agent) suggestionsFor(names []string, threshold int, entityType EntityType) []Suggestion {
	clusters := clusterNames(names, threshold, a.matcher)
	suggestions := make([]Suggestion, 0, len(clusters))
	for id, cluster := range clusters {
		suggestions = append(suggestions, Suggestion{
			ClusterID:          id,
			DetectedNames:      cluster,
			SuggestedCanonical: canonicalName(cluster),
			Confidence:         confidence(cluster),
			Status:             StatusPendingConfirmation,
			EntityType:         entityType,
		})
	}
	return suggestions
}

// ApplyConfirmations builds {original name -> canonical name} from a
// suggestion list and the caller's per-cluster decisions. Accepted
// clusters map every detected name to the canonical name; rejected or
// unmentioned clusters are skipped entirely — their names pass through
// unchanged at the call site, not through this map.
func ApplyConfirmations(suggestions []Suggestion, confirmations Confirmations) map[string]string {
	mapping := make(map[string]string)
	for _, s := range suggestions {
		if confirmations[s.ClusterID] != string(StatusAccepted) {
			continue
		}
		for _, name := range s.DetectedNames {
			mapping[name] = s.SuggestedCanonical
		}
	}
	return mapping
}

// FinalizeMapping runs ApplyConfirmations for both entity types and
// stamps the result with a version number, completing the
// analyze -> confirm -> finalize workflow.
func FinalizeMapping(result AnalysisResult, facultyConfirmations, courseConfirmations Confirmations, version int, now time.Time) FinalMapping {
	return FinalMapping{
		FacultyMapping:   ApplyConfirmations(result.FacultySuggestions, facultyConfirmations),
		CourseMapping:    ApplyConfirmations(result.CourseSuggestions, courseConfirmations),
		AppliedTimestamp: now,
		Version:          version,
	}
}

// Package integrity scores the quality of a parsed-but-not-yet-solved
// dataset: per-entity completeness, duplicate natural keys, and broken
// references from the faculty/course/section mapping into the entity
// tables themselves. It never blocks a caller — the report is advisory,
// and the decision to proceed rests with whoever asked for it.
package integrity

import (
	"fmt"
	"sort"

	"github.com/campusforge/ttcore/internal/domain"
)

// QualityMetrics is the per-entity quality snapshot.
type QualityMetrics struct {
	Entity              string         `json:"entity"`
	TotalRecords        int            `json:"total_records"`
	DuplicatesCount     int            `json:"duplicates_count"`
	MissingFields       map[string]int `json:"missing_fields"`
	OrphanRecords       []string       `json:"orphan_records"`
	CompletenessPercent float64        `json:"completeness_percent"`
	Issues              []string       `json:"issues"`
}

func newMetrics(entity string, total int) QualityMetrics {
	return QualityMetrics{
		Entity:        entity,
		TotalRecords:  total,
		MissingFields: map[string]int{},
		OrphanRecords: []string{},
		Issues:        []string{},
	}
}

// Report is the aggregate result of VerifyAll.
type Report struct {
	IsHealthy    bool                      `json:"is_healthy"`
	OverallScore float64                   `json:"overall_score"`
	Metrics      map[string]QualityMetrics `json:"metrics"`
	Summary      string                    `json:"summary"`
	Issues       []string                  `json:"issues"`
}

// Verifier computes quality reports against a configurable health
// threshold (the teacher's verification config exposes this as
// INTEGRITY_MIN_COMPLETENESS_SCORE).
type Verifier struct {
	MinHealthScore float64
}

// NewVerifier builds a Verifier with the given minimum health score
// (percent, 0-100).
func NewVerifier(minHealthScore float64) *Verifier {
	return &Verifier{MinHealthScore: minHealthScore}
}

// VerifyAll runs every per-entity check plus the faculty/course/section
// referential check on requirements, then aggregates into a Report.
func (v *Verifier) VerifyAll(
	faculty []domain.Faculty,
	courses []domain.Course,
	rooms []domain.Room,
	sections []domain.Section,
	requirements []domain.Requirement,
) Report {
	metrics := map[string]QualityMetrics{
		"faculty":      v.verifyFaculty(faculty),
		"courses":      v.verifyCourses(courses),
		"rooms":        v.verifyRooms(rooms),
		"sections":     v.verifySections(sections),
		"requirements": v.verifyRequirements(requirements, faculty, courses, sections),
	}
	return v.aggregate(metrics)
}

func (v *Verifier) verifyFaculty(faculty []domain.Faculty) QualityMetrics {
	metrics := newMetrics("faculty", len(faculty))
	if len(faculty) == 0 {
		return metrics
	}

	codes := make([]string, 0, len(faculty))
	emptyNames := 0
	for _, f := range faculty {
		codes = append(codes, f.Code)
		if f.Name == "" {
			emptyNames++
		}
	}
	metrics.DuplicatesCount = countDuplicates(codes)
	if emptyNames > 0 {
		metrics.MissingFields["name"] = emptyNames
		metrics.Issues = append(metrics.Issues, fmt.Sprintf("%d faculty with empty names", emptyNames))
	}
	metrics.CompletenessPercent = percent(len(faculty)-emptyNames, len(faculty))
	return metrics
}

func (v *Verifier) verifyCourses(courses []domain.Course) QualityMetrics {
	metrics := newMetrics("courses", len(courses))
	if len(courses) == 0 {
		return metrics
	}

	codes := make([]string, 0, len(courses))
	invalidCredits := 0
	for _, c := range courses {
		codes = append(codes, c.Code)
		if c.Credits <= 0 {
			invalidCredits++
		}
	}
	metrics.DuplicatesCount = countDuplicates(codes)
	if invalidCredits > 0 {
		metrics.MissingFields["credits"] = invalidCredits
		metrics.Issues = append(metrics.Issues, fmt.Sprintf("%d courses with invalid credits", invalidCredits))
	}
	metrics.CompletenessPercent = percent(len(courses)-invalidCredits, len(courses))
	return metrics
}

func (v *Verifier) verifyRooms(rooms []domain.Room) QualityMetrics {
	metrics := newMetrics("rooms", len(rooms))
	if len(rooms) == 0 {
		return metrics
	}

	codes := make([]string, 0, len(rooms))
	invalidCapacity := 0
	for _, r := range rooms {
		codes = append(codes, r.Code)
		if r.Capacity <= 0 {
			invalidCapacity++
		}
	}
	metrics.DuplicatesCount = countDuplicates(codes)
	if invalidCapacity > 0 {
		metrics.MissingFields["capacity"] = invalidCapacity
		metrics.Issues = append(metrics.Issues, fmt.Sprintf("%d rooms with invalid capacity", invalidCapacity))
	}
	metrics.CompletenessPercent = percent(len(rooms)-invalidCapacity, len(rooms))
	return metrics
}

func (v *Verifier) verifySections(sections []domain.Section) QualityMetrics {
	metrics := newMetrics("sections", len(sections))
	if len(sections) == 0 {
		return metrics
	}

	codes := make([]string, 0, len(sections))
	var empty []string
	for _, s := range sections {
		codes = append(codes, s.Code)
		if s.StudentCount == 0 {
			empty = append(empty, s.Code)
		}
	}
	metrics.DuplicatesCount = countDuplicates(codes)
	metrics.OrphanRecords = empty
	if len(empty) > 0 {
		metrics.Issues = append(metrics.Issues, fmt.Sprintf("%d sections with 0 students", len(empty)))
	}
	metrics.CompletenessPercent = percent(len(sections)-len(empty), len(sections))
	return metrics
}

// verifyRequirements checks that every requirement's faculty, course,
// and section ids resolve in their respective tables. Broken
// references are capped at 5, matching the reference verifier's
// truncation so a badly mismatched upload doesn't flood the report.
func (v *Verifier) verifyRequirements(requirements []domain.Requirement, faculty []domain.Faculty, courses []domain.Course, sections []domain.Section) QualityMetrics {
	metrics := newMetrics("requirements", len(requirements))
	if len(requirements) == 0 {
		return metrics
	}

	facultyIDs := make(map[string]bool, len(faculty))
	for _, f := range faculty {
		facultyIDs[f.ID] = true
	}
	courseIDs := make(map[string]bool, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = true
	}
	sectionIDs := make(map[string]bool, len(sections))
	for _, s := range sections {
		sectionIDs[s.ID] = true
	}

	var brokenRefs []string
	for _, r := range requirements {
		if !facultyIDs[r.FacultyID] {
			brokenRefs = append(brokenRefs, "unknown faculty: "+r.FacultyID)
		}
		if !courseIDs[r.CourseID] {
			brokenRefs = append(brokenRefs, "unknown course: "+r.CourseID)
		}
		if !sectionIDs[r.SectionID] {
			brokenRefs = append(brokenRefs, "unknown section: "+r.SectionID)
		}
	}
	if len(brokenRefs) > 5 {
		brokenRefs = brokenRefs[:5]
	}
	metrics.Issues = brokenRefs
	metrics.CompletenessPercent = percent(len(requirements)-len(brokenRefs), len(requirements))
	return metrics
}

func (v *Verifier) aggregate(metrics map[string]QualityMetrics) Report {
	totalIssues := 0
	var completenessSum float64
	for _, m := range metrics {
		totalIssues += len(m.Issues)
		completenessSum += m.CompletenessPercent
	}
	overall := 100.0
	if len(metrics) > 0 {
		overall = completenessSum / float64(len(metrics))
	}

	report := Report{
		OverallScore: overall,
		IsHealthy:    overall >= v.MinHealthScore && totalIssues == 0,
		Metrics:      metrics,
	}

	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.Issues = append(report.Issues, metrics[k].Issues...)
	}

	report.Summary = fmt.Sprintf("Health Score: %.1f/100 | Issues: %d", report.OverallScore, len(report.Issues))
	return report
}

func countDuplicates(keys []string) int {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		counts[k]++
	}
	dup := 0
	for _, n := range counts {
		if n > 1 {
			dup++
		}
	}
	return dup
}

func percent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

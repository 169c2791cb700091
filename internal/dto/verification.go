package dto

import "github.com/campusforge/ttcore/internal/integrity"

// NormalizationSummary is the coarse clustering overview the
// verification endpoint reports alongside the integrity report — just
// enough to flag messy input data without re-running a full analysis.
type NormalizationSummary struct {
	OverallConfidence float64 `json:"overall_confidence"`
	FacultyClusters   int     `json:"faculty_clusters"`
	CourseClusters    int     `json:"course_clusters"`
}

// VerifyResponse is the body of GET /verification/verify.
type VerifyResponse struct {
	Integrity     integrity.Report     `json:"integrity"`
	Normalization NormalizationSummary `json:"normalization"`
}

// VerificationConfigResponse is the body of GET /verification/config.
type VerificationConfigResponse struct {
	MinHealthScore   float64 `json:"min_health_score"`
	FacultyThreshold int     `json:"faculty_similarity_threshold"`
	CourseThreshold  int     `json:"course_similarity_threshold"`
}

package dto

import "github.com/campusforge/ttcore/internal/normalization"

// AnalyzeRequest carries the raw faculty/course name lists a caller
// wants clustered, plus an optional override for the default
// similarity thresholds.
type AnalyzeRequest struct {
	FacultyNames        []string `json:"faculty_names" validate:"omitempty,dive,required"`
	CourseNames         []string `json:"course_names" validate:"omitempty,dive,required"`
	SimilarityThreshold int      `json:"similarity_threshold" validate:"omitempty,min=1,max=100"`
}

// AnalyzeResponse mirrors normalization.AnalysisResult over the wire.
type AnalyzeResponse struct {
	FacultySuggestions []normalization.Suggestion `json:"faculty_suggestions"`
	CourseSuggestions  []normalization.Suggestion `json:"course_suggestions"`
	AnalysisTimestamp  string                     `json:"analysis_timestamp"`
}

// ConfirmationSet is the accepted/rejected verdict per cluster id,
// keyed as a string since JSON object keys are always strings.
type ConfirmationSet map[string]string

// ApplyConfirmationsRequest replays the prior analysis result alongside
// the caller's accept/reject decisions — the confirmation step is
// stateless, so the full analysis must travel with the confirmations.
type ApplyConfirmationsRequest struct {
	AnalysisResponse     AnalyzeResponse `json:"analysis_response" validate:"required"`
	FacultyConfirmations ConfirmationSet `json:"faculty_confirmations"`
	CourseConfirmations  ConfirmationSet `json:"course_confirmations"`
	Version              int             `json:"version" validate:"required,min=1"`
}

// ApplyConfirmationsResponse mirrors normalization.FinalMapping over
// the wire.
type ApplyConfirmationsResponse struct {
	FinalFacultyMapping map[string]string `json:"final_faculty_mapping"`
	FinalCourseMapping  map[string]string `json:"final_course_mapping"`
	AppliedTimestamp    string            `json:"applied_timestamp"`
	Version             int               `json:"version"`
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/campusforge/ttcore/internal/dto"
	"github.com/campusforge/ttcore/internal/metrics"
	"github.com/campusforge/ttcore/internal/normalization"
	appErrors "github.com/campusforge/ttcore/pkg/errors"
	"github.com/campusforge/ttcore/pkg/response"
)

// NormalizationHandler exposes the analyze/apply-confirmations pair.
// The pair is stateless across calls (5.2): apply-confirmations
// receives the full analysis response back as part of its body rather
// than looking one up server-side.
type NormalizationHandler struct {
	validate         *validator.Validate
	metrics          *metrics.Service
	facultyThreshold int
	courseThreshold  int
}

// NewNormalizationHandler constructs the handler. facultyThreshold and
// courseThreshold come from config (NORMALIZATION_FACULTY_THRESHOLD /
// NORMALIZATION_COURSE_THRESHOLD) and apply when a request omits
// similarity_threshold.
func NewNormalizationHandler(validate *validator.Validate, metricsSvc *metrics.Service, facultyThreshold, courseThreshold int) *NormalizationHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &NormalizationHandler{
		validate:         validate,
		metrics:          metricsSvc,
		facultyThreshold: facultyThreshold,
		courseThreshold:  courseThreshold,
	}
}

// Analyze handles POST /normalization/analyze.
func (h *NormalizationHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid analyze payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid analyze payload"))
		return
	}

	facultyThreshold, courseThreshold := h.facultyThreshold, h.courseThreshold
	if req.SimilarityThreshold != 0 {
		facultyThreshold, courseThreshold = req.SimilarityThreshold, req.SimilarityThreshold
	}
	agent := normalization.NewAgent(facultyThreshold, courseThreshold)
	result := agent.Analyze(req.FacultyNames, req.CourseNames, time.Now())
	h.metrics.IncNormalizationClusters("faculty", len(result.FacultySuggestions))
	h.metrics.IncNormalizationClusters("course", len(result.CourseSuggestions))

	response.JSON(c, http.StatusOK, dto.AnalyzeResponse{
		FacultySuggestions: result.FacultySuggestions,
		CourseSuggestions:  result.CourseSuggestions,
		AnalysisTimestamp:  result.AnalysisTimestamp.Format(time.RFC3339),
	}, nil)
}

// ApplyConfirmations handles POST /normalization/apply-confirmations.
func (h *NormalizationHandler) ApplyConfirmations(c *gin.Context) {
	var req dto.ApplyConfirmationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply-confirmations payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid apply-confirmations payload"))
		return
	}

	result := normalization.AnalysisResult{
		FacultySuggestions: req.AnalysisResponse.FacultySuggestions,
		CourseSuggestions:  req.AnalysisResponse.CourseSuggestions,
	}
	facultyConfirmations, err := parseConfirmations(req.FacultyConfirmations)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty_confirmations"))
		return
	}
	courseConfirmations, err := parseConfirmations(req.CourseConfirmations)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course_confirmations"))
		return
	}

	final := normalization.FinalizeMapping(result, facultyConfirmations, courseConfirmations, req.Version, time.Now())

	response.JSON(c, http.StatusOK, dto.ApplyConfirmationsResponse{
		FinalFacultyMapping: final.FacultyMapping,
		FinalCourseMapping:  final.CourseMapping,
		AppliedTimestamp:    final.AppliedTimestamp.Format(time.RFC3339),
		Version:             final.Version,
	}, nil)
}

func parseConfirmations(set dto.ConfirmationSet) (normalization.Confirmations, error) {
	out := make(normalization.Confirmations, len(set))
	for key, status := range set {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, err
		}
		out[id] = status
	}
	return out, nil
}

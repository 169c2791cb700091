package handler

import (
	"time"

	"github.com/campusforge/ttcore/internal/dto"
	"github.com/campusforge/ttcore/internal/normalization"
)

// normalizationSummary runs a clustering pass purely to report a
// coarse health signal alongside the integrity report — it never
// produces confirmable suggestions of its own; callers that need those
// use POST /normalization/analyze directly.
func normalizationSummary(facultyNames, courseNames []string, facultyThreshold, courseThreshold int) dto.NormalizationSummary {
	agent := normalization.NewAgent(facultyThreshold, courseThreshold)
	result := agent.Analyze(facultyNames, courseNames, time.Now())

	clusters := len(result.FacultySuggestions) + len(result.CourseSuggestions)
	if clusters == 0 {
		return dto.NormalizationSummary{OverallConfidence: 1.0}
	}

	var total float64
	for _, s := range result.FacultySuggestions {
		total += s.Confidence
	}
	for _, s := range result.CourseSuggestions {
		total += s.Confidence
	}

	return dto.NormalizationSummary{
		OverallConfidence: total / float64(clusters),
		FacultyClusters:   len(result.FacultySuggestions),
		CourseClusters:    len(result.CourseSuggestions),
	}
}

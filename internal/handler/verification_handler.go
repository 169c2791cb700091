package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/dto"
	"github.com/campusforge/ttcore/internal/integrity"
	"github.com/campusforge/ttcore/pkg/response"
)

// verificationReader supplies the entity listings the verifier needs.
// Narrowed to exactly what GET /verification/verify reads.
type verificationReader interface {
	ListFaculty(ctx context.Context) ([]domain.Faculty, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	ListSections(ctx context.Context) ([]domain.Section, error)
	ListRequirements(ctx context.Context) ([]domain.Requirement, error)
}

// VerificationHandler exposes the integrity report and its thresholds.
type VerificationHandler struct {
	reader  verificationReader
	service *integrity.Service
	config  dto.VerificationConfigResponse
}

// NewVerificationHandler constructs the handler.
func NewVerificationHandler(reader verificationReader, service *integrity.Service, config dto.VerificationConfigResponse) *VerificationHandler {
	return &VerificationHandler{reader: reader, service: service, config: config}
}

// Verify handles GET /verification/verify.
func (h *VerificationHandler) Verify(c *gin.Context) {
	ctx := c.Request.Context()

	faculty, err := h.reader.ListFaculty(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	courses, err := h.reader.ListCourses(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	rooms, err := h.reader.ListRooms(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	sections, err := h.reader.ListSections(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	requirements, err := h.reader.ListRequirements(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	report, err := h.service.Verify(ctx, "latest", faculty, courses, rooms, sections, requirements)
	if err != nil {
		response.Error(c, err)
		return
	}

	facultyNames := make([]string, len(faculty))
	for i, f := range faculty {
		facultyNames[i] = f.Name
	}
	courseNames := make([]string, len(courses))
	for i, course := range courses {
		courseNames[i] = course.Name
	}

	response.JSON(c, http.StatusOK, dto.VerifyResponse{
		Integrity:     report,
		Normalization: normalizationSummary(facultyNames, courseNames, h.config.FacultyThreshold, h.config.CourseThreshold),
	}, nil)
}

// Config handles GET /verification/config.
func (h *VerificationHandler) Config(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.config, nil)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/dto"
	"github.com/campusforge/ttcore/internal/integrity"
)

type stubVerificationReader struct {
	faculty      []domain.Faculty
	courses      []domain.Course
	rooms        []domain.Room
	sections     []domain.Section
	requirements []domain.Requirement
}

func (s stubVerificationReader) ListFaculty(ctx context.Context) ([]domain.Faculty, error) {
	return s.faculty, nil
}

func (s stubVerificationReader) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.courses, nil
}

func (s stubVerificationReader) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms, nil
}

func (s stubVerificationReader) ListSections(ctx context.Context) ([]domain.Section, error) {
	return s.sections, nil
}
func (s stubVerificationReader) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	return s.requirements, nil
}

func TestVerificationHandlerVerifyReturnsHealthyReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := stubVerificationReader{
		faculty:  []domain.Faculty{{ID: "f1", Name: "Dr. Smith"}},
		courses:  []domain.Course{{ID: "c1", Name: "DBMS", Credits: 3, RequiredRoom: "LECTURE"}},
		rooms:    []domain.Room{{ID: "r1", Kind: "LECTURE", Capacity: 40}},
		sections: []domain.Section{{ID: "s1", StudentCount: 30}},
		requirements: []domain.Requirement{
			{ID: "req1", SectionID: "s1", CourseID: "c1", FacultyID: "f1"},
		},
	}
	svc := integrity.NewService(integrity.NewVerifier(50), nil, 0)
	handler := NewVerificationHandler(reader, svc, dto.VerificationConfigResponse{
		MinHealthScore:   50,
		FacultyThreshold: 85,
		CourseThreshold:  85,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/verification/verify", nil)
	c.Request = req

	handler.Verify(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data dto.VerifyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Data.Integrity.IsHealthy)
}

func TestVerificationHandlerConfigReturnsThresholds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewVerificationHandler(stubVerificationReader{}, nil, dto.VerificationConfigResponse{
		MinHealthScore:   70,
		FacultyThreshold: 90,
		CourseThreshold:  80,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/verification/config", nil)
	c.Request = req

	handler.Config(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data dto.VerificationConfigResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 90, resp.Data.FacultyThreshold)
}

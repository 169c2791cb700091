package integrity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/domain"
)

func cleanDataset() ([]domain.Faculty, []domain.Course, []domain.Room, []domain.Section, []domain.Requirement) {
	faculty := []domain.Faculty{{ID: "f1", Code: "F1", Name: "Dr. Smith"}}
	courses := []domain.Course{{ID: "c1", Code: "C1", Name: "DBMS", Credits: 3}}
	rooms := []domain.Room{{ID: "r1", Code: "R1", Capacity: 40, Kind: domain.RoomKindLecture}}
	sections := []domain.Section{{ID: "s1", Code: "S1", StudentCount: 30}}
	requirements := []domain.Requirement{{ID: "req1", FacultyID: "f1", CourseID: "c1", SectionID: "s1"}}
	return faculty, courses, rooms, sections, requirements
}

func TestVerifyAllHealthyDataset(t *testing.T) {
	faculty, courses, rooms, sections, requirements := cleanDataset()
	v := NewVerifier(80)

	report := v.VerifyAll(faculty, courses, rooms, sections, requirements)

	assert.True(t, report.IsHealthy)
	assert.Equal(t, 100.0, report.OverallScore)
	assert.Empty(t, report.Issues)
}

func TestVerifyAllFlagsBrokenReference(t *testing.T) {
	faculty, courses, rooms, sections, _ := cleanDataset()
	requirements := []domain.Requirement{{ID: "req1", FacultyID: "ghost", CourseID: "c1", SectionID: "s1"}}

	v := NewVerifier(80)
	report := v.VerifyAll(faculty, courses, rooms, sections, requirements)

	require.False(t, report.IsHealthy)
	assert.Contains(t, report.Issues, "unknown faculty: ghost")
	assert.Equal(t, 0.0, report.Metrics["requirements"].CompletenessPercent)
}

func TestVerifyAllFlagsDuplicateCodesAndEmptySections(t *testing.T) {
	faculty := []domain.Faculty{
		{ID: "f1", Code: "F1", Name: "Dr. Smith"},
		{ID: "f2", Code: "F1", Name: "Dr. Jones"},
	}
	sections := []domain.Section{
		{ID: "s1", Code: "S1", StudentCount: 0},
	}

	v := NewVerifier(80)
	report := v.VerifyAll(faculty, nil, nil, sections, nil)

	assert.Equal(t, 1, report.Metrics["faculty"].DuplicatesCount)
	assert.Equal(t, []string{"S1"}, report.Metrics["sections"].OrphanRecords)
	assert.False(t, report.IsHealthy)
}

package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRowAcceptsHeaderAliases(t *testing.T) {
	result := ValidateRow(KindFaculty, Row{"faculty_id": "F1", "Name": "Dr. Smith"})
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateRowFlagsMissingMandatoryColumn(t *testing.T) {
	result := ValidateRow(KindCourses, Row{"code": "C1"})
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "name")
}

func TestValidateRowFlagsInvalidCredits(t *testing.T) {
	result := ValidateRow(KindCourses, Row{"code": "C1", "name": "DBMS", "credits": "0"})
	assert.False(t, result.IsValid)
}

func TestValidateRowWarnsOnZeroStudentCount(t *testing.T) {
	result := ValidateRow(KindSections, Row{"id": "S1", "student_count": "0"})
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
}

func TestValidateUploadStopsOnStructuralFailureBeforeReferentialChecks(t *testing.T) {
	u := Upload{
		Faculty: []Row{{"id": "F1", "name": "Dr. Smith"}},
		Courses: []Row{{"code": "C1"}}, // missing name
	}
	result := ValidateUpload(u)
	assert.False(t, result.IsValid)
}

func TestValidateUploadFlagsBrokenMappingReference(t *testing.T) {
	u := Upload{
		Faculty:          []Row{{"id": "F1", "name": "Dr. Smith"}},
		Courses:          []Row{{"code": "C1", "name": "DBMS", "credits": "3"}},
		Rooms:            []Row{{"room_id": "R1", "capacity": "40", "room_type": "LECTURE"}},
		Sections:         []Row{{"id": "S1", "student_count": "30"}},
		FacultyCourseMap: []Row{{"faculty_id": "GHOST", "section_id": "S1", "course_id": "C1"}},
	}
	result := ValidateUpload(u)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "unknown faculty")
}

func TestValidateUploadWarnsOnUnmappedSection(t *testing.T) {
	u := Upload{
		Faculty:          []Row{{"id": "F1", "name": "Dr. Smith"}},
		Courses:          []Row{{"code": "C1", "name": "DBMS", "credits": "3"}},
		Rooms:            []Row{{"room_id": "R1", "capacity": "40", "room_type": "LECTURE"}},
		Sections:         []Row{{"id": "S1", "student_count": "30"}},
		FacultyCourseMap: []Row{},
	}
	result := ValidateUpload(u)
	assert.True(t, result.IsValid)
	found := false
	for _, w := range result.Warnings {
		if w == `section "S1" has no faculty assigned; it will not be scheduled` {
			found = true
		}
	}
	assert.True(t, found)
}

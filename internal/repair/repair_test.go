package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/domain"
)

func twoRoomTwoSlotFixtures() ([]domain.Room, []domain.Timeslot, domain.Course, domain.Section, domain.Requirement, domain.Requirement) {
	rooms := []domain.Room{
		{ID: "r1", Code: "R1", Kind: domain.RoomKindLecture},
		{ID: "r2", Code: "R2", Kind: domain.RoomKindLecture},
	}
	timeslots := []domain.Timeslot{
		{ID: "s1", Day: 0, Start: "09:00", End: "10:00"},
		{ID: "s2", Day: 0, Start: "10:00", End: "11:00"},
	}
	course := domain.Course{ID: "c1", Kind: domain.CourseKindLecture, Credits: 1, RequiredRoom: domain.RoomKindLecture}
	section := domain.Section{ID: "sec1", Code: "SEC1", Shift: domain.ShiftOpen}
	reqA1 := domain.Requirement{ID: "req1", SectionID: "sec1", CourseID: "c1", FacultyID: "fac1"}
	reqA2 := domain.Requirement{ID: "req2", SectionID: "sec2", CourseID: "c1", FacultyID: "fac2"}
	return rooms, timeslots, course, section, reqA1, reqA2
}

// TestRepairMovesProblemKeepsLocked mirrors the reference engine's
// "move one, keep one" scenario: A1 is a problem sitting at (R1, S1)
// and must move; A2 is locked at (R1, S2) and must not.
func TestRepairMovesProblemKeepsLocked(t *testing.T) {
	rooms, timeslots, course, _, reqA1, reqA2 := twoRoomTwoSlotFixtures()
	section2 := domain.Section{ID: "sec2", Code: "SEC2", Shift: domain.ShiftOpen}

	assignments := []domain.ScheduledAssignment{
		{ID: "a1", RequirementID: reqA1.ID, PeriodIndex: 0, RoomID: "r1", SlotID: "s1"},
		{ID: "a2", RequirementID: reqA2.ID, PeriodIndex: 0, RoomID: "r1", SlotID: "s2"},
	}

	in := Input{
		Assignments: assignments,
		ProblemIDs:  []string{"a1"},
		LockedIDs:   []string{"a2"},
		Requirements: map[string]domain.Requirement{
			reqA1.ID: reqA1,
			reqA2.ID: reqA2,
		},
		Courses:   map[string]domain.Course{course.ID: course},
		Sections:  map[string]domain.Section{"sec1": {ID: "sec1", Code: "SEC1", Shift: domain.ShiftOpen}, "sec2": section2},
		Rooms:     rooms,
		Timeslots: timeslots,
	}

	result := Repair(in)
	require.True(t, result.Success, result.Reason)

	var a1, a2 domain.ScheduledAssignment
	for _, a := range result.Assignments {
		switch a.ID {
		case "a1":
			a1 = a
		case "a2":
			a2 = a
		}
	}

	assert.Equal(t, "r1", a2.RoomID)
	assert.Equal(t, "s2", a2.SlotID)

	assert.NotEqual(t, [2]string{"r1", "s1"}, [2]string{a1.RoomID, a1.SlotID})
}

// TestRepairImpossibleFailsGracefully mirrors the reference engine's
// single-room single-slot case: the problem assignment has nowhere
// else to go, so repair must report failure and leave the caller free
// to discard the result.
func TestRepairImpossibleFailsGracefully(t *testing.T) {
	rooms := []domain.Room{{ID: "r1", Code: "R1", Kind: domain.RoomKindLecture}}
	timeslots := []domain.Timeslot{{ID: "s1", Day: 0, Start: "09:00", End: "10:00"}}
	course := domain.Course{ID: "c1", Kind: domain.CourseKindLecture, Credits: 1, RequiredRoom: domain.RoomKindLecture}
	section := domain.Section{ID: "sec1", Code: "SEC1", Shift: domain.ShiftOpen}
	req := domain.Requirement{ID: "req1", SectionID: "sec1", CourseID: "c1", FacultyID: "fac1"}

	assignments := []domain.ScheduledAssignment{
		{ID: "a1", RequirementID: req.ID, PeriodIndex: 0, RoomID: "r1", SlotID: "s1"},
	}

	in := Input{
		Assignments:  assignments,
		ProblemIDs:   []string{"a1"},
		LockedIDs:    nil,
		Requirements: map[string]domain.Requirement{req.ID: req},
		Courses:      map[string]domain.Course{course.ID: course},
		Sections:     map[string]domain.Section{section.ID: section},
		Rooms:        rooms,
		Timeslots:    timeslots,
	}

	result := Repair(in)
	assert.False(t, result.Success)
	assert.Contains(t, result.Reason, "repair failed")
}

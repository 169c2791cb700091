// Package orchestrator expands domain entities into solver variables,
// invokes the solver, and writes an immutable versioned snapshot. It
// owns the one thing the solver deliberately knows nothing about:
// turning a Section's shift into a concrete allowed-slot domain.
package orchestrator

import (
	"sort"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/solver"
)

const (
	shift8To4Start  = "08:00"
	shift8To4End    = "16:00"
	shift8To4Lunch  = "12:00"
	shift10To6Start = "10:00"
	shift10To6End   = "18:00"
	shift10To6Lunch = "13:00"
)

// AllowedSlotIDs computes the slot domain for a section's shift: a
// start/end envelope, lunch-slot exclusion, and weekday-only filtering
// (day in [0,4]). Slots are returned in ascending-id order of the input
// slice, which callers must already provide sorted for determinism.
func AllowedSlotIDs(shift domain.Shift, timeslots []domain.Timeslot) []string {
	effective := shift
	if effective == domain.ShiftUnset {
		effective = domain.ShiftOpen
	}

	var allowed []string
	for _, t := range timeslots {
		if t.Day < 0 || t.Day > 4 {
			continue
		}
		switch effective {
		case domain.Shift8to4:
			if t.Start < shift8To4Start || t.End > shift8To4End {
				continue
			}
			if t.Start == shift8To4Lunch {
				continue
			}
		case domain.Shift10to6:
			if t.Start < shift10To6Start || t.End > shift10To6End {
				continue
			}
			if t.Start == shift10To6Lunch {
				continue
			}
		case domain.ShiftOpen:
			// all weekday slots
		}
		allowed = append(allowed, t.ID)
	}
	return allowed
}

// ExpandRequirement turns a Requirement plus its course/section into a
// solver.Requirement: period count and lab flag come from the course,
// the allowed-slot domain comes from the section's shift.
func ExpandRequirement(req domain.Requirement, course domain.Course, section domain.Section, timeslots []domain.Timeslot, fixed []solver.FixedAssignment) solver.Requirement {
	return solver.Requirement{
		ID:               req.ID,
		GroupID:          section.ID,
		FacultyID:        req.FacultyID,
		RequiredRoomKind: course.RequiredRoom,
		RequiredPeriods:  course.Periods(),
		AllowedSlotIDs:   AllowedSlotIDs(section.EffectiveShift(), timeslots),
		IsLab:            course.IsLab(),
		FixedAssignments: fixed,
	}
}

// SortedTimeslots returns timeslots ordered by ascending id, the order
// determinism (P1) requires callers to feed the solver.
func SortedTimeslots(timeslots []domain.Timeslot) []domain.Timeslot {
	out := make([]domain.Timeslot, len(timeslots))
	copy(out, timeslots)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedRooms returns rooms ordered by ascending id.
func SortedRooms(rooms []domain.Room) []domain.Room {
	out := make([]domain.Room, len(rooms))
	copy(out, rooms)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedRequirements returns requirements ordered by ascending id.
func SortedRequirements(reqs []domain.Requirement) []domain.Requirement {
	out := make([]domain.Requirement, len(reqs))
	copy(out, reqs)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Package repair implements local re-solving of a subset of an existing
// timetable: a caller names assignments that must move (problem) and
// assignments that must not (locked), and the engine produces a new
// placement for every problem assignment while leaving locked ones
// untouched. It is a thin, repeat invocation of the same constraint
// solver used for full and partial regeneration, scoped to single
// periods rather than whole requirements.
package repair

import (
	"sort"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/orchestrator"
	"github.com/campusforge/ttcore/internal/solver"
)

// Input bundles the current schedule state and the caller's move/keep
// instructions. Every assignment id present in Assignments must appear
// in exactly one of ProblemIDs or LockedIDs; any id this engine cannot
// account for is treated as locked, since leaving it unmentioned is
// never grounds to move it.
type Input struct {
	Assignments  []domain.ScheduledAssignment
	ProblemIDs   []string
	LockedIDs    []string
	Requirements map[string]domain.Requirement
	Courses      map[string]domain.Course
	Sections     map[string]domain.Section
	Rooms        []domain.Room
	Timeslots    []domain.Timeslot
	// Backend overrides the solver used for the local re-solve. Nil
	// defaults to solver.PrimarySolver{}.
	Backend solver.Solver
}

// Result reports whether repair succeeded. On success, Assignments
// holds the complete new set: locked entries unchanged, problem
// entries carrying their new (room, slot).
type Result struct {
	Success     bool
	Reason      string
	Assignments []domain.ScheduledAssignment
}

// Repair builds a single-period solver model for the affected
// assignments — locked ones pinned via FixedAssignments, problem ones
// free but forbidden from their current slot — and re-solves. Room,
// faculty and cohort exclusivity, room kind, and the shift/lunch slot
// domain are checked as in the regular solver. Each assignment is
// re-solved as an independent single-period, non-lab requirement, so
// lab consecutiveness (I5) and the per-day lecture cap (I8) across the
// periods of one requirement are not checked. Locked assignments
// retain their exact (room, slot) by construction, and problem
// assignments are guaranteed a different slot since their current one
// is excluded from the candidate domain.
func Repair(in Input) Result {
	problemSet := make(map[string]bool, len(in.ProblemIDs))
	for _, id := range in.ProblemIDs {
		problemSet[id] = true
	}

	rooms := make([]domain.Room, len(in.Rooms))
	copy(rooms, in.Rooms)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	solverRooms := make([]solver.Room, len(rooms))
	for i, r := range rooms {
		solverRooms[i] = solver.Room{ID: r.ID, Kind: r.Kind}
	}

	timeslots := orchestrator.SortedTimeslots(in.Timeslots)
	solverTimeslots := make([]solver.Timeslot, len(timeslots))
	for i, t := range timeslots {
		solverTimeslots[i] = solver.Timeslot{ID: t.ID, Day: t.Day, Start: t.Start, End: t.End}
	}

	assignments := make([]domain.ScheduledAssignment, len(in.Assignments))
	copy(assignments, in.Assignments)
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })

	requirements := make([]solver.Requirement, 0, len(assignments))
	for _, a := range assignments {
		req, ok := in.Requirements[a.RequirementID]
		if !ok {
			return Result{Success: false, Reason: "repair failed: assignment " + a.ID + " references an unknown requirement"}
		}
		course := in.Courses[req.CourseID]
		section := in.Sections[req.SectionID]

		domainSlots := orchestrator.AllowedSlotIDs(section.EffectiveShift(), timeslots)

		solverReq := solver.Requirement{
			ID:               a.ID,
			GroupID:          section.ID,
			FacultyID:        req.FacultyID,
			RequiredRoomKind: course.RequiredRoom,
			RequiredPeriods:  1,
			IsLab:            false,
		}

		if problemSet[a.ID] {
			solverReq.AllowedSlotIDs = excludeSlot(domainSlots, a.SlotID)
		} else {
			solverReq.AllowedSlotIDs = domainSlots
			solverReq.FixedAssignments = []solver.FixedAssignment{{RoomID: a.RoomID, SlotID: a.SlotID}}
		}
		requirements = append(requirements, solverReq)
	}

	model := solver.Model{Requirements: requirements, Rooms: solverRooms, Timeslots: solverTimeslots}

	backend := in.Backend
	if backend == nil {
		backend = solver.PrimarySolver{}
	}
	result := backend.Solve(model)
	if !result.Feasible {
		return Result{Success: false, Reason: "repair failed: " + result.Reason}
	}

	placementByAssignment := make(map[string]solver.Placement, len(result.Placements))
	for _, p := range result.Placements {
		placementByAssignment[p.RequirementID] = p
	}

	out := make([]domain.ScheduledAssignment, len(assignments))
	for i, a := range assignments {
		p, ok := placementByAssignment[a.ID]
		if !ok {
			return Result{Success: false, Reason: "repair failed: solver produced no placement for assignment " + a.ID}
		}
		updated := a
		updated.RoomID = p.RoomID
		updated.SlotID = p.SlotID
		out[i] = updated
	}

	return Result{Success: true, Assignments: out}
}

func excludeSlot(slotIDs []string, forbidden string) []string {
	out := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		if id != forbidden {
			out = append(out, id)
		}
	}
	return out
}

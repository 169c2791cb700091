package solver

import (
	"sort"
	"strconv"
)

// PrimarySolver is the default backend: constraint-propagation-flavored
// backtracking over requirements in their given (ascending-id, stable)
// order. It is a from-scratch Go reimplementation of the boolean
// placement-variable model described for the constraint solver
// component — variables are pruned to the legal (room,slot) domain up
// front exactly as the model's "all other combinations do not exist"
// rule specifies, then a single deterministic search commits one
// variable at a time.
type PrimarySolver struct{}

// Solve implements Solver.
func (PrimarySolver) Solve(model Model) Result {
	order := make([]int, len(model.Requirements))
	for i := range order {
		order[i] = i
	}
	return runBacktracking(model, order)
}

// FallbackSolver is a pure backtracking backend ported from the
// reference implementation's debug solver: requirements are ordered by
// descending required-period count (harder first), then ascending id.
// It must satisfy the identical constraint set as PrimarySolver; only
// the search order differs.
type FallbackSolver struct{}

// Solve implements Solver.
func (FallbackSolver) Solve(model Model) Result {
	order := make([]int, len(model.Requirements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := model.Requirements[order[i]], model.Requirements[order[j]]
		if a.RequiredPeriods != b.RequiredPeriods {
			return a.RequiredPeriods > b.RequiredPeriods
		}
		return a.ID < b.ID
	})
	return runBacktracking(model, order)
}

// search bundles the state threaded through the recursive backtracking
// functions so none of them need a long, error-prone parameter list.
type search struct {
	model       Model
	order       []int
	si          slotIndex
	cs          *conflictState
	roomsByKind map[string][]Room
	dailyCap    int
	placements  []Placement
}

// runBacktracking drives both backends. order lists indexes into
// model.Requirements in search order. Room and slot candidates are
// always walked in the order they appear in model.Rooms and the
// requirement's AllowedSlotIDs, which callers must supply in ascending
// id order for P1 (determinism) to hold.
func runBacktracking(model Model, order []int) Result {
	si := buildSlotIndex(model.Timeslots)
	cs := newConflictState()
	dailyCap := model.dailyCap()

	roomsByKind := make(map[string][]Room)
	for _, r := range model.Rooms {
		roomsByKind[string(r.Kind)] = append(roomsByKind[string(r.Kind)], r)
	}

	// Pre-check: detect requirements with an empty domain, or fixed
	// assignments outside the allowed domain, before the search starts.
	// Diagnostics name the *first* such requirement in the caller's
	// original order, not the search order.
	var infeasibleReason string
	for _, req := range model.Requirements {
		candidateRooms := roomsByKind[string(req.RequiredRoomKind)]
		for p := 0; p < req.RequiredPeriods; p++ {
			if p < len(req.FixedAssignments) && req.FixedAssignments[p].RoomID != "" {
				fa := req.FixedAssignments[p]
				if !slotAllowed(req, fa.SlotID) || !roomMatches(candidateRooms, fa.RoomID) {
					return Result{
						Feasible: false,
						Status:   StatusInfeasibleFixed,
						Reason:   "fixed assignment for requirement " + req.ID + " is outside its allowed slot/room domain",
					}
				}
				continue
			}
			if len(candidateRooms) == 0 || len(req.AllowedSlotIDs) == 0 {
				if infeasibleReason == "" {
					infeasibleReason = "requirement " + req.ID + " (period " + strconv.Itoa(p) + ") has no valid candidates"
				}
			}
		}
	}
	if infeasibleReason != "" {
		return Result{Feasible: false, Status: StatusInfeasibleNoCandidates, Reason: infeasibleReason}
	}

	s := &search{model: model, order: order, si: si, cs: cs, roomsByKind: roomsByKind, dailyCap: dailyCap}

	// Commit fixed assignments into the conflict state before searching
	// so free requirements can never collide with them.
	for _, req := range model.Requirements {
		for p, fa := range req.FixedAssignments {
			if fa.RoomID == "" {
				continue
			}
			day := si.byID[fa.SlotID].Day
			if !cs.canPlace(req, fa.RoomID, fa.SlotID, day, dailyCap) {
				return Result{
					Feasible: false,
					Status:   StatusInfeasibleFixed,
					Reason:   "fixed assignment for requirement " + req.ID + " conflicts with another fixed assignment",
				}
			}
			cs.place(req, fa.RoomID, fa.SlotID, day)
			s.placements = append(s.placements, Placement{RequirementID: req.ID, PeriodIndex: p, RoomID: fa.RoomID, SlotID: fa.SlotID})
		}
	}

	if !s.backtrack(0) {
		return Result{Feasible: false, Status: StatusInfeasible, Reason: "no assignment satisfies all constraints"}
	}

	placements := s.placements
	sort.Slice(placements, func(i, j int) bool {
		if placements[i].RequirementID != placements[j].RequirementID {
			return placements[i].RequirementID < placements[j].RequirementID
		}
		return placements[i].PeriodIndex < placements[j].PeriodIndex
	})

	return Result{Feasible: true, Status: StatusOptimal, Placements: placements}
}

func slotAllowed(req Requirement, slotID string) bool {
	for _, id := range req.AllowedSlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

func roomMatches(rooms []Room, roomID string) bool {
	for _, r := range rooms {
		if r.ID == roomID {
			return true
		}
	}
	return false
}

// backtrack places requirement s.order[idx] and recurses. Fixed periods
// were already committed before the search began, so only free periods
// reach here.
func (s *search) backtrack(idx int) bool {
	if idx == len(s.order) {
		return true
	}
	req := s.model.Requirements[s.order[idx]]
	rooms := s.roomsByKind[string(req.RequiredRoomKind)]

	if allFixed(req) {
		return s.backtrack(idx + 1)
	}

	if req.IsLab && req.RequiredPeriods == 2 && len(req.FixedAssignments) == 0 {
		return s.placeLabPair(idx, req, rooms)
	}

	return s.placeSequential(idx, req, 0, rooms)
}

func allFixed(req Requirement) bool {
	if len(req.FixedAssignments) < req.RequiredPeriods {
		return false
	}
	for p := 0; p < req.RequiredPeriods; p++ {
		if req.FixedAssignments[p].RoomID == "" {
			return false
		}
	}
	return true
}

func (s *search) placeLabPair(idx int, req Requirement, rooms []Room) bool {
	for _, room := range rooms {
		for _, slotID := range req.AllowedSlotIDs {
			nextID, hasNext := s.si.next(slotID)
			if !hasNext || !slotAllowed(req, nextID) {
				continue
			}
			day0 := s.si.byID[slotID].Day
			day1 := s.si.byID[nextID].Day
			if !s.cs.canPlace(req, room.ID, slotID, day0, s.dailyCap) {
				continue
			}
			if !s.cs.canPlace(req, room.ID, nextID, day1, s.dailyCap) {
				continue
			}
			// Commit both periods atomically (C5: consecutive labs
			// are a single placement decision with an implied second
			// slot).
			s.cs.place(req, room.ID, slotID, day0)
			s.cs.place(req, room.ID, nextID, day1)
			s.placements = append(s.placements,
				Placement{RequirementID: req.ID, PeriodIndex: 0, RoomID: room.ID, SlotID: slotID},
				Placement{RequirementID: req.ID, PeriodIndex: 1, RoomID: room.ID, SlotID: nextID},
			)

			if s.backtrack(idx + 1) {
				return true
			}

			s.placements = s.placements[:len(s.placements)-2]
			s.cs.unplace(req, room.ID, slotID, day0)
			s.cs.unplace(req, room.ID, nextID, day1)
		}
	}
	return false
}

func (s *search) placeSequential(idx int, req Requirement, p int, rooms []Room) bool {
	if p >= req.RequiredPeriods {
		return s.backtrack(idx + 1)
	}
	if p < len(req.FixedAssignments) && req.FixedAssignments[p].RoomID != "" {
		return s.placeSequential(idx, req, p+1, rooms)
	}

	for _, room := range rooms {
		for _, slotID := range req.AllowedSlotIDs {
			day := s.si.byID[slotID].Day
			if !s.cs.canPlace(req, room.ID, slotID, day, s.dailyCap) {
				continue
			}
			s.cs.place(req, room.ID, slotID, day)
			s.placements = append(s.placements, Placement{RequirementID: req.ID, PeriodIndex: p, RoomID: room.ID, SlotID: slotID})

			if s.placeSequential(idx, req, p+1, rooms) {
				return true
			}

			s.placements = s.placements[:len(s.placements)-1]
			s.cs.unplace(req, room.ID, slotID, day)
		}
	}
	return false
}

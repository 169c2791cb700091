package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/repair"
	"github.com/campusforge/ttcore/internal/repository"
	"github.com/campusforge/ttcore/internal/solver"
)

func newRepairCmd() *cobra.Command {
	var problemIDs, lockedIDs []string

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Re-solve a named subset of an existing timetable in place",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(problemIDs) == 0 {
				return fmt.Errorf("--problem must name at least one assignment id")
			}

			e, err := newEnv()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := context.Background()
			assignmentRepo := repository.NewAssignmentRepository(e.db)

			assignments, err := assignmentRepo.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("load assignments: %w", err)
			}
			requirements, err := e.reader.ListRequirements(ctx)
			if err != nil {
				return fmt.Errorf("load requirements: %w", err)
			}
			courses, err := e.reader.ListCourses(ctx)
			if err != nil {
				return fmt.Errorf("load courses: %w", err)
			}
			sections, err := e.reader.ListSections(ctx)
			if err != nil {
				return fmt.Errorf("load sections: %w", err)
			}
			rooms, err := e.reader.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("load rooms: %w", err)
			}
			timeslots, err := e.reader.ListTimeslots(ctx)
			if err != nil {
				return fmt.Errorf("load timeslots: %w", err)
			}

			var backend solver.Solver = solver.PrimarySolver{}
			if e.cfg.Solver.WallClockTimeout > 0 {
				backend = solver.TimeBounded{Inner: backend, Timeout: e.cfg.Solver.WallClockTimeout}
			}

			in := repair.Input{
				Assignments:  filterAssignments(assignments, problemIDs, lockedIDs),
				ProblemIDs:   problemIDs,
				LockedIDs:    lockedIDs,
				Requirements: indexRequirements(requirements),
				Courses:      indexCourses(courses),
				Sections:     indexSections(sections),
				Rooms:        rooms,
				Timeslots:    timeslots,
				Backend:      backend,
			}

			result := repair.Repair(in)
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("repair failed: %s", result.Reason)
			}

			tx, err := e.db.BeginTxx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin repair transaction: %w", err)
			}
			for _, a := range result.Assignments {
				if err := assignmentRepo.UpdatePlacement(ctx, tx, a.ID, a.RoomID, a.SlotID); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("persist repaired placement: %w", err)
				}
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit repair transaction: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&problemIDs, "problem", nil, "assignment ids that must move to a new (room, slot)")
	cmd.Flags().StringSliceVar(&lockedIDs, "locked", nil, "assignment ids that must keep their exact (room, slot)")
	return cmd
}

// filterAssignments keeps only the assignments the caller named,
// matching repair.Input's contract that every id present belongs to
// exactly one of ProblemIDs or LockedIDs.
func filterAssignments(all []domain.ScheduledAssignment, problemIDs, lockedIDs []string) []domain.ScheduledAssignment {
	wanted := make(map[string]bool, len(problemIDs)+len(lockedIDs))
	for _, id := range problemIDs {
		wanted[id] = true
	}
	for _, id := range lockedIDs {
		wanted[id] = true
	}
	out := make([]domain.ScheduledAssignment, 0, len(wanted))
	for _, a := range all {
		if wanted[a.ID] {
			out = append(out, a)
		}
	}
	return out
}

func indexRequirements(reqs []domain.Requirement) map[string]domain.Requirement {
	out := make(map[string]domain.Requirement, len(reqs))
	for _, r := range reqs {
		out[r.ID] = r
	}
	return out
}

func indexCourses(courses []domain.Course) map[string]domain.Course {
	out := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}

func indexSections(sections []domain.Section) map[string]domain.Section {
	out := make(map[string]domain.Section, len(sections))
	for _, s := range sections {
		out[s.ID] = s
	}
	return out
}

package orchestrator

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/metrics"
	"github.com/campusforge/ttcore/internal/solver"
	appErrors "github.com/campusforge/ttcore/pkg/errors"
)

// entityReader is the read-side dependency surface: the orchestrator
// only ever needs full listings, never filtered queries, since it
// always expands the whole working set (or, for partial regeneration,
// splits it in memory).
type entityReader interface {
	ListFaculty(ctx context.Context) ([]domain.Faculty, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	ListSections(ctx context.Context) ([]domain.Section, error)
	ListTimeslots(ctx context.Context) ([]domain.Timeslot, error)
	ListRequirements(ctx context.Context) ([]domain.Requirement, error)
}

// assignmentStore persists ScheduledAssignments transactionally. exec
// is a *sqlx.Tx in production, letting delete+insert+snapshot share one
// transaction (P6), the same sqlx.ExtContext pattern the teacher's
// ScheduleRepository.BulkCreateWithTx uses.
type assignmentStore interface {
	DeleteByRequirementIDs(ctx context.Context, exec sqlx.ExtContext, requirementIDs []string) error
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
	BulkInsert(ctx context.Context, exec sqlx.ExtContext, assignments []domain.ScheduledAssignment) error
	ListByRequirementIDs(ctx context.Context, requirementIDs []string) ([]domain.ScheduledAssignment, error)
	ListAll(ctx context.Context) ([]domain.ScheduledAssignment, error)
}

// versionStore persists the append-only TimetableVersion snapshot.
type versionStore interface {
	NextVersionNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, version *domain.TimetableVersion) error
}

// Transactor begins a transaction the orchestrator commits or rolls
// back itself, mirroring the teacher's txProvider interface.
type Transactor interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Service expands entities into solver variables, invokes the solver,
// and writes an immutable versioned snapshot. Concurrent orchestration
// calls are not supported by the domain (spec's concurrency model) —
// mu serializes them the way the spec's single-mutex note prescribes.
type Service struct {
	reader          entityReader
	assignments     assignmentStore
	versions        versionStore
	tx              Transactor
	solver          solver.Solver
	fallback        solver.Solver
	fallbackEnabled bool
	maxDailyCap     int
	metrics         *metrics.Service
	logger          *zap.Logger
	mu              sync.Mutex
}

// Config governs solver selection and fallback behaviour.
type Config struct {
	Primary         solver.Solver
	Fallback        solver.Solver
	FallbackEnabled bool
	MaxDailyCap     int // per-requirement daily lecture-period cap (I8); 0 uses the solver's default of 2
	Metrics         *metrics.Service
}

// NewService wires orchestrator dependencies.
func NewService(reader entityReader, assignments assignmentStore, versions versionStore, tx Transactor, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	primary := cfg.Primary
	if primary == nil {
		primary = solver.PrimarySolver{}
	}
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = solver.FallbackSolver{}
	}
	return &Service{
		reader:          reader,
		assignments:     assignments,
		versions:        versions,
		tx:              tx,
		solver:          primary,
		fallback:        fallback,
		fallbackEnabled: cfg.FallbackEnabled,
		maxDailyCap:     cfg.MaxDailyCap,
		metrics:         cfg.Metrics,
		logger:          logger,
	}
}

// solve runs the primary backend and, if it fails to find a feasible
// placement and a fallback is enabled, retries with the fallback
// backend. A timeout from the primary is retried too: the fallback's
// different search order can still finish inside its own run. Fixed or
// no-candidate infeasibility is structural and not retried, since both
// backends would reject the same model for the same reason.
func (s *Service) solve(model solver.Model) solver.Result {
	start := time.Now()
	result := s.solver.Solve(model)
	s.metrics.ObserveSolve("primary", string(result.Status), time.Since(start).Seconds())
	if result.Feasible || !s.fallbackEnabled {
		return result
	}
	switch result.Status {
	case solver.StatusInfeasibleFixed, solver.StatusInfeasibleNoCandidates:
		return result
	}
	s.logger.Warn("primary solver failed, retrying with fallback backend",
		zap.String("status", string(result.Status)), zap.String("reason", result.Reason))
	start = time.Now()
	result = s.fallback.Solve(model)
	s.metrics.ObserveSolve("fallback", string(result.Status), time.Since(start).Seconds())
	return result
}

// workingSet is the in-memory arena built from one full entity listing.
type workingSet struct {
	facultyByID      map[string]domain.Faculty
	coursesByID      map[string]domain.Course
	roomsByID        map[string]domain.Room
	sectionsByID     map[string]domain.Section
	timeslots        []domain.Timeslot
	requirements     []domain.Requirement
	requirementsByID map[string]domain.Requirement
}

func (s *Service) loadWorkingSet(ctx context.Context) (*workingSet, error) {
	faculty, err := s.reader.ListFaculty(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	courses, err := s.reader.ListCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	rooms, err := s.reader.ListRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	sections, err := s.reader.ListSections(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	timeslots, err := s.reader.ListTimeslots(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}
	requirements, err := s.reader.ListRequirements(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requirements")
	}

	ws := &workingSet{
		facultyByID:      make(map[string]domain.Faculty, len(faculty)),
		coursesByID:      make(map[string]domain.Course, len(courses)),
		roomsByID:        make(map[string]domain.Room, len(rooms)),
		sectionsByID:     make(map[string]domain.Section, len(sections)),
		timeslots:        SortedTimeslots(timeslots),
		requirements:     SortedRequirements(requirements),
		requirementsByID: make(map[string]domain.Requirement, len(requirements)),
	}
	for _, f := range faculty {
		ws.facultyByID[f.ID] = f
	}
	for _, c := range courses {
		ws.coursesByID[c.ID] = c
	}
	for _, r := range rooms {
		ws.roomsByID[r.ID] = r
	}
	for _, sec := range sections {
		ws.sectionsByID[sec.ID] = sec
	}
	for _, r := range ws.requirements {
		ws.requirementsByID[r.ID] = r
	}
	return ws, nil
}

func (ws *workingSet) solverRooms() []solver.Room {
	rooms := make([]domain.Room, 0, len(ws.roomsByID))
	for _, r := range ws.roomsByID {
		rooms = append(rooms, r)
	}
	sorted := SortedRooms(rooms)
	out := make([]solver.Room, len(sorted))
	for i, r := range sorted {
		out[i] = solver.Room{ID: r.ID, Kind: r.Kind}
	}
	return out
}

func (ws *workingSet) solverTimeslots() []solver.Timeslot {
	out := make([]solver.Timeslot, len(ws.timeslots))
	for i, t := range ws.timeslots {
		out[i] = solver.Timeslot{ID: t.ID, Day: t.Day, Start: t.Start, End: t.End}
	}
	return out
}

func (ws *workingSet) snapshotContext() snapshotContext {
	return snapshotContext{
		requirements: ws.requirementsByID,
		sections:     ws.sectionsByID,
		courses:      ws.coursesByID,
		faculty:      ws.facultyByID,
		rooms:        ws.roomsByID,
		timeslots:    indexTimeslots(ws.timeslots),
	}
}

func indexTimeslots(timeslots []domain.Timeslot) map[string]domain.Timeslot {
	out := make(map[string]domain.Timeslot, len(timeslots))
	for _, t := range timeslots {
		out[t.ID] = t
	}
	return out
}

// GenerateFull deletes all existing ScheduledAssignments, solves from
// scratch, and inserts the fresh set inside one transaction, so a
// solver failure leaves the previous state intact (P6).
func (s *Service) GenerateFull(ctx context.Context) (*domain.TimetableVersion, solver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.loadWorkingSet(ctx)
	if err != nil {
		return nil, solver.Result{}, err
	}

	model := solver.Model{
		Requirements: expandAll(ws, nil),
		Rooms:        ws.solverRooms(),
		Timeslots:    ws.solverTimeslots(),
		MaxDailyCap:  s.maxDailyCap,
	}

	result := s.solve(model)
	if !result.Feasible {
		s.logger.Warn("full regeneration infeasible", zap.String("status", string(result.Status)), zap.String("reason", result.Reason))
		return nil, result, nil
	}

	version, err := s.commit(ctx, result, ws)
	if err != nil {
		return nil, result, err
	}
	return version, result, nil
}

// GeneratePartial splits requirements by target section ids: target
// requirements are freed for re-solving, fixed requirements carry
// their existing (room, slot) as solver.FixedAssignment so the solver
// must preserve them exactly. If infeasible, no mutation occurs.
func (s *Service) GeneratePartial(ctx context.Context, targetSectionIDs []string) (*domain.TimetableVersion, solver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, err := s.loadWorkingSet(ctx)
	if err != nil {
		return nil, solver.Result{}, err
	}

	targetSet := make(map[string]bool, len(targetSectionIDs))
	for _, id := range targetSectionIDs {
		targetSet[id] = true
	}

	existing, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, solver.Result{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing assignments")
	}
	fixedByRequirement := groupFixedAssignments(existing, ws, targetSet)

	model := solver.Model{
		Requirements: expandAll(ws, fixedByRequirement),
		Rooms:        ws.solverRooms(),
		Timeslots:    ws.solverTimeslots(),
		MaxDailyCap:  s.maxDailyCap,
	}

	result := s.solve(model)
	if !result.Feasible {
		s.logger.Warn("partial regeneration infeasible", zap.String("status", string(result.Status)), zap.String("reason", result.Reason))
		return nil, result, nil
	}

	version, err := s.commit(ctx, result, ws)
	if err != nil {
		return nil, result, err
	}
	return version, result, nil
}

// expandAll builds the full solver requirement list. fixedByRequirement,
// when non-nil, supplies FixedAssignments for requirements belonging to
// sections excluded from the current target set.
func expandAll(ws *workingSet, fixedByRequirement map[string][]solver.FixedAssignment) []solver.Requirement {
	out := make([]solver.Requirement, 0, len(ws.requirements))
	for _, req := range ws.requirements {
		course := ws.coursesByID[req.CourseID]
		section := ws.sectionsByID[req.SectionID]
		var fixed []solver.FixedAssignment
		if fixedByRequirement != nil {
			fixed = fixedByRequirement[req.ID]
		}
		out = append(out, ExpandRequirement(req, course, section, ws.timeslots, fixed))
	}
	return out
}

// groupFixedAssignments returns, for every requirement whose section is
// NOT in targetSet, its existing placements as FixedAssignment slices
// indexed by period.
func groupFixedAssignments(existing []domain.ScheduledAssignment, ws *workingSet, targetSet map[string]bool) map[string][]solver.FixedAssignment {
	byRequirement := make(map[string][]domain.ScheduledAssignment)
	for _, a := range existing {
		byRequirement[a.RequirementID] = append(byRequirement[a.RequirementID], a)
	}

	out := make(map[string][]solver.FixedAssignment)
	for reqID, placements := range byRequirement {
		req, ok := ws.requirementsByID[reqID]
		if !ok {
			continue
		}
		if targetSet[req.SectionID] {
			continue // target requirements are freed, not fixed
		}
		maxPeriod := 0
		for _, p := range placements {
			if p.PeriodIndex+1 > maxPeriod {
				maxPeriod = p.PeriodIndex + 1
			}
		}
		fixed := make([]solver.FixedAssignment, maxPeriod)
		for _, p := range placements {
			fixed[p.PeriodIndex] = solver.FixedAssignment{RoomID: p.RoomID, SlotID: p.SlotID}
		}
		out[reqID] = fixed
	}
	return out
}

// commit wraps delete-prior + insert-new + insert-snapshot in a single
// transaction (P6): a failure at any step leaves the previous state
// intact. Both full and partial regeneration recompute a placement for
// every requirement in the working set (partial pins non-target
// requirements as FixedAssignments rather than omitting them), so
// commit always replaces the complete assignment table.
func (s *Service) commit(ctx context.Context, result solver.Result, ws *workingSet) (*domain.TimetableVersion, error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin regeneration transaction")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.assignments.DeleteAll(ctx, tx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear prior assignments")
	}

	versionNumber, err := s.versions.NextVersionNumber(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate version number")
	}

	newAssignments := make([]domain.ScheduledAssignment, 0, len(result.Placements))
	for _, p := range result.Placements {
		newAssignments = append(newAssignments, domain.ScheduledAssignment{
			ID:            uuid.NewString(),
			RequirementID: p.RequirementID,
			PeriodIndex:   p.PeriodIndex,
			RoomID:        p.RoomID,
			SlotID:        p.SlotID,
		})
	}
	if err := s.assignments.BulkInsert(ctx, tx, newAssignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert new assignments")
	}

	snap := BuildSnapshot(versionNumber, string(result.Status), result.Placements, ws.snapshotContext())
	snapJSON, err := marshalSnapshot(snap)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to marshal snapshot")
	}

	version := &domain.TimetableVersion{
		ID:            uuid.NewString(),
		VersionNumber: versionNumber,
		Status:        domain.TimetableVersionStatusDraft,
		Snapshot:      snapJSON,
	}
	if err := s.versions.Create(ctx, tx, version); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable version")
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit regeneration")
	}
	committed = true
	return version, nil
}

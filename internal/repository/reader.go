package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// EntityReader aggregates the per-entity repositories behind the
// single read-side surface the orchestrator and the verification
// handler depend on, mirroring the teacher's practice of composing
// narrow repositories at the wiring site rather than one monolithic
// repository type.
type EntityReader struct {
	Faculty      *FacultyRepository
	Courses      *CourseRepository
	Rooms        *RoomRepository
	Sections     *SectionRepository
	Timeslots    *TimeslotRepository
	Requirements *RequirementRepository
}

// NewEntityReader wires an EntityReader from a shared database handle.
func NewEntityReader(db *sqlx.DB) *EntityReader {
	return &EntityReader{
		Faculty:      NewFacultyRepository(db),
		Courses:      NewCourseRepository(db),
		Rooms:        NewRoomRepository(db),
		Sections:     NewSectionRepository(db),
		Timeslots:    NewTimeslotRepository(db),
		Requirements: NewRequirementRepository(db),
	}
}

func (r *EntityReader) ListFaculty(ctx context.Context) ([]domain.Faculty, error) {
	return r.Faculty.ListFaculty(ctx)
}

func (r *EntityReader) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return r.Courses.ListCourses(ctx)
}

func (r *EntityReader) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.Rooms.ListRooms(ctx)
}

func (r *EntityReader) ListSections(ctx context.Context) ([]domain.Section, error) {
	return r.Sections.ListSections(ctx)
}

func (r *EntityReader) ListTimeslots(ctx context.Context) ([]domain.Timeslot, error) {
	return r.Timeslots.ListTimeslots(ctx)
}

func (r *EntityReader) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	return r.Requirements.ListRequirements(ctx)
}

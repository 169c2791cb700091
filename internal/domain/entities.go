// Package domain holds the core entity types the solver, orchestrator,
// repair engine, normalization agent, and integrity verifier operate on.
// Relationships are modeled as id lookups, never owning references — the
// working set behaves like an arena of value records.
package domain

import "time"

// CourseKind distinguishes a lecture course from a lab course. A lab
// requirement always expands to two consecutive periods; a lecture
// requirement expands to one period per credit.
type CourseKind string

const (
	CourseKindLecture CourseKind = "LECTURE"
	CourseKindLab     CourseKind = "LAB"
)

// RoomKind mirrors CourseKind for room/course matching (I6).
type RoomKind string

const (
	RoomKindLecture RoomKind = "LECTURE"
	RoomKindLab     RoomKind = "LAB"
)

// Shift is the daily time envelope a section attends in. It determines
// the allowed slot domain and the lunch slot to block.
type Shift string

const (
	Shift8to4   Shift = "SHIFT_8_4"
	Shift10to6  Shift = "SHIFT_10_6"
	ShiftOpen   Shift = "OPEN"
	ShiftUnset  Shift = ""
)

// Faculty is a teacher. Entity resolution key is Code, falling back to
// Email when Code is absent.
type Faculty struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Course is a teachable subject.
type Course struct {
	ID              string     `db:"id" json:"id"`
	Code            string     `db:"code" json:"code"`
	Name            string     `db:"name" json:"name"`
	Kind            CourseKind `db:"kind" json:"kind"`
	Credits         int        `db:"credits" json:"credits"`
	RequiredRoom    RoomKind   `db:"required_room_kind" json:"required_room_kind"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Periods returns the number of periods this course expands to. LAB
// always yields 2 consecutive periods regardless of credits; a lecture
// yields one period per credit, with a minimum of 1.
func (c Course) Periods() int {
	if c.Kind == CourseKindLab {
		return 2
	}
	if c.Credits < 1 {
		return 1
	}
	return c.Credits
}

// IsLab reports whether the course expands as a lab (two consecutive
// periods, single placement decision with an implied second slot).
func (c Course) IsLab() bool {
	return c.Kind == CourseKindLab
}

// Room is a physical teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Kind      RoomKind  `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Section is a student cohort that must never attend two sessions at
// the same slot.
type Section struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	StudentCount int       `db:"student_count" json:"student_count"`
	Shift        Shift     `db:"shift" json:"shift"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveShift treats an unspecified shift as OPEN.
func (s Section) EffectiveShift() Shift {
	if s.Shift == ShiftUnset {
		return ShiftOpen
	}
	return s.Shift
}

// Timeslot is a single weekly time window. Day is 0 (Monday) through 4
// (Friday). Adjacency: a slot has a successor iff another slot on the
// same day begins at this slot's End.
type Timeslot struct {
	ID        string    `db:"id" json:"id"`
	Day       int       `db:"day" json:"day"`
	Start     string    `db:"start_time" json:"start"`
	End       string    `db:"end_time" json:"end"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

var weekdayNames = [5]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DayName renders Day as the weekday name used in snapshot JSON. Days
// outside [0,4] return an empty string — callers filter these out
// during shift expansion (weekday filtering).
func (t Timeslot) DayName() string {
	if t.Day < 0 || t.Day >= len(weekdayNames) {
		return ""
	}
	return weekdayNames[t.Day]
}

// Requirement is a contract row: this faculty teaches this course to
// this section. The solver assigns a room and a slot per required
// period.
type Requirement struct {
	ID        string    `db:"id" json:"id"`
	SectionID string    `db:"section_id" json:"section_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	FacultyID string    `db:"faculty_id" json:"faculty_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScheduledAssignment is a Requirement with a concrete period, room,
// and slot placement.
type ScheduledAssignment struct {
	ID            string    `db:"id" json:"id"`
	RequirementID string    `db:"requirement_id" json:"requirement_id"`
	PeriodIndex   int       `db:"period_index" json:"period_index"`
	RoomID        string    `db:"room_id" json:"room_id"`
	SlotID        string    `db:"slot_id" json:"slot_id"`
	VersionID     string    `db:"version_id" json:"version_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// TimetableVersionStatus mirrors the teacher's SemesterScheduleStatus
// lifecycle, narrowed to what an immutable, append-only snapshot needs.
type TimetableVersionStatus string

const (
	TimetableVersionStatusDraft     TimetableVersionStatus = "DRAFT"
	TimetableVersionStatusPublished TimetableVersionStatus = "PUBLISHED"
)

// TimetableVersion is an immutable, append-only snapshot. Snapshot
// holds the stable JSON shape described in the external interface
// section — section code -> day name -> ordered session entries.
type TimetableVersion struct {
	ID            string                 `db:"id" json:"id"`
	VersionNumber int                    `db:"version_number" json:"version_number"`
	Status        TimetableVersionStatus `db:"status" json:"status"`
	Snapshot      []byte                 `db:"snapshot" json:"snapshot"`
	CreatedAt     time.Time              `db:"created_at" json:"created_at"`
}

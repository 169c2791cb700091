package orchestrator

import (
	"encoding/json"
	"sort"

	"github.com/campusforge/ttcore/internal/domain"
	"github.com/campusforge/ttcore/internal/solver"
)

// SessionEntry is one entry in a day's session list within the
// snapshot JSON.
type SessionEntry struct {
	Time       string `json:"time"`
	Course     string `json:"course"`
	CourseCode string `json:"course_code"`
	Faculty    string `json:"faculty"`
	Room       string `json:"room"`
	RoomType   string `json:"room_type"`
}

// Snapshot is the stable, immutable JSON shape consumed by exporters:
// version, status, and sections keyed by section code then weekday
// name.
type Snapshot struct {
	Version  int                                 `json:"version"`
	Status   string                               `json:"status"`
	Sections map[string]map[string][]SessionEntry `json:"sections"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// snapshotContext bundles the entity lookups BuildSnapshot needs to
// enrich bare placements with human-readable names.
type snapshotContext struct {
	requirements map[string]domain.Requirement
	sections     map[string]domain.Section
	courses      map[string]domain.Course
	faculty      map[string]domain.Faculty
	rooms        map[string]domain.Room
	timeslots    map[string]domain.Timeslot
}

// BuildSnapshot groups placements by section code, then by weekday
// name, each entry formatted as {time, course, course_code, faculty,
// room, room_type} and sorted by start time within the day. Section
// codes in this core are already bare cohort codes (no "-SUFFIX" to
// strip, unlike the reference implementation's section names).
func BuildSnapshot(versionNumber int, status string, placements []solver.Placement, ctx snapshotContext) Snapshot {
	sections := make(map[string]map[string][]SessionEntry)

	for _, p := range placements {
		req, ok := ctx.requirements[p.RequirementID]
		if !ok {
			continue
		}
		section, ok := ctx.sections[req.SectionID]
		if !ok {
			continue
		}
		course := ctx.courses[req.CourseID]
		fac := ctx.faculty[req.FacultyID]
		room := ctx.rooms[p.RoomID]
		slot := ctx.timeslots[p.SlotID]
		dayName := slot.DayName()
		if dayName == "" {
			continue
		}

		if _, ok := sections[section.Code]; !ok {
			sections[section.Code] = make(map[string][]SessionEntry, len(weekdays))
			for _, d := range weekdays {
				sections[section.Code][d] = []SessionEntry{}
			}
		}

		sections[section.Code][dayName] = append(sections[section.Code][dayName], SessionEntry{
			Time:       slot.Start + " - " + slot.End,
			Course:     course.Name,
			CourseCode: course.Code,
			Faculty:    fac.Name,
			Room:       room.Code,
			RoomType:   string(room.Kind),
		})
	}

	for _, days := range sections {
		for _, day := range weekdays {
			entries := days[day]
			sort.Slice(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
			days[day] = entries
		}
	}

	return Snapshot{Version: versionNumber, Status: status, Sections: sections}
}

// marshalSnapshot renders the snapshot to its stable wire format for
// storage in TimetableVersion.Snapshot.
func marshalSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// Package tabular validates the raw row data parsed from uploaded
// faculty/course/room/section/mapping files before it ever reaches the
// database or the solver. Header names are deliberately flexible — a
// column group lists every name an institution's export is known to
// use, and the first one present in a row wins.
package tabular

import "strings"

// Row is one parsed line from an uploaded file, keyed by its original
// header text.
type Row map[string]string

// HeaderGroup is one logical field and the header spellings accepted
// for it.
type HeaderGroup struct {
	Field        string
	Alternatives []string
	Required     bool
}

// EntitySchema is the full set of header groups for one upload kind.
type EntitySchema struct {
	Name   string
	Groups []HeaderGroup
}

// Kind enumerates the recognized upload kinds, matching the filenames
// (case-insensitive) the upload endpoint recognizes.
const (
	KindFaculty          = "faculty"
	KindCourses          = "courses"
	KindRooms            = "rooms"
	KindSections         = "sections"
	KindFacultyCourseMap = "faculty_course_map"
)

var schemas = map[string]EntitySchema{
	KindFaculty: {
		Name: KindFaculty,
		Groups: []HeaderGroup{
			{Field: "id", Alternatives: []string{"id", "faculty_id", "code"}, Required: true},
			{Field: "name", Alternatives: []string{"name"}, Required: true},
			{Field: "email", Alternatives: []string{"email"}, Required: false},
		},
	},
	KindCourses: {
		Name: KindCourses,
		Groups: []HeaderGroup{
			{Field: "code", Alternatives: []string{"code", "course_id"}, Required: true},
			{Field: "name", Alternatives: []string{"name"}, Required: true},
			{Field: "credits", Alternatives: []string{"credits", "weekly_periods"}, Required: true},
			{Field: "type", Alternatives: []string{"type"}, Required: false},
			{Field: "needs_room_type", Alternatives: []string{"needs_room_type"}, Required: false},
		},
	},
	KindRooms: {
		Name: KindRooms,
		Groups: []HeaderGroup{
			{Field: "id", Alternatives: []string{"room_id", "code"}, Required: true},
			{Field: "capacity", Alternatives: []string{"capacity"}, Required: true},
			{Field: "room_type", Alternatives: []string{"room_type", "type"}, Required: true},
		},
	},
	KindSections: {
		Name: KindSections,
		Groups: []HeaderGroup{
			{Field: "id", Alternatives: []string{"id", "section_id", "code"}, Required: true},
			{Field: "student_count", Alternatives: []string{"student_count"}, Required: true},
			{Field: "shift", Alternatives: []string{"shift"}, Required: false},
			{Field: "dept", Alternatives: []string{"dept"}, Required: false},
			{Field: "program", Alternatives: []string{"program"}, Required: false},
			{Field: "year", Alternatives: []string{"year"}, Required: false},
			{Field: "sem", Alternatives: []string{"sem"}, Required: false},
		},
	},
	KindFacultyCourseMap: {
		Name: KindFacultyCourseMap,
		Groups: []HeaderGroup{
			{Field: "faculty_id", Alternatives: []string{"faculty_email", "faculty_id", "faculty_code"}, Required: true},
			{Field: "section_id", Alternatives: []string{"section_id", "code", "section"}, Required: true},
			{Field: "course_id", Alternatives: []string{"course_id", "course_code"}, Required: true},
		},
	},
}

// Schema looks up an entity's schema by kind.
func Schema(kind string) (EntitySchema, bool) {
	s, ok := schemas[strings.ToLower(kind)]
	return s, ok
}

// Resolve maps a row's header group values onto their canonical field
// names. header lookups are case-insensitive. missing lists the
// required groups with no alternative present in row.
func Resolve(schema EntitySchema, row Row) (values map[string]string, missing []string) {
	lowered := make(map[string]string, len(row))
	for k, v := range row {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}

	values = make(map[string]string, len(schema.Groups))
	for _, group := range schema.Groups {
		found := false
		for _, alt := range group.Alternatives {
			if v, ok := lowered[strings.ToLower(alt)]; ok {
				values[group.Field] = v
				found = true
				break
			}
		}
		if !found && group.Required {
			missing = append(missing, group.Field)
		}
	}
	return values, missing
}

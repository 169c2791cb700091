package tabular

import (
	"fmt"
	"strconv"
)

// Result is the three-tier validation outcome: Errors are fatal and
// must stop ingestion, Warnings are reported but non-blocking,
// Suggestions are strategic advice with no bearing on IsValid.
type Result struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

func newResult() *Result {
	return &Result{Errors: []string{}, Warnings: []string{}, Suggestions: []string{}}
}

func (r *Result) finish() Result {
	r.IsValid = len(r.Errors) == 0
	return *r
}

// ValidateRow runs header-group resolution and per-field type checks
// for a single row of the given kind, used by the single-file
// row-level endpoint.
func ValidateRow(kind string, row Row) Result {
	r := newResult()

	schema, ok := Schema(kind)
	if !ok {
		r.Errors = append(r.Errors, fmt.Sprintf("unrecognized upload kind: %q", kind))
		return r.finish()
	}

	values, missing := Resolve(schema, row)
	for _, field := range missing {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: missing mandatory column for field %q", kind, field))
	}
	if len(missing) > 0 {
		return r.finish()
	}

	switch kind {
	case KindCourses:
		if n, err := strconv.Atoi(values["credits"]); err != nil || n < 1 {
			r.Errors = append(r.Errors, "courses: credits must be a positive integer")
		}
	case KindRooms:
		if n, err := strconv.Atoi(values["capacity"]); err != nil || n < 1 {
			r.Errors = append(r.Errors, "rooms: capacity must be a positive integer")
		}
	case KindSections:
		n, err := strconv.Atoi(values["student_count"])
		if err != nil || n < 0 {
			r.Errors = append(r.Errors, "sections: student_count must be a non-negative integer")
		} else if n == 0 {
			r.Warnings = append(r.Warnings, "sections: student_count is zero")
		}
	}

	return r.finish()
}

// Upload bundles the parsed rows of every uploaded file, keyed by kind.
type Upload struct {
	Faculty          []Row
	Courses          []Row
	Rooms            []Row
	Sections         []Row
	FacultyCourseMap []Row
}

// ValidateUpload runs structural validation (mandatory column groups
// present on every entity's first row), then — only if structurally
// sound — referential validation across entities, plus low-signal
// strategic suggestions. Mirrors the two-phase "stop on structural
// failure, otherwise check references" approach the original importer
// uses.
func ValidateUpload(u Upload) Result {
	r := newResult()

	entities := map[string][]Row{
		KindFaculty:          u.Faculty,
		KindCourses:          u.Courses,
		KindRooms:            u.Rooms,
		KindSections:         u.Sections,
		KindFacultyCourseMap: u.FacultyCourseMap,
	}

	for kind, rows := range entities {
		if len(rows) == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("entity %q has no rows", kind))
			continue
		}
		schema, _ := Schema(kind)
		_, missing := Resolve(schema, rows[0])
		for _, field := range missing {
			r.Errors = append(r.Errors, fmt.Sprintf("file %q is missing mandatory column for field %q", kind, field))
		}
	}
	if len(r.Errors) > 0 {
		return r.finish()
	}

	facultyIDs := resolvedSet(u.Faculty, KindFaculty, "id")
	courseCodes := resolvedSet(u.Courses, KindCourses, "code")
	sectionIDs := resolvedSet(u.Sections, KindSections, "id")

	mappedSectionIDs := map[string]bool{}
	schema, _ := Schema(KindFacultyCourseMap)
	for _, row := range u.FacultyCourseMap {
		values, _ := Resolve(schema, row)
		if !facultyIDs[values["faculty_id"]] {
			r.Errors = append(r.Errors, fmt.Sprintf("mapping refers to unknown faculty: %q", values["faculty_id"]))
		}
		if !sectionIDs[values["section_id"]] {
			r.Errors = append(r.Errors, fmt.Sprintf("mapping refers to unknown section id: %q", values["section_id"]))
		}
		if !courseCodes[values["course_id"]] {
			r.Errors = append(r.Errors, fmt.Sprintf("mapping refers to unknown course: %q", values["course_id"]))
		}
		mappedSectionIDs[values["section_id"]] = true
	}

	sectionSchema, _ := Schema(KindSections)
	for _, row := range u.Sections {
		values, _ := Resolve(sectionSchema, row)
		if !mappedSectionIDs[values["id"]] {
			r.Warnings = append(r.Warnings, fmt.Sprintf("section %q has no faculty assigned; it will not be scheduled", values["id"]))
		}
	}

	if len(u.Rooms) > 0 && len(u.Sections) > 0 && len(u.Rooms)*5 < len(u.Sections) {
		r.Suggestions = append(r.Suggestions, "low room-to-section ratio detected; consider adding more rooms to reduce contention")
	}

	return r.finish()
}

func resolvedSet(rows []Row, kind, field string) map[string]bool {
	schema, _ := Schema(kind)
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		values, _ := Resolve(schema, row)
		if v := values[field]; v != "" {
			out[v] = true
		}
	}
	return out
}

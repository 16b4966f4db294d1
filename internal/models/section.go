package models

// Section is the demand unit the scheduler places: one course section that
// needs a room and a weekly meeting cell. InstructorID may be empty when no
// instructor has been appointed yet.
type Section struct {
	ID               string  `db:"id" json:"id"`
	CourseCode       string  `db:"course_code" json:"course_code"`
	Title            string  `db:"title" json:"title"`
	TermID           string  `db:"term_id" json:"term_id"`
	RequiredCapacity int     `db:"required_capacity" json:"required_capacity"`
	InstructorID     string  `db:"instructor_id" json:"instructor_id,omitempty"`
	ClassroomID      *string `db:"classroom_id" json:"classroom_id,omitempty"`
}

// Classroom is a schedulable room resource.
type Classroom struct {
	ID         string `db:"id" json:"id"`
	BuildingID string `db:"building_id" json:"building_id"`
	Capacity   int    `db:"capacity" json:"capacity"`
	Active     bool   `db:"active" json:"active"`
}

// StudentLoad maps a student id to the section ids that student is enrolled
// in, restricted to the sections of one scheduling run. The engine reads it
// only to detect per-student time conflicts.
type StudentLoad map[string][]string

// ScheduleSnapshot is the read-only input of one scheduling run. Sections are
// ordered by descending required capacity and classrooms by descending
// capacity; both orders seed the search and must not change mid-run.
type ScheduleSnapshot struct {
	TermID      string      `json:"term_id"`
	Sections    []Section   `json:"sections"`
	Classrooms  []Classroom `json:"classrooms"`
	StudentLoad StudentLoad `json:"student_load"`
}

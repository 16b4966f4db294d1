package models

import "time"

// SectionAssignment is one committed (section, classroom, day, time slot)
// placement as stored in the section_assignments table.
type SectionAssignment struct {
	ID          string    `db:"id" json:"id"`
	TermID      string    `db:"term_id" json:"term_id"`
	SectionID   string    `db:"section_id" json:"section_id"`
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	TimeSlotID  int       `db:"time_slot_id" json:"time_slot_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AssignmentConflict reports a classroom cell occupied by more than one
// section. Produced only by the post-run defensive re-scan; any occurrence
// indicates an engine defect rather than an expected runtime condition.
type AssignmentConflict struct {
	ClassroomID string   `json:"classroom_id"`
	DayOfWeek   int      `json:"day_of_week"`
	TimeSlotID  int      `json:"time_slot_id"`
	SectionIDs  []string `json:"section_ids"`
}

// Pagination describes list metadata returned in the response envelope.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

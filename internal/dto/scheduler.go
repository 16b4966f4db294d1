package dto

import (
	"time"

	"github.com/opencampus/timetable-api/internal/models"
)

// RunScheduleRequest starts one scheduling run for a term.
type RunScheduleRequest struct {
	TermID   string `json:"termId" validate:"required"`
	Commit   bool   `json:"commit"`
	MaxNodes int    `json:"maxNodes" validate:"omitempty,min=0"`
}

// AssignmentProposal is one placement produced by a run.
type AssignmentProposal struct {
	SectionID   string `json:"sectionId"`
	ClassroomID string `json:"classroomId"`
	DayOfWeek   int    `json:"dayOfWeek"`
	Day         string `json:"day"`
	TimeSlotID  int    `json:"timeSlotId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// UnassignedSection reports a section the run could not place.
type UnassignedSection struct {
	SectionID string `json:"sectionId"`
	Reason    string `json:"reason"`
}

// RunStatistics summarises one search.
type RunStatistics struct {
	TotalSections  int   `json:"totalSections"`
	Scheduled      int   `json:"scheduled"`
	Unscheduled    int   `json:"unscheduled"`
	BacktrackCount int   `json:"backtrackCount"`
	NodeCount      int   `json:"nodeCount"`
	DurationMs     int64 `json:"durationMs"`
}

// ScheduleRunResponse is the full result of one scheduling run.
type ScheduleRunResponse struct {
	RunID       string                      `json:"runId"`
	TermID      string                      `json:"termId"`
	Success     bool                        `json:"success"`
	Committed   bool                        `json:"committed"`
	Assignments []AssignmentProposal        `json:"assignments"`
	Unassigned  []UnassignedSection         `json:"unassigned"`
	Conflicts   []models.AssignmentConflict `json:"conflicts"`
	Stats       RunStatistics               `json:"stats"`
	GeneratedAt time.Time                   `json:"generatedAt"`
}

// EnqueueRunResponse acknowledges an asynchronous run request.
type EnqueueRunResponse struct {
	RunID  string `json:"runId"`
	TermID string `json:"termId"`
	Status string `json:"status"`
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/timetable-api/internal/models"
)

func testSnapshot(sections []models.Section, classrooms []models.Classroom, load models.StudentLoad) *models.ScheduleSnapshot {
	return &models.ScheduleSnapshot{
		TermID:      "term-1",
		Sections:    sections,
		Classrooms:  classrooms,
		StudentLoad: load,
	}
}

func TestSchedulerStateConsistencyChecks(t *testing.T) {
	snapshot := testSnapshot(
		[]models.Section{
			{ID: "sec-1", RequiredCapacity: 40, InstructorID: "inst-1"},
			{ID: "sec-2", RequiredCapacity: 40, InstructorID: "inst-1"},
			{ID: "sec-3", RequiredCapacity: 40},
		},
		[]models.Classroom{
			{ID: "room-a", Capacity: 50, Active: true},
			{ID: "room-b", Capacity: 30, Active: true},
		},
		models.StudentLoad{"student-1": {"sec-1", "sec-3"}},
	)
	st := newSchedulerState(snapshot)

	sec1 := st.sections["sec-1"]
	sec2 := st.sections["sec-2"]
	sec3 := st.sections["sec-3"]

	assert.True(t, st.isConsistent(sec1, "room-a", models.Monday, 1))
	assert.False(t, st.isConsistent(sec1, "room-b", models.Monday, 1), "room below required capacity")
	assert.False(t, st.isConsistent(sec1, "room-x", models.Monday, 1), "unknown room")

	st.assign(sec1, "room-a", models.Monday, 1)

	assert.False(t, st.isConsistent(sec2, "room-a", models.Monday, 1), "classroom cell occupied")
	assert.True(t, st.isConsistent(sec2, "room-a", models.Monday, 2), "adjacent slot is free")
	assert.True(t, st.isConsistent(sec2, "room-a", models.Tuesday, 1))

	// sec-2 shares inst-1 with sec-1: any room at the same cell is blocked.
	otherRoom := models.Classroom{ID: "room-c", Capacity: 80, Active: true}
	st.rooms[otherRoom.ID] = otherRoom
	assert.False(t, st.isConsistent(sec2, "room-c", models.Monday, 1), "instructor cell occupied")

	// sec-3 shares student-1 with sec-1.
	assert.False(t, st.isConsistent(sec3, "room-c", models.Monday, 1), "student cell occupied")
	assert.True(t, st.isConsistent(sec3, "room-c", models.Monday, 2))
}

func TestSchedulerStateAssignUnassignAreExactInverses(t *testing.T) {
	snapshot := testSnapshot(
		[]models.Section{{ID: "sec-1", RequiredCapacity: 20, InstructorID: "inst-1"}},
		[]models.Classroom{{ID: "room-a", Capacity: 40, Active: true}},
		models.StudentLoad{"student-1": {"sec-1"}, "student-2": {"sec-1"}},
	)
	st := newSchedulerState(snapshot)
	sec := st.sections["sec-1"]

	st.assign(sec, "room-a", models.Wednesday, 5)

	require.Len(t, st.assigned, 1)
	require.Empty(t, st.unassigned)
	assert.Equal(t, placement{ClassroomID: "room-a", Day: models.Wednesday, SlotID: 5}, st.assigned["sec-1"])
	assert.Len(t, st.roomGrid, 1)
	assert.Len(t, st.instructorGrid, 1)
	assert.Len(t, st.studentGrid, 2)

	st.unassign(sec, "room-a", models.Wednesday, 5)

	assert.Empty(t, st.assigned)
	assert.Empty(t, st.roomGrid)
	assert.Empty(t, st.instructorGrid)
	assert.Empty(t, st.studentGrid)
	_, open := st.unassigned["sec-1"]
	assert.True(t, open)
}

func TestSchedulerStateIgnoresUnknownEnrollmentSections(t *testing.T) {
	snapshot := testSnapshot(
		[]models.Section{{ID: "sec-1", RequiredCapacity: 10}},
		[]models.Classroom{{ID: "room-a", Capacity: 40, Active: true}},
		models.StudentLoad{"student-1": {"sec-1", "sec-ghost"}},
	)
	st := newSchedulerState(snapshot)

	assert.Equal(t, []string{"student-1"}, st.enrolled["sec-1"])
	_, known := st.enrolled["sec-ghost"]
	assert.False(t, known)
}

func TestSchedulerStateDetectConflicts(t *testing.T) {
	snapshot := testSnapshot(
		[]models.Section{
			{ID: "sec-1", RequiredCapacity: 10},
			{ID: "sec-2", RequiredCapacity: 10},
		},
		[]models.Classroom{{ID: "room-a", Capacity: 40, Active: true}},
		nil,
	)
	st := newSchedulerState(snapshot)

	require.Empty(t, st.detectConflicts())

	// Force a double booking directly; assign would refuse it.
	st.assigned["sec-1"] = placement{ClassroomID: "room-a", Day: models.Monday, SlotID: 1}
	st.assigned["sec-2"] = placement{ClassroomID: "room-a", Day: models.Monday, SlotID: 1}

	conflicts := st.detectConflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "room-a", conflicts[0].ClassroomID)
	assert.Equal(t, 1, conflicts[0].DayOfWeek)
	assert.Equal(t, 1, conflicts[0].TimeSlotID)
	assert.Equal(t, []string{"sec-1", "sec-2"}, conflicts[0].SectionIDs)
}

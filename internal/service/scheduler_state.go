package service

import (
	"sort"

	"github.com/opencampus/timetable-api/internal/models"
)

// gridCell keys one resource (classroom or instructor) at one weekly cell.
type gridCell struct {
	ResourceID string
	Day        models.Day
	SlotID     int
}

// studentCell keys one student at one weekly cell.
type studentCell struct {
	StudentID string
	Day       models.Day
	SlotID    int
}

// placement is a committed (classroom, day, slot) value for one section.
type placement struct {
	ClassroomID string
	Day         models.Day
	SlotID      int
}

// schedulerState is the mutable working set of one scheduling run: the three
// availability grids plus the assignment map. Grids are flat Cell->sectionID
// hash tables so every consistency check is a direct lookup. It grows on
// assign, shrinks exactly on unassign and is discarded when the run ends.
type schedulerState struct {
	sections  map[string]models.Section
	rooms     map[string]models.Classroom
	roomOrder []models.Classroom

	// enrolled inverts the snapshot's StudentLoad: sectionID -> studentIDs.
	enrolled map[string][]string

	roomGrid       map[gridCell]string
	instructorGrid map[gridCell]string
	studentGrid    map[studentCell]string

	assigned   map[string]placement
	unassigned map[string]struct{}
}

func newSchedulerState(snapshot *models.ScheduleSnapshot) *schedulerState {
	st := &schedulerState{
		sections:       make(map[string]models.Section, len(snapshot.Sections)),
		rooms:          make(map[string]models.Classroom, len(snapshot.Classrooms)),
		roomOrder:      append([]models.Classroom(nil), snapshot.Classrooms...),
		enrolled:       make(map[string][]string),
		roomGrid:       make(map[gridCell]string),
		instructorGrid: make(map[gridCell]string),
		studentGrid:    make(map[studentCell]string),
		assigned:       make(map[string]placement, len(snapshot.Sections)),
		unassigned:     make(map[string]struct{}, len(snapshot.Sections)),
	}
	for _, sec := range snapshot.Sections {
		st.sections[sec.ID] = sec
		st.unassigned[sec.ID] = struct{}{}
	}
	for _, room := range snapshot.Classrooms {
		st.rooms[room.ID] = room
	}
	for studentID, sectionIDs := range snapshot.StudentLoad {
		for _, sectionID := range sectionIDs {
			if _, known := st.sections[sectionID]; !known {
				continue
			}
			st.enrolled[sectionID] = append(st.enrolled[sectionID], studentID)
		}
	}
	for sectionID := range st.enrolled {
		sort.Strings(st.enrolled[sectionID])
	}
	return st
}

// isConsistent reports whether placing the section at (classroom, day, slot)
// violates none of the hard constraints: room capacity, classroom cell,
// instructor cell, and every enrolled student's cell.
func (st *schedulerState) isConsistent(sec models.Section, classroomID string, day models.Day, slotID int) bool {
	room, ok := st.rooms[classroomID]
	if !ok || room.Capacity < sec.RequiredCapacity {
		return false
	}
	if _, taken := st.roomGrid[gridCell{ResourceID: classroomID, Day: day, SlotID: slotID}]; taken {
		return false
	}
	if sec.InstructorID != "" {
		if _, taken := st.instructorGrid[gridCell{ResourceID: sec.InstructorID, Day: day, SlotID: slotID}]; taken {
			return false
		}
	}
	for _, studentID := range st.enrolled[sec.ID] {
		if _, taken := st.studentGrid[studentCell{StudentID: studentID, Day: day, SlotID: slotID}]; taken {
			return false
		}
	}
	return true
}

// assign commits one placement, updating all three grids and moving the
// section from unassigned to assigned. Callers must have checked consistency.
func (st *schedulerState) assign(sec models.Section, classroomID string, day models.Day, slotID int) {
	st.roomGrid[gridCell{ResourceID: classroomID, Day: day, SlotID: slotID}] = sec.ID
	if sec.InstructorID != "" {
		st.instructorGrid[gridCell{ResourceID: sec.InstructorID, Day: day, SlotID: slotID}] = sec.ID
	}
	for _, studentID := range st.enrolled[sec.ID] {
		st.studentGrid[studentCell{StudentID: studentID, Day: day, SlotID: slotID}] = sec.ID
	}
	st.assigned[sec.ID] = placement{ClassroomID: classroomID, Day: day, SlotID: slotID}
	delete(st.unassigned, sec.ID)
}

// unassign is the exact inverse of assign. It follows stack discipline: only
// the most recently assigned value for the section may be retracted.
func (st *schedulerState) unassign(sec models.Section, classroomID string, day models.Day, slotID int) {
	delete(st.roomGrid, gridCell{ResourceID: classroomID, Day: day, SlotID: slotID})
	if sec.InstructorID != "" {
		delete(st.instructorGrid, gridCell{ResourceID: sec.InstructorID, Day: day, SlotID: slotID})
	}
	for _, studentID := range st.enrolled[sec.ID] {
		delete(st.studentGrid, studentCell{StudentID: studentID, Day: day, SlotID: slotID})
	}
	delete(st.assigned, sec.ID)
	st.unassigned[sec.ID] = struct{}{}
}

// detectConflicts re-derives classroom occupancy from the committed
// assignments and reports any double-booked cell. A correct engine never
// produces one; the orchestrator logs a non-empty result as a defect.
func (st *schedulerState) detectConflicts() []models.AssignmentConflict {
	occupancy := make(map[placement][]string)
	for sectionID, p := range st.assigned {
		occupancy[p] = append(occupancy[p], sectionID)
	}

	var conflicts []models.AssignmentConflict
	for p, sectionIDs := range occupancy {
		if len(sectionIDs) < 2 {
			continue
		}
		sort.Strings(sectionIDs)
		conflicts = append(conflicts, models.AssignmentConflict{
			ClassroomID: p.ClassroomID,
			DayOfWeek:   int(p.Day),
			TimeSlotID:  p.SlotID,
			SectionIDs:  sectionIDs,
		})
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].ClassroomID != conflicts[j].ClassroomID {
			return conflicts[i].ClassroomID < conflicts[j].ClassroomID
		}
		if conflicts[i].DayOfWeek != conflicts[j].DayOfWeek {
			return conflicts[i].DayOfWeek < conflicts[j].DayOfWeek
		}
		return conflicts[i].TimeSlotID < conflicts[j].TimeSlotID
	})
	return conflicts
}

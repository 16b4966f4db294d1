package service

import (
	"context"
	"sort"

	"github.com/opencampus/timetable-api/internal/models"
)

// Failure reasons attached to sections a run could not place.
const (
	reasonNoViablePlacement = "No valid time slot and classroom combination available"
	reasonSearchExhausted   = "Search space exhausted before the section could be placed"
	reasonBudgetExceeded    = "Scheduling node budget exceeded"
	reasonRunCancelled      = "Scheduling run cancelled"
)

// candidate is one (classroom, day, slot) value of a section's domain.
type candidate struct {
	ClassroomID string
	Day         models.Day
	SlotID      int
}

// searchStats carries the informative counters returned with a run result.
type searchStats struct {
	Nodes      int
	Backtracks int
}

// cspSearch is a depth-first backtracking search over schedulerState with
// minimum-remaining-values variable selection and least-constraining-value
// ordering. One instance drives exactly one run; it is not reusable.
//
// The search is deterministic: sections are visited in seeded order (which
// also breaks MRV ties), classrooms in snapshot order, days and slots in
// catalog order, and the LCV sort is stable. No randomization anywhere.
type cspSearch struct {
	state        *schedulerState
	sectionOrder []string
	maxNodes     int

	reasons map[string]string
	stats   searchStats
	halted  bool
}

func newCSPSearch(state *schedulerState, snapshot *models.ScheduleSnapshot, maxNodes int) *cspSearch {
	order := make([]string, 0, len(snapshot.Sections))
	for _, sec := range snapshot.Sections {
		order = append(order, sec.ID)
	}
	return &cspSearch{
		state:        state,
		sectionOrder: order,
		maxNodes:     maxNodes,
		reasons:      make(map[string]string),
	}
}

// run executes the search once and reports whether every section was placed.
// Sections that could not be placed carry a reason in s.reasons; committed
// assignments survive regardless of the outcome.
func (s *cspSearch) run(ctx context.Context) bool {
	s.solve(ctx)
	for id := range s.state.unassigned {
		if _, recorded := s.reasons[id]; !recorded {
			s.reasons[id] = reasonSearchExhausted
		}
	}
	return len(s.state.unassigned) == 0
}

// solve is one recursion frame: select a variable, try its values in LCV
// order, descend, and undo on failure. Worst case is exponential in the
// section count; MRV/LCV only reduce backtracking in practice.
func (s *cspSearch) solve(ctx context.Context) bool {
	s.stats.Nodes++
	if err := ctx.Err(); err != nil {
		s.halt(reasonRunCancelled)
		return false
	}
	if s.maxNodes > 0 && s.stats.Nodes > s.maxNodes {
		s.halt(reasonBudgetExceeded)
		return false
	}
	if len(s.state.unassigned) == 0 {
		return true
	}

	sec, domain, ok := s.selectMRV()
	if !ok {
		// Every remaining section has an empty domain. Report them and end
		// the branch; placements made at shallower depth stay committed.
		for id := range s.state.unassigned {
			s.reasons[id] = reasonNoViablePlacement
		}
		return true
	}

	for _, value := range orderByLCV(s.state, sec, domain) {
		if !s.state.isConsistent(sec, value.ClassroomID, value.Day, value.SlotID) {
			continue
		}
		s.state.assign(sec, value.ClassroomID, value.Day, value.SlotID)
		if s.solve(ctx) {
			return true
		}
		if s.halted {
			return false
		}
		s.state.unassign(sec, value.ClassroomID, value.Day, value.SlotID)
		s.stats.Backtracks++
	}

	s.reasons[sec.ID] = reasonNoViablePlacement
	return false
}

// selectMRV picks the unassigned section with the smallest non-empty
// consistent domain. Ties break on seeded section order. Sections whose
// domain is currently empty are skipped; ok is false when nothing is
// selectable.
func (s *cspSearch) selectMRV() (models.Section, []candidate, bool) {
	var best models.Section
	var bestDomain []candidate
	found := false

	for _, id := range s.sectionOrder {
		if _, open := s.state.unassigned[id]; !open {
			continue
		}
		sec := s.state.sections[id]
		domain := consistentDomain(s.state, sec)
		if len(domain) == 0 {
			continue
		}
		if !found || len(domain) < len(bestDomain) {
			best = sec
			bestDomain = domain
			found = true
		}
	}
	return best, bestDomain, found
}

// halt terminates the whole search, tagging every still-unassigned section.
// Committed placements are kept; solve frames above unwind without retrying.
func (s *cspSearch) halt(reason string) {
	if s.halted {
		return
	}
	s.halted = true
	for id := range s.state.unassigned {
		if _, recorded := s.reasons[id]; !recorded {
			s.reasons[id] = reason
		}
	}
}

// consistentDomain enumerates the section's currently-legal values:
// classrooms with sufficient capacity (snapshot order) crossed with the day
// and slot catalogs, filtered through isConsistent.
func consistentDomain(st *schedulerState, sec models.Section) []candidate {
	var domain []candidate
	for _, room := range st.roomOrder {
		if room.Capacity < sec.RequiredCapacity {
			continue
		}
		for _, day := range models.Weekdays {
			for _, slot := range models.DailyTimeSlots {
				if st.isConsistent(sec, room.ID, day, slot.ID) {
					domain = append(domain, candidate{ClassroomID: room.ID, Day: day, SlotID: slot.ID})
				}
			}
		}
	}
	return domain
}

// lcvScore counts how many other unassigned sections would lose this exact
// value, measured through the shared-instructor channel only: another section
// taught by the same instructor loses the value if it could currently use it.
// Classroom and student channels are intentionally not scored.
func lcvScore(st *schedulerState, sec models.Section, value candidate) int {
	if sec.InstructorID == "" {
		return 0
	}
	score := 0
	for otherID := range st.unassigned {
		if otherID == sec.ID {
			continue
		}
		other := st.sections[otherID]
		if other.InstructorID != sec.InstructorID {
			continue
		}
		if st.isConsistent(other, value.ClassroomID, value.Day, value.SlotID) {
			score++
		}
	}
	return score
}

// orderByLCV sorts domain values ascending by constraint score. The sort is
// stable so equally-scored values keep the deterministic enumeration order.
func orderByLCV(st *schedulerState, sec models.Section, domain []candidate) []candidate {
	type scoredValue struct {
		value candidate
		score int
	}
	scored := make([]scoredValue, len(domain))
	for i, value := range domain {
		scored[i] = scoredValue{value: value, score: lcvScore(st, sec, value)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score < scored[j].score
	})
	ordered := make([]candidate, len(scored))
	for i, sv := range scored {
		ordered[i] = sv.value
	}
	return ordered
}

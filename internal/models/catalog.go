package models

// Day identifies a weekday in the scheduling grid. Sections meet Monday
// through Friday only.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayNames = map[Day]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
}

// String returns the canonical uppercase day name.
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return "UNKNOWN"
}

// Weekdays is the ordered scheduling-day catalog. It is fixed for the life of
// the process so domain enumeration stays deterministic across runs.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// TimeSlot is one atomic 50-minute teaching period.
type TimeSlot struct {
	ID    int    `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DailyTimeSlots is the ordered slot catalog: ten 50-minute periods on the
// hour from 08:00 to 17:50.
var DailyTimeSlots = []TimeSlot{
	{ID: 1, Start: "08:00", End: "08:50"},
	{ID: 2, Start: "09:00", End: "09:50"},
	{ID: 3, Start: "10:00", End: "10:50"},
	{ID: 4, Start: "11:00", End: "11:50"},
	{ID: 5, Start: "12:00", End: "12:50"},
	{ID: 6, Start: "13:00", End: "13:50"},
	{ID: 7, Start: "14:00", End: "14:50"},
	{ID: 8, Start: "15:00", End: "15:50"},
	{ID: 9, Start: "16:00", End: "16:50"},
	{ID: 10, Start: "17:00", End: "17:50"},
}

// TimeSlotByID resolves a catalog slot, reporting whether it exists.
func TimeSlotByID(id int) (TimeSlot, bool) {
	if id < 1 || id > len(DailyTimeSlots) {
		return TimeSlot{}, false
	}
	return DailyTimeSlots[id-1], true
}

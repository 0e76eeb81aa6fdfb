package appointments

import "time"

// Number of cells in the month grid: six full weeks, Sunday-first.
const gridCells = 42

// Cells shows at most this many appointments; the rest collapse into
// the overflow count.
const maxVisiblePerCell = 2

// CalendarCell is one day in the month grid.
type CalendarCell struct {
	Date         string         `json:"date"`
	Day          int            `json:"day"`
	InMonth      bool           `json:"inMonth"`
	IsToday      bool           `json:"isToday"`
	Appointments []*Appointment `json:"appointments"`
	Overflow     int            `json:"overflow"`
}

// CalendarMonth is the rendered grid for one month.
type CalendarMonth struct {
	Month string         `json:"month"` // YYYY-MM
	Cells []CalendarCell `json:"cells"`
}

// BuildCalendar renders the six-week grid for the month containing ref.
// The grid always starts on the Sunday on or before the 1st and always
// holds exactly 42 cells, so trailing days of the previous month and
// leading days of the next fill the edges. Cancelled appointments stay
// visible; each cell shows at most two with an overflow count for the
// rest.
func BuildCalendar(ref time.Time, today time.Time, appts []*Appointment) CalendarMonth {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayKey := today.Format(time.DateOnly)

	byDate := make(map[string][]*Appointment, len(appts))
	for _, a := range appts {
		byDate[a.Date] = append(byDate[a.Date], a)
	}
	for _, day := range byDate {
		SortSchedule(day)
	}

	cells := make([]CalendarCell, 0, gridCells)
	for i := 0; i < gridCells; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(time.DateOnly)
		day := byDate[key]
		visible := day
		overflow := 0
		if len(day) > maxVisiblePerCell {
			visible = day[:maxVisiblePerCell]
			overflow = len(day) - maxVisiblePerCell
		}
		if visible == nil {
			visible = []*Appointment{}
		}
		cells = append(cells, CalendarCell{
			Date:         key,
			Day:          d.Day(),
			InMonth:      d.Month() == first.Month(),
			IsToday:      key == todayKey,
			Appointments: visible,
			Overflow:     overflow,
		})
	}

	return CalendarMonth{Month: first.Format("2006-01"), Cells: cells}
}

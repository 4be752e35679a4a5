package domain

import (
	"fmt"
	"time"
)

// DayCell is one selectable cell of the month grid.
type DayCell struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	Disabled bool   `json:"disabled"`
	Today    bool   `json:"today"`
}

// MonthGrid is the 7-column calendar for one displayed month. The grid
// starts with LeadingBlanks empty cells so the 1st lands on its weekday
// column (0 = Sunday).
type MonthGrid struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	Title         string    `json:"title"`
	WeekdayLabels []string  `json:"weekdayLabels"`
	LeadingBlanks int       `json:"leadingBlanks"`
	Days          []DayCell `json:"days"`
}

var weekdayLabels = []string{"日", "月", "火", "水", "木", "金", "土"}

// BuildMonthGrid computes the grid for the displayed month relative to
// today. Days strictly before the start of today are disabled; today
// itself is marked and never disabled. Navigation is unbounded: any
// year/month pair is valid input.
func BuildMonthGrid(year int, month time.Month, today time.Time) MonthGrid {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	startOfToday := StartOfDay(today)

	grid := MonthGrid{
		Year:          year,
		Month:         int(month),
		Title:         formatMonthTitle(year, month),
		WeekdayLabels: append([]string(nil), weekdayLabels...),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		grid.Days = append(grid.Days, DayCell{
			Day:      day,
			Date:     date.Format("2006-01-02"),
			Disabled: date.Before(startOfToday),
			Today:    date.Equal(startOfToday),
		})
	}

	return grid
}

func formatMonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%d年 %d月", year, int(month))
}

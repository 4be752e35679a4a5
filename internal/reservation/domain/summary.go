package domain

import (
	"fmt"
	"strings"
	"time"
)

// Summary is the human-readable digest of a SelectionState. It is a pure
// derivation: calling BuildSummary twice on the same state yields the
// same value.
type Summary struct {
	Visible    bool   `json:"visible"`
	VisitLabel string `json:"visitLabel,omitempty"`
	MenuLabel  string `json:"menuLabel,omitempty"`
	DateTime   string `json:"dateTime,omitempty"`
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

var weekdayShortJa = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// BuildSummary derives the summary view. It becomes visible once visit
// kind, menu, date and time are all chosen; contact fields fall back to
// a placeholder until entered.
func BuildSummary(state SelectionState) Summary {
	if !state.SelectionsMade() {
		return Summary{}
	}

	name := strings.TrimSpace(state.Contact.Name)
	if name == "" {
		name = "未入力"
	}
	phone := strings.TrimSpace(state.Contact.Phone)
	if phone == "" {
		phone = "未入力"
	}

	return Summary{
		Visible:    true,
		VisitLabel: state.VisitKind.Label(),
		MenuLabel:  fmt.Sprintf("%s (%d分・¥%d)", state.Menu.Name, state.Menu.DurationMinutes, state.Menu.Price),
		DateTime:   fmt.Sprintf("%s %s", FormatDateJa(*state.Date), state.Time),
		Name:       name,
		Phone:      phone,
	}
}

// FormatDateJa renders a date as 「8月31日(日)」.
func FormatDateJa(t time.Time) string {
	return fmt.Sprintf("%d月%d日(%s)", int(t.Month()), t.Day(), weekdayShortJa[int(t.Weekday())])
}

// FormatDateLongJa renders a date as 「2026年8月31日(日)」 for messages.
func FormatDateLongJa(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日(%s)", t.Year(), int(t.Month()), t.Day(), weekdayShortJa[int(t.Weekday())])
}

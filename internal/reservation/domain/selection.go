package domain

import (
	"errors"
	"strings"
	"time"
)

// VisitKind distinguishes first-time visitors from returning ones.
// Each kind carries a fixed buffer added to the menu duration.
type VisitKind int

const (
	VisitKindUnknown VisitKind = iota
	VisitKindFirst
	VisitKindRepeat
)

// ExtraMinutes returns the preparation buffer for the visit kind.
func (k VisitKind) ExtraMinutes() int {
	switch k {
	case VisitKindFirst:
		return 30
	case VisitKindRepeat:
		return 15
	default:
		return 0
	}
}

// Label returns the display label shown in the summary view.
func (k VisitKind) Label() string {
	switch k {
	case VisitKindFirst:
		return "初めて（+30分）"
	case VisitKindRepeat:
		return "2回目以降（+15分）"
	default:
		return ""
	}
}

// ShortLabel returns the label used in the confirmation message.
func (k VisitKind) ShortLabel() string {
	switch k {
	case VisitKindFirst:
		return "初めて"
	case VisitKindRepeat:
		return "2回目以降"
	default:
		return ""
	}
}

// ParseVisitKind maps the wire value to a VisitKind.
func ParseVisitKind(value string) (VisitKind, error) {
	switch strings.TrimSpace(value) {
	case "first":
		return VisitKindFirst, nil
	case "repeat":
		return VisitKindRepeat, nil
	default:
		return VisitKindUnknown, errors.New("来店回数の指定が不正です")
	}
}

// MenuItem is one entry of the page-embedded menu catalog.
type MenuItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"time"`
	Price           int    `json:"price"`
}

// Slot is a bookable time unit returned by the availability service.
type Slot struct {
	Time string `json:"time"`
}

// Contact holds the free-text customer fields. Name and phone are required.
type Contact struct {
	Name    string
	Phone   string
	Message string
}

// Contact field identifiers accepted by SetContactField.
const (
	ContactFieldName    = "name"
	ContactFieldPhone   = "phone"
	ContactFieldMessage = "message"
)

var (
	ErrPastDate        = errors.New("過去の日付は選択できません")
	ErrUnknownTimeSlot = errors.New("選択した時間枠は利用できません")
	ErrUnknownField    = errors.New("不明な入力フィールドです")
)

// SelectionState is the single source of truth for one booking session.
// It is mutated only by the transition methods below; all views derive
// from it without side effects.
type SelectionState struct {
	VisitKind VisitKind
	Menu      *MenuItem
	Date      *time.Time
	Time      string
	Contact   Contact
}

// SetVisitKind records the visit kind.
func (s *SelectionState) SetVisitKind(kind VisitKind) {
	s.VisitKind = kind
}

// SetMenu records the chosen menu item.
func (s *SelectionState) SetMenu(item MenuItem) {
	menu := item
	s.Menu = &menu
}

// SetDate records the chosen date and invalidates any chosen time.
// A time slot is only meaningful for the date it was fetched for.
func (s *SelectionState) SetDate(date time.Time, today time.Time) error {
	day := StartOfDay(date)
	if day.Before(StartOfDay(today)) {
		return ErrPastDate
	}
	s.Date = &day
	s.Time = ""
	return nil
}

// SetTime records a time slot. The slot must come from the set last
// returned by the availability fetch for the current date.
func (s *SelectionState) SetTime(value string, available []Slot) error {
	for _, slot := range available {
		if slot.Time == value {
			s.Time = value
			return nil
		}
	}
	return ErrUnknownTimeSlot
}

// SetContactField updates one contact field by identifier.
func (s *SelectionState) SetContactField(field, value string) error {
	switch field {
	case ContactFieldName:
		s.Contact.Name = value
	case ContactFieldPhone:
		s.Contact.Phone = value
	case ContactFieldMessage:
		s.Contact.Message = value
	default:
		return ErrUnknownField
	}
	return nil
}

// SelectionsMade reports whether visit kind, menu, date and time are all
// chosen. This controls summary visibility.
func (s *SelectionState) SelectionsMade() bool {
	return s.VisitKind != VisitKindUnknown && s.Menu != nil && s.Date != nil && s.Time != ""
}

// Complete reports whether the booking may be submitted: all selections
// made and the required contact fields filled.
func (s *SelectionState) Complete() bool {
	return s.SelectionsMade() &&
		strings.TrimSpace(s.Contact.Name) != "" &&
		strings.TrimSpace(s.Contact.Phone) != ""
}

// TotalDurationMinutes is menu duration plus the visit-kind buffer.
func (s *SelectionState) TotalDurationMinutes() int {
	if s.Menu == nil {
		return 0
	}
	return s.Menu.DurationMinutes + s.VisitKind.ExtraMinutes()
}

// StartOfDay truncates a time to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

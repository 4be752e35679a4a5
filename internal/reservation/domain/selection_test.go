package domain

import (
	"errors"
	"testing"
	"time"
)

var testMenu = MenuItem{ID: "cut", Name: "カット", DurationMinutes: 60, Price: 5000}

func jstDate(year int, month time.Month, day int) time.Time {
	loc := time.FixedZone("JST", 9*60*60)
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func completeState(t *testing.T, today time.Time) SelectionState {
	t.Helper()

	var state SelectionState
	state.SetVisitKind(VisitKindFirst)
	state.SetMenu(testMenu)
	if err := state.SetDate(today.AddDate(0, 0, 1), today); err != nil {
		t.Fatalf("SetDate: %v", err)
	}
	if err := state.SetTime("10:00", []Slot{{Time: "10:00"}, {Time: "11:00"}}); err != nil {
		t.Fatalf("SetTime: %v", err)
	}
	if err := state.SetContactField(ContactFieldName, "山田太郎"); err != nil {
		t.Fatalf("SetContactField(name): %v", err)
	}
	if err := state.SetContactField(ContactFieldPhone, "090-1234-5678"); err != nil {
		t.Fatalf("SetContactField(phone): %v", err)
	}
	return state
}

func TestParseVisitKind(t *testing.T) {
	cases := []struct {
		input   string
		want    VisitKind
		wantErr bool
	}{
		{input: "first", want: VisitKindFirst},
		{input: "repeat", want: VisitKindRepeat},
		{input: " first ", want: VisitKindFirst},
		{input: "", wantErr: true},
		{input: "third", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseVisitKind(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseVisitKind(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVisitKind(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseVisitKind(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestVisitKindExtraMinutes(t *testing.T) {
	if got := VisitKindFirst.ExtraMinutes(); got != 30 {
		t.Errorf("first visit buffer = %d, want 30", got)
	}
	if got := VisitKindRepeat.ExtraMinutes(); got != 15 {
		t.Errorf("repeat visit buffer = %d, want 15", got)
	}
	if got := VisitKindUnknown.ExtraMinutes(); got != 0 {
		t.Errorf("unknown visit buffer = %d, want 0", got)
	}
}

func TestCompleteRequiresEveryField(t *testing.T) {
	today := jstDate(2026, time.August, 31)
	full := completeState(t, today)
	if !full.Complete() {
		t.Fatal("fully populated state should be complete")
	}

	// Dropping any single piece must make the state incomplete.
	mutations := map[string]func(*SelectionState){
		"visitKind": func(s *SelectionState) { s.VisitKind = VisitKindUnknown },
		"menu":      func(s *SelectionState) { s.Menu = nil },
		"date":      func(s *SelectionState) { s.Date = nil },
		"time":      func(s *SelectionState) { s.Time = "" },
		"name":      func(s *SelectionState) { s.Contact.Name = "   " },
		"phone":     func(s *SelectionState) { s.Contact.Phone = "" },
	}
	for name, mutate := range mutations {
		state := full
		mutate(&state)
		if state.Complete() {
			t.Errorf("state without %s should not be complete", name)
		}
	}
}

func TestCompleteIsOrderIndependent(t *testing.T) {
	today := jstDate(2026, time.August, 31)
	date := today.AddDate(0, 0, 2)
	slots := []Slot{{Time: "14:00"}}

	// Contact first, selections afterwards.
	var state SelectionState
	if err := state.SetContactField(ContactFieldPhone, "090-0000-0000"); err != nil {
		t.Fatalf("SetContactField: %v", err)
	}
	if err := state.SetContactField(ContactFieldName, "佐藤花子"); err != nil {
		t.Fatalf("SetContactField: %v", err)
	}
	state.SetMenu(testMenu)
	if err := state.SetDate(date, today); err != nil {
		t.Fatalf("SetDate: %v", err)
	}
	if err := state.SetTime("14:00", slots); err != nil {
		t.Fatalf("SetTime: %v", err)
	}
	if state.Complete() {
		t.Fatal("state without visit kind should not be complete")
	}
	state.SetVisitKind(VisitKindRepeat)
	if !state.Complete() {
		t.Fatal("state should be complete once the last field arrives")
	}
}

func TestSetDateRejectsPast(t *testing.T) {
	today := jstDate(2026, time.August, 31)
	var state SelectionState
	if err := state.SetDate(today.AddDate(0, 0, -1), today); !errors.Is(err, ErrPastDate) {
		t.Fatalf("past date error = %v, want ErrPastDate", err)
	}
	if state.Date != nil {
		t.Fatal("rejected date must not be recorded")
	}
	if err := state.SetDate(today, today); err != nil {
		t.Fatalf("today should be selectable: %v", err)
	}
}

func TestSetDateClearsTime(t *testing.T) {
	today := jstDate(2026, time.August, 31)
	state := completeState(t, today)
	if state.Time == "" {
		t.Fatal("precondition: time selected")
	}
	if err := state.SetDate(today.AddDate(0, 0, 3), today); err != nil {
		t.Fatalf("SetDate: %v", err)
	}
	if state.Time != "" {
		t.Fatal("changing the date must clear the chosen time")
	}
	if state.Complete() {
		t.Fatal("state must not be complete while no time is chosen")
	}
}

func TestSetTimeRequiresKnownSlot(t *testing.T) {
	var state SelectionState
	slots := []Slot{{Time: "10:00"}, {Time: "11:00"}}
	if err := state.SetTime("12:00", slots); !errors.Is(err, ErrUnknownTimeSlot) {
		t.Fatalf("unknown slot error = %v, want ErrUnknownTimeSlot", err)
	}
	if err := state.SetTime("11:00", slots); err != nil {
		t.Fatalf("known slot rejected: %v", err)
	}
	if state.Time != "11:00" {
		t.Fatalf("time = %q, want 11:00", state.Time)
	}
}

func TestSetContactFieldUnknown(t *testing.T) {
	var state SelectionState
	if err := state.SetContactField("address", "東京都"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field error = %v, want ErrUnknownField", err)
	}
}

func TestTotalDurationMinutes(t *testing.T) {
	var state SelectionState
	if got := state.TotalDurationMinutes(); got != 0 {
		t.Fatalf("empty state duration = %d, want 0", got)
	}
	state.SetMenu(testMenu)
	state.SetVisitKind(VisitKindFirst)
	if got := state.TotalDurationMinutes(); got != 90 {
		t.Fatalf("duration = %d, want 90 (60 + 30)", got)
	}
	state.SetVisitKind(VisitKindRepeat)
	if got := state.TotalDurationMinutes(); got != 75 {
		t.Fatalf("duration = %d, want 75 (60 + 15)", got)
	}
}

func TestBuildPayload(t *testing.T) {
	today := jstDate(2026, time.August, 31)
	state := completeState(t, today)
	state.Contact.Message = "  駐車場はありますか  "

	payload, err := BuildPayload("demo-store", state)
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}

	if payload.StoreID != "demo-store" {
		t.Errorf("storeId = %q", payload.StoreID)
	}
	if payload.VisitTime != 30 {
		t.Errorf("visitTime = %d, want 30", payload.VisitTime)
	}
	if payload.TotalTime != 90 {
		t.Errorf("totalTime = %d, want 90", payload.TotalTime)
	}
	if payload.Date != "2026-09-01" {
		t.Errorf("date = %q, want 2026-09-01", payload.Date)
	}
	if payload.Time != "10:00" {
		t.Errorf("time = %q, want 10:00", payload.Time)
	}
	if payload.CustomerMessage != "駐車場はありますか" {
		t.Errorf("customerMessage = %q, should be trimmed", payload.CustomerMessage)
	}
	if payload.Menu.ID != "cut" || payload.Menu.DurationMinutes != 60 {
		t.Errorf("menu = %+v", payload.Menu)
	}
}

func TestBuildPayloadRejectsIncomplete(t *testing.T) {
	var state SelectionState
	if _, err := BuildPayload("demo-store", state); err == nil {
		t.Fatal("incomplete state must not produce a payload")
	}
}

func TestBuildSummary(t *testing.T) {
	today := jstDate(2026, time.August, 31)

	t.Run("hidden until selections made", func(t *testing.T) {
		var state SelectionState
		state.SetVisitKind(VisitKindFirst)
		state.SetMenu(testMenu)
		if got := BuildSummary(state); got.Visible {
			t.Fatal("summary must stay hidden before date and time are chosen")
		}
	})

	t.Run("placeholders before contact entry", func(t *testing.T) {
		state := completeState(t, today)
		state.Contact = Contact{}
		got := BuildSummary(state)
		if !got.Visible {
			t.Fatal("summary should be visible")
		}
		if got.Name != "未入力" || got.Phone != "未入力" {
			t.Errorf("placeholders = %q / %q", got.Name, got.Phone)
		}
	})

	t.Run("pure derivation", func(t *testing.T) {
		state := completeState(t, today)
		first := BuildSummary(state)
		second := BuildSummary(state)
		if first != second {
			t.Fatalf("summary not stable: %+v vs %+v", first, second)
		}
		if first.VisitLabel != "初めて（+30分）" {
			t.Errorf("visitLabel = %q", first.VisitLabel)
		}
		if first.MenuLabel != "カット (60分・¥5000)" {
			t.Errorf("menuLabel = %q", first.MenuLabel)
		}
		if first.DateTime != "9月1日(火) 10:00" {
			t.Errorf("dateTime = %q", first.DateTime)
		}
	})
}

func TestFormatDateJa(t *testing.T) {
	d := jstDate(2026, time.August, 31)
	if got := FormatDateJa(d); got != "8月31日(月)" {
		t.Errorf("FormatDateJa = %q", got)
	}
	if got := FormatDateLongJa(d); got != "2026年8月31日(月)" {
		t.Errorf("FormatDateLongJa = %q", got)
	}
}

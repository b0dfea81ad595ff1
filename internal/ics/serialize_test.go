package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"schedule-scribe-go/internal/types"
)

func ts(t time.Time) types.Timestamp { return types.Timestamp{Time: t} }

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	p := ve.GetProperty(prop)
	if p == nil {
		return ""
	}
	return p.Value
}

func TestSerialize_RoundTrip(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	events := []types.StructuredEvent{{
		Title:       "Team sync",
		Start:       ts(start),
		End:         ts(start.Add(30 * time.Minute)),
		Description: "Weekly planning sync",
		Location:    "Room 4",
		Frequency:   "WEEKLY",
		Days:        []string{"MO", "WE"},
	}}

	doc, err := Serialize(events)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("document does not parse back: %v", err)
	}
	parsed := cal.Events()
	if len(parsed) != 1 {
		t.Fatalf("expected 1 component, got %d", len(parsed))
	}

	ve := parsed[0]
	if got := propValue(ve, ical.ComponentPropertySummary); got != "Team sync" {
		t.Fatalf("summary = %q", got)
	}
	if got := propValue(ve, ical.ComponentPropertyDescription); got != "Weekly planning sync" {
		t.Fatalf("description = %q", got)
	}
	if got := propValue(ve, ical.ComponentPropertyLocation); got != "Room 4" {
		t.Fatalf("location = %q", got)
	}
	gotStart, err := ve.GetStartAt()
	if err != nil || !gotStart.Equal(start) {
		t.Fatalf("start = %v (err %v), want %v", gotStart, err, start)
	}
	gotEnd, err := ve.GetEndAt()
	if err != nil || !gotEnd.Equal(start.Add(30*time.Minute)) {
		t.Fatalf("end = %v (err %v)", gotEnd, err)
	}
	if got := propValue(ve, ical.ComponentPropertyRrule); got != "FREQ=WEEKLY;BYDAY=MO,WE" {
		t.Fatalf("rrule = %q", got)
	}
}

func TestSerialize_DropsInvalidDayTokens(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	doc, err := Serialize([]types.StructuredEvent{{
		Title:     "Standup",
		Start:     ts(start),
		End:       ts(start.Add(15 * time.Minute)),
		Frequency: "WEEKLY",
		Days:      []string{"MO", "XX", "WE"},
	}})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.Contains(doc, "BYDAY=MO,WE") {
		t.Fatalf("expected BYDAY=MO,WE in document:\n%s", doc)
	}
	if strings.Contains(doc, "XX") {
		t.Fatalf("invalid token leaked into document:\n%s", doc)
	}
}

func TestSerialize_AllInvalidDaysOmitsByDay(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	doc, err := Serialize([]types.StructuredEvent{{
		Title:     "Review",
		Start:     ts(start),
		End:       ts(start.Add(time.Hour)),
		Frequency: "DAILY",
		Days:      []string{"XX", "MOWEFR"},
	}})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.Contains(doc, "RRULE:FREQ=DAILY") {
		t.Fatalf("expected FREQ rule in document:\n%s", doc)
	}
	if strings.Contains(doc, "BYDAY") {
		t.Fatalf("BYDAY must be omitted when no valid days remain:\n%s", doc)
	}
}

func TestSerialize_OneOffHasNoRrule(t *testing.T) {
	start := time.Date(2024, 2, 1, 14, 0, 0, 0, time.UTC)
	doc, err := Serialize([]types.StructuredEvent{{
		Title: "Dentist",
		Start: ts(start),
		End:   ts(start.Add(time.Hour)),
	}})
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if strings.Contains(doc, "RRULE") {
		t.Fatalf("one-off event must not carry an RRULE:\n%s", doc)
	}
	if strings.Contains(doc, "DESCRIPTION") || strings.Contains(doc, "LOCATION") {
		t.Fatalf("empty optional properties must be omitted:\n%s", doc)
	}
}

func TestSerialize_EmptyInputIsValidEmptyCalendar(t *testing.T) {
	doc, err := Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("empty calendar does not parse: %v", err)
	}
	if got := len(cal.Events()); got != 0 {
		t.Fatalf("expected 0 components, got %d", got)
	}
}

func TestSerialize_InvalidEventFailsWholeDocument(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	doc, err := Serialize([]types.StructuredEvent{
		{Title: "Good", Start: ts(start), End: ts(start.Add(time.Hour))},
		{Title: "", Start: ts(start), End: ts(start.Add(time.Hour))},
	})
	if err == nil {
		t.Fatal("expected error for invalid event")
	}
	if doc != "" {
		t.Fatalf("partial document returned: %q", doc)
	}
}

func TestRecurrenceRule(t *testing.T) {
	start := ts(time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC))
	end := ts(time.Date(2024, 1, 8, 11, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		ev   types.StructuredEvent
		want string
	}{
		{name: "none", ev: types.StructuredEvent{Title: "a", Start: start, End: end}, want: ""},
		{name: "weekly with days", ev: types.StructuredEvent{Title: "a", Start: start, End: end, Frequency: "WEEKLY", Days: []string{"MO", "WE"}}, want: "FREQ=WEEKLY;BYDAY=MO,WE"},
		{name: "monthly no days", ev: types.StructuredEvent{Title: "a", Start: start, End: end, Frequency: "MONTHLY"}, want: "FREQ=MONTHLY"},
		{name: "lowercase frequency", ev: types.StructuredEvent{Title: "a", Start: start, End: end, Frequency: "yearly"}, want: "FREQ=YEARLY"},
		{name: "unknown frequency", ev: types.StructuredEvent{Title: "a", Start: start, End: end, Frequency: "SOMETIMES"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RecurrenceRule(tt.ev); got != tt.want {
				t.Fatalf("RecurrenceRule() = %q, want %q", got, tt.want)
			}
		})
	}
}

package ics

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"schedule-scribe-go/internal/types"
)

// Serialize assembles structured events into a single ICS document. Every
// event becomes exactly one VEVENT; if any event fails validation the whole
// document fails, partial documents are never produced. An empty event list
// yields a valid empty calendar.
func Serialize(events []types.StructuredEvent) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)

	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return "", fmt.Errorf("event %d: %w", i, err)
		}

		ve := cal.AddEvent(uuid.New().String())
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetSummary(ev.Title)
		ve.SetStartAt(ev.Start.UTC())
		ve.SetEndAt(ev.End.UTC())
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			ve.SetLocation(ev.Location)
		}
		if rule := RecurrenceRule(ev); rule != "" {
			ve.AddRrule(rule)
		}
	}

	return cal.Serialize(), nil
}

// RecurrenceRule renders the RRULE value for an event, or "" for one-off
// events. Day tokens outside the canonical MO..SU vocabulary are dropped
// silently; if none survive, the rule carries FREQ alone.
func RecurrenceRule(ev types.StructuredEvent) string {
	freq, ok := types.ParseFrequency(ev.Frequency)
	if !ok || freq == types.FreqNone {
		return ""
	}
	rule := "FREQ=" + string(freq)
	if days := types.FilterDays(ev.Days); len(days) > 0 {
		rule += ";BYDAY=" + strings.Join(days, ",")
	}
	return rule
}

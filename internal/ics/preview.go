package ics

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"schedule-scribe-go/internal/types"
)

const maxPreviewPerEvent = 10

// Occurrence is one concrete instance of an event inside a preview window.
type Occurrence struct {
	Title string
	Start time.Time
	End   time.Time
}

// Preview expands each event's occurrences within [from, from+horizon) so
// callers can show the user what the generated calendar actually contains.
// One-off events contribute their single instance when it falls inside the
// window; recurring events are expanded through their recurrence rule, capped
// per event to keep output bounded. Events whose rule fails to parse are
// skipped rather than failing the preview.
func Preview(events []types.StructuredEvent, from time.Time, horizon time.Duration) []Occurrence {
	until := from.Add(horizon)
	out := make([]Occurrence, 0, len(events))

	for _, ev := range events {
		rule := RecurrenceRule(ev)
		if rule == "" {
			if ev.Start.Before(from) || !ev.Start.Before(until) {
				continue
			}
			out = append(out, Occurrence{Title: ev.Title, Start: ev.Start.Time, End: ev.End.Time})
			continue
		}

		r, err := rrule.StrToRRule(rule)
		if err != nil {
			continue
		}
		r.DTStart(ev.Start.UTC())

		duration := ev.End.Sub(ev.Start.Time)
		starts := r.Between(from, until, true)
		if len(starts) > maxPreviewPerEvent {
			starts = starts[:maxPreviewPerEvent]
		}
		for _, s := range starts {
			out = append(out, Occurrence{Title: ev.Title, Start: s, End: s.Add(duration)})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

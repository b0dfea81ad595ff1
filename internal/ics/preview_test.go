package ics

import (
	"testing"
	"time"

	"schedule-scribe-go/internal/types"
)

func TestPreview_WeeklyExpansion(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC) // a Monday
	events := []types.StructuredEvent{{
		Title:     "Team sync",
		Start:     ts(start),
		End:       ts(start.Add(30 * time.Minute)),
		Frequency: "WEEKLY",
		Days:      []string{"MO", "WE"},
	}}

	from := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	occs := Preview(events, from, 7*24*time.Hour)

	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if !occs[0].Start.Equal(start) {
		t.Fatalf("first occurrence = %v, want %v", occs[0].Start, start)
	}
	wednesday := start.Add(2 * 24 * time.Hour)
	if !occs[1].Start.Equal(wednesday) {
		t.Fatalf("second occurrence = %v, want %v", occs[1].Start, wednesday)
	}
	if got := occs[1].End.Sub(occs[1].Start); got != 30*time.Minute {
		t.Fatalf("occurrence duration = %v, want 30m", got)
	}
}

func TestPreview_OneOffWindowing(t *testing.T) {
	inside := time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	events := []types.StructuredEvent{
		{Title: "Inside", Start: ts(inside), End: ts(inside.Add(time.Hour))},
		{Title: "Outside", Start: ts(outside), End: ts(outside.Add(time.Hour))},
	}

	from := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	occs := Preview(events, from, 14*24*time.Hour)

	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	if occs[0].Title != "Inside" {
		t.Fatalf("unexpected occurrence %q", occs[0].Title)
	}
}

func TestPreview_SortedAcrossEvents(t *testing.T) {
	early := time.Date(2024, 1, 9, 9, 0, 0, 0, time.UTC)
	later := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC)
	events := []types.StructuredEvent{
		{Title: "Later", Start: ts(later), End: ts(later.Add(time.Hour))},
		{Title: "Early", Start: ts(early), End: ts(early.Add(time.Hour))},
	}

	from := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	occs := Preview(events, from, 7*24*time.Hour)

	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if occs[0].Title != "Early" || occs[1].Title != "Later" {
		t.Fatalf("occurrences out of order: %q then %q", occs[0].Title, occs[1].Title)
	}
}

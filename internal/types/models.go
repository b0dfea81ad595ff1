package types

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the recurrence frequency of a structured event. The empty
// value means the event does not repeat.
type Frequency string

const (
	FreqNone    Frequency = ""
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
	FreqYearly  Frequency = "YEARLY"
)

// ParseFrequency normalizes a model-emitted frequency token. "NONE" and the
// empty string both map to FreqNone. Unknown tokens report ok=false.
func ParseFrequency(s string) (Frequency, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return FreqNone, true
	case "DAILY":
		return FreqDaily, true
	case "WEEKLY":
		return FreqWeekly, true
	case "MONTHLY":
		return FreqMonthly, true
	case "YEARLY":
		return FreqYearly, true
	default:
		return FreqNone, false
	}
}

var validDays = map[string]struct{}{
	"MO": {}, "TU": {}, "WE": {}, "TH": {}, "FR": {}, "SA": {}, "SU": {},
}

// FilterDays keeps only canonical two-letter day codes, preserving input
// order and dropping duplicates. Unrecognized tokens (including combined
// strings like "MOWEFR") are dropped silently, never rejected as errors.
func FilterDays(days []string) []string {
	out := make([]string, 0, len(days))
	seen := map[string]struct{}{}
	for _, d := range days {
		d = strings.ToUpper(strings.TrimSpace(d))
		if _, ok := validDays[d]; !ok {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Timestamp wraps time.Time so model output can be decoded from the handful
// of ISO-ish layouts the extraction prompt allows. Values without an offset
// are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339) + `"`), nil
}

// ClarifiedSchedule is the restated schedule text produced by the
// clarification stage.
type ClarifiedSchedule struct {
	ClarifiedText string `json:"clarified_text"`
}

// EventDescription is one self-contained natural-language event produced by
// the segmentation stage.
type EventDescription struct {
	Description string `json:"description"`
}

// StructuredEvent is the canonical calendar event extracted from one
// EventDescription. It is never mutated after extraction.
type StructuredEvent struct {
	Title       string    `json:"title"`
	Start       Timestamp `json:"start_datetime"`
	End         Timestamp `json:"end_datetime"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Frequency   string    `json:"frequency"`
	Days        []string  `json:"days"`
}

// Validate checks the invariants the serializer relies on. Day tokens are
// deliberately not validated here; invalid ones are filtered at
// serialization time.
func (e StructuredEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title is empty")
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return fmt.Errorf("event %q is missing start or end time", e.Title)
	}
	if e.End.Before(e.Start.Time) {
		return fmt.Errorf("event %q ends before it starts", e.Title)
	}
	if _, ok := ParseFrequency(e.Frequency); !ok {
		return fmt.Errorf("event %q has unknown frequency %q", e.Title, e.Frequency)
	}
	return nil
}

package pipeline

import "fmt"

// The three stage prompts all carry the run's reference date so relative
// expressions ("next Tuesday") resolve identically across the whole run.

func clarifySystemPrompt(refDate string) string {
	return fmt.Sprintf(`You are an assistant that clarifies and structures unorganized schedule descriptions. Today's date is %s. Rewrite the user's input as a clear, organized schedule, interpreting relative dates against today's date.

Respond with ONLY a JSON object of this shape:
{"clarified_text": "<the clarified schedule>"}`, refDate)
}

func clarifyUserPrompt(input string) string {
	return "Clarify and structure this schedule description: " + input
}

func segmentSystemPrompt(refDate string) string {
	return fmt.Sprintf(`You are an assistant that splits a clarified schedule into individual event descriptions. Today's date is %s. Each item must be self-contained: it names the event and states its description, start, end, and recurrence, without relying on the other items.

Respond with ONLY a JSON object of this shape:
{"events": [{"description": "<one event>"}]}

If the schedule describes no events, return {"events": []}.`, refDate)
}

func segmentUserPrompt(clarified string) string {
	return "Split this schedule into individual events: " + clarified
}

func structureSystemPrompt(refDate string) string {
	return fmt.Sprintf(`You are an assistant that converts one event description into structured calendar event data. Today's date is %s; resolve all relative dates against it.

Respond with ONLY a JSON object of this shape:
{
  "title": "",
  "start_datetime": "",
  "end_datetime": "",
  "description": "",
  "location": "",
  "frequency": "",
  "days": []
}

Rules:
1. start_datetime and end_datetime are absolute timestamps in ISO format (YYYY-MM-DDTHH:MM:SS).
2. For recurring events, frequency is exactly one of DAILY, WEEKLY, MONTHLY, YEARLY. For one-off events leave it empty.
3. days is a list of individual two-letter abbreviations from: MO, TU, WE, TH, FR, SA, SU.
   Example of the correct format: ["MO", "WE", "FR"] for Monday, Wednesday, Friday.
   Never combine abbreviations into a single string.`, refDate)
}

func structureUserPrompt(description string) string {
	return "Convert this event description to calendar event data: " + description
}

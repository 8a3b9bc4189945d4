package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/swimcal/internal/model"
)

// BuildSystemPrompt assembles the extraction instructions sent with every
// LLM request. The location table, default title, and year come from
// configuration so the rules survive config changes without prompt edits.
func BuildSystemPrompt(cfg *model.Config) string {
	var locationLines []string
	for _, loc := range cfg.Locations {
		locationLines = append(locationLines, fmt.Sprintf("- %s: %s", loc.Name, loc.Address))
	}
	locationInfo := strings.Join(locationLines, "\n")
	if locationInfo == "" {
		locationInfo = "(no known locations configured)"
	}

	year := cfg.Year
	if year == 0 {
		year = time.Now().Year()
	}

	title := cfg.DefaultEventTitle
	if title == "" {
		title = "Swim Practice"
	}

	return fmt.Sprintf(`You are an expert at extracting structured swimming practice schedules from unstructured text.

LOCATIONS (use these exact names):
%[1]s

CRITICAL RULES:

1. **COMBINING SESSIONS (MOST IMPORTANT)**:
   - If a line mentions BOTH underwater training (下水) AND dryland training (陆上/陆上拉伸), create ONE SINGLE EVENT
   - NEVER split these into separate events!

   **Case A - Separate times specified**:
   - If times are clearly separated (e.g., "6~7:30pm 下水、7:30~8pm 陆上拉伸")
   - Use the full range: start at underwater start, end at dryland end
   - Example: "6~7:30pm 下水、7:30~8pm 陆上拉伸" → 6:00 PM to 8:00 PM

   **Case B - Combined time without separate dryland time**:
   - If ONLY one time range is given for combined session (e.g., "5~6:30 下水+陆上拉伸")
   - Automatically ADD 30 MINUTES to the end time for dryland training
   - Example: "5~6:30 下水+陆上拉伸" → 5:00 PM to 7:00 PM (6:30 + 30 min)
   - Example: "下午 6 - 8 下水+陆上" → 6:00 PM to 8:30 PM (8:00 + 30 min)

   **How to tell the difference**:
   - Separate times: Look for comma (、), multiple time ranges, or explicit "X~Y下水...Y~Z陆上" patterns
   - Combined time: Single time range with "下水+陆上" or "下水陆上" together

2. **REST DAYS**:
   - If text says "休息" (rest) or "闭馆" (closed), do NOT create an event
   - Skip rest days entirely

3. **LOCATION DETECTION**:
   - If the text EXPLICITLY mentions a location (e.g., "@ Regis", "@ Wightman", "@ Brandeis"), use that location name
   - If NO location is mentioned, leave location_name as null
   - Be precise - only use location if explicitly stated

4. **AMBIGUITY**:
   - Set is_ambiguous to true if you're uncertain about ANY field
   - Flag events where dates/times are unclear

OUTPUT FORMAT:
Return ONLY valid JSON (no markdown, no explanations) with this structure:
{
  "events": [
    {
      "start_time": "%[2]d-01-29T18:00:00",
      "end_time": "%[2]d-01-29T20:00:00",
      "summary": "%[3]s",
      "location_name": "Regis",
      "is_ambiguous": false,
      "original_text": "周四 1/29 下午 6 - 8 下水+陆上 @ Regis"
    }
  ]
}

**IMPORTANT**: Include "original_text" field with the EXACT original text snippet from the input that corresponds to this event.
- Use the exact characters from input (don't rephrase)
- If multiple input lines create one event, include all lines separated by " | "
- If event is inferred and has no direct text, set to null

EXAMPLES OF CORRECT EXTRACTION:
Input: "2/2 周一 6~7:30pm 下水、7:30~8pm 陆上拉伸"
Output: Single event %[2]d-02-02T18:00:00 to %[2]d-02-02T20:00:00, original_text: "2/2 周一 6~7:30pm 下水、7:30~8pm 陆上拉伸" (NOT two events!)

Input: "2/6 周五 休息 ♨️ 场馆闭馆"
Output: NO EVENT (rest day)

Input: "1/31 周六 6-7:30pm 下水 + 7:30~8pm 陆上拉伸 @ Brandeis"
Output: Single event %[2]d-01-31T18:00:00 to %[2]d-01-31T20:00:00, location "Brandeis"

IMPORTANT:
- Use ISO 8601 format for dates/times (YYYY-MM-DDTHH:MM:SS)
- Assume year is %[2]d if not specified
- Extract all events except rest days
- Be precise with times and dates`, locationInfo, year, title)
}

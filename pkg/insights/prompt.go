package insights

import (
	"fmt"
	"strings"

	"github.com/unowned-ai/moodlog/pkg/checkins"
	"github.com/unowned-ai/moodlog/pkg/mood"
)

const maxNoteRunes = 200

const responseShape = `Respond ONLY with a JSON object of this shape, no additional text:
{
  "analysis": "2-3 sentences describing the emotional pattern of the day",
  "insights": ["observation", "..."],
  "recommendations": ["actionable suggestion", "..."],
  "dailyTips": ["short tip for tomorrow", "..."],
  "motivationalMessage": "one encouraging sentence",
  "warningFlags": ["only if the day suggests the user may need outside support"]
}`

// EntryLine renders one check-in compactly as "<feelings> (<intensity>/100)".
func EntryLine(c checkins.CheckIn) string {
	return fmt.Sprintf("%s (%d/100)", c.Feelings, c.EmotionIntensity)
}

// BuildPrompt renders the aggregate and the day's check-ins into a single
// prompt for the model.
func BuildPrompt(entries []checkins.CheckIn, agg mood.Aggregate) string {
	var b strings.Builder

	b.WriteString("You are a supportive emotional wellness assistant. ")
	b.WriteString("Analyse one day of a user's emotion check-ins and respond with caring, practical guidance.\n\n")

	b.WriteString("Daily statistics:\n")
	fmt.Fprintf(&b, "- Total check-ins: %d\n", agg.TotalEntries)
	fmt.Fprintf(&b, "- Emotional score: %d (scale -100 to 100)\n", agg.EmotionalScore)
	fmt.Fprintf(&b, "- Emotional state: %s\n", agg.EmotionalState)
	fmt.Fprintf(&b, "- Band: %s\n\n", agg.Band)

	b.WriteString("Check-ins:\n")
	for _, e := range entries {
		b.WriteString("- ")
		b.WriteString(EntryLine(e))
		if len(e.Activities) > 0 {
			fmt.Fprintf(&b, " activities: %s", strings.Join(e.Activities, ", "))
		}
		if note := truncateRunes(strings.TrimSpace(e.Notes), maxNoteRunes); note != "" {
			fmt.Fprintf(&b, " notes: %q", note)
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(responseShape)
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

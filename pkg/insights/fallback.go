package insights

import (
	"fmt"

	"github.com/unowned-ai/moodlog/pkg/mood"
)

// supportThreshold is the score below which a negative day carries a warning flag.
const supportThreshold = -50

const supportWarning = "Your mood has been very low today. Consider reaching out to someone you trust or a mental health professional for support."

type stateCopy struct {
	assessment      string
	recommendations []string
	tips            []string
	motivation      string
}

var fallbackCopy = map[mood.State]stateCopy{
	mood.StatePositive: {
		assessment: "your overall mood has been positive",
		recommendations: []string{
			"Note what went well today so you can come back to it on harder days.",
			"Share some of this energy with someone you care about.",
			"Keep up the routines and activities that lifted your mood.",
		},
		tips: []string{
			"Write down one thing you are grateful for before bed.",
			"Protect your sleep so tomorrow starts just as well.",
		},
		motivation: "You're doing great. Let today's good moments carry you into tomorrow!",
	},
	mood.StateNegative: {
		assessment: "today has been emotionally difficult",
		recommendations: []string{
			"Take a few minutes for slow, deep breathing to ground yourself.",
			"Be gentle with yourself: rest, drink water and eat something nourishing.",
			"Reach out to a friend or family member and talk about how you feel.",
		},
		tips: []string{
			"Step outside for a short walk, even just ten minutes.",
			"Limit screens in the hour before sleep.",
		},
		motivation: "Hard days don't last forever. Be kind to yourself, you're not alone in this.",
	},
	mood.StateNeutral: {
		assessment: "your mood has been fairly balanced",
		recommendations: []string{
			"Check in with yourself again later to notice any shifts.",
			"Add one small activity you enjoy to the rest of your day.",
			"Move your body for a few minutes to lift your energy.",
		},
		tips: []string{
			"Try a short mindfulness exercise to tune into how you feel.",
			"Plan one thing to look forward to tomorrow.",
		},
		motivation: "Steady days are a good foundation. Keep showing up for yourself.",
	},
}

// Fallback synthesizes insights from the aggregate alone. It performs no I/O
// and always returns a non-empty analysis and motivational message.
func Fallback(agg mood.Aggregate) DailySummaryAI {
	sc, ok := fallbackCopy[agg.EmotionalState]
	if !ok {
		sc = fallbackCopy[mood.StateNeutral]
	}

	var framing string
	if agg.TotalEntries <= 1 {
		framing = "Based on your first check-in today"
	} else {
		framing = fmt.Sprintf("After %d check-ins today", agg.TotalEntries)
	}

	out := DailySummaryAI{
		Analysis: fmt.Sprintf("%s, %s, with an emotional score of %d on a scale from -100 to 100.",
			framing, sc.assessment, agg.EmotionalScore),
		Insights: []string{
			fmt.Sprintf("Your emotional state today is %s.", stateName(agg.EmotionalState)),
			fmt.Sprintf("You logged %s today.", checkInCount(agg.TotalEntries)),
		},
		Recommendations:     append([]string(nil), sc.recommendations...),
		DailyTips:           append([]string(nil), sc.tips...),
		MotivationalMessage: sc.motivation,
		WarningFlags:        []string{},
		Source:              SourceFallback,
	}

	if agg.EmotionalState == mood.StateNegative && agg.EmotionalScore < supportThreshold {
		out.WarningFlags = append(out.WarningFlags, supportWarning)
	}

	return out
}

func stateName(s mood.State) string {
	if s == "" {
		return string(mood.StateNeutral)
	}
	return string(s)
}

func checkInCount(n int) string {
	if n == 1 {
		return "1 check-in"
	}
	return fmt.Sprintf("%d check-ins", n)
}

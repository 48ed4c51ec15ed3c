package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyResponse = errors.New("empty AI response")
	ErrNoJSONObject  = errors.New("no JSON object found in AI response")
)

// DefaultMotivationalMessage replaces a missing motivationalMessage in an AI response.
const DefaultMotivationalMessage = "Every check-in is a step toward understanding yourself better. Keep going."

// ExtractJSONObject returns the first balanced {...} span in text that is a
// valid JSON object. Models often wrap their JSON in prose or code fences, so
// every '{' is tried as a start in order. Braces inside JSON strings are
// ignored while balancing.
func ExtractJSONObject(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end, ok := balancedEnd(text, start); ok {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return candidate, nil
			}
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	return "", ErrNoJSONObject
}

// balancedEnd finds the index of the '}' closing the '{' at start.
func balancedEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// ParseResponse extracts and decodes a DailySummaryAI from raw model output.
// Missing or mistyped fields are filled from base rather than failing: list
// fields become empty, a missing analysis takes base.Analysis and a missing
// motivational message becomes DefaultMotivationalMessage.
func ParseResponse(text string, base DailySummaryAI) (DailySummaryAI, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return DailySummaryAI{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return DailySummaryAI{}, fmt.Errorf("failed to decode AI response: %w", err)
	}

	out := DailySummaryAI{
		Analysis:            stringField(fields, "analysis"),
		Insights:            listField(fields, "insights"),
		Recommendations:     listField(fields, "recommendations"),
		DailyTips:           listField(fields, "dailyTips", "daily_tips"),
		MotivationalMessage: stringField(fields, "motivationalMessage", "motivational_message"),
		WarningFlags:        listField(fields, "warningFlags", "warning_flags"),
		Source:              SourceAI,
	}

	if out.Analysis == "" {
		out.Analysis = base.Analysis
	}
	if out.MotivationalMessage == "" {
		out.MotivationalMessage = DefaultMotivationalMessage
	}

	return out, nil
}

func lookupField(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]json.RawMessage, keys ...string) string {
	v, ok := lookupField(fields, keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// listField accepts an array (non-string and blank elements dropped) or a bare
// string, which becomes a one-element list. Anything else yields an empty list.
func listField(fields map[string]json.RawMessage, keys ...string) []string {
	out := []string{}

	v, ok := lookupField(fields, keys...)
	if !ok {
		return out
	}

	var single string
	if err := json.Unmarshal(v, &single); err == nil {
		if s := strings.TrimSpace(single); s != "" {
			out = append(out, s)
		}
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

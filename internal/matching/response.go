package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"alfredoptarigan/job-matcher/internal/models"
)

var errNoJSONObject = errors.New("no JSON object in delegate response")

// ExtractJSONObject returns the first balanced {...} object in text. Braces
// inside JSON strings are ignored.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	for start != -1 {
		if end := balancedEnd(text, start); end != -1 {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseDelegateResponse turns a delegate's text into a MatchResult shaped like
// the heuristic's output. A missing or non-numeric score is an error.
func ParseDelegateResponse(text, resumeText string) (models.MatchResult, error) {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return models.MatchResult{}, errNoJSONObject
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.MatchResult{}, fmt.Errorf("failed to unmarshal delegate JSON: %w", err)
	}

	score, ok := coerceFloat(payload["score"])
	if !ok {
		return models.MatchResult{}, fmt.Errorf("delegate response has no numeric score")
	}

	explanation, _ := coerceString(payload["explanation"])
	if strings.TrimSpace(explanation) == "" {
		explanation = fallbackExplanation
	}

	resumeSkills := ExtractSkills(resumeText)
	if len(resumeSkills) > maxResumeSkills {
		resumeSkills = resumeSkills[:maxResumeSkills]
	}

	return models.MatchResult{
		Score:         clampScore(roundHalfUp(score)),
		Explanation:   strings.TrimSpace(explanation),
		MatchedSkills: coerceStrings(payload["matchedSkills"]),
		ResumeSkills:  resumeSkills,
	}, nil
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%")), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

func coerceStrings(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

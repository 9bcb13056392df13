package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/interview-assistant/internal/session"
)

var (
	// ErrNoQuestions is returned when the model output holds no question list.
	ErrNoQuestions = errors.New("ai response contains no questions")
	// ErrMalformedResponse is returned when the model output does not fit the expected shape.
	ErrMalformedResponse = errors.New("malformed ai response")
)

const (
	defaultScore = 5
	minScore     = 1
	maxScore     = 10
)

var (
	arrayPattern   = regexp.MustCompile(`(?s)\[.*\]`)
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseQuestions extracts the JSON array from raw and validates it as an
// interview question list. Difficulty is matched case-insensitively and a
// missing or non-positive time limit falls back to the tier default.
func ParseQuestions(raw string) ([]GeneratedQuestion, error) {
	body := arrayPattern.FindString(extractJSON(raw))
	if body == "" {
		return nil, ErrNoQuestions
	}

	var items []map[string]any
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return nil, ErrNoQuestions
	}

	var questions []GeneratedQuestion
	if err := mapstructure.WeakDecode(items, &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(questions) != session.QuestionCount {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ErrMalformedResponse, session.QuestionCount, len(questions))
	}

	for idx := range questions {
		q := &questions[idx]
		q.Content = strings.TrimSpace(q.Content)
		if q.Content == "" {
			return nil, fmt.Errorf("%w: question %d has no content", ErrMalformedResponse, idx+1)
		}

		q.Difficulty = normalizeDifficulty(q.Difficulty)
		if !q.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: question %d has unknown difficulty %q", ErrMalformedResponse, idx+1, q.Difficulty)
		}

		if q.TimeLimit <= 0 {
			q.TimeLimit = q.Difficulty.DefaultTimeLimit()
		}
	}

	return questions, nil
}

// ParseScore reads the leading integer of raw and clamps it to 1..10.
// Anything else scores 5.
func ParseScore(raw string) int {
	match := leadingInteger.FindString(strings.TrimSpace(extractJSON(raw)))
	if match == "" {
		return defaultScore
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		// Only overflow gets here. The sign still says which bound applies.
		if strings.HasPrefix(match, "-") {
			return minScore
		}
		return maxScore
	}

	switch {
	case score < minScore:
		return minScore
	case score > maxScore:
		return maxScore
	default:
		return score
	}
}

func normalizeDifficulty(d session.Difficulty) session.Difficulty {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "easy":
		return session.Easy
	case "medium":
		return session.Medium
	case "hard":
		return session.Hard
	default:
		return d
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

package assessment

import (
	"fmt"
	"sort"
	"strings"
)

const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"

	MinAnswer = 0
	MaxAnswer = 3
)

// QuestionKeys are the eight fixed questionnaire slots, in order.
var QuestionKeys = [8]string{
	"question_1", // little interest or pleasure in doing things
	"question_2", // feeling down, depressed, or hopeless
	"question_3", // feeling nervous, anxious, or on edge
	"question_4", // not being able to stop or control worrying
	"question_5", // trouble falling or staying asleep
	"question_6", // feeling tired or having little energy
	"question_7", // trouble concentrating on things
	"question_8", // feeling overwhelmed by daily tasks
}

var recommendations = map[string]string{
	RiskLow:      "Your assessment indicates minimal symptoms. Continue practicing self-care and maintain healthy habits. Consider occasional check-ins with mental health resources.",
	RiskModerate: "Your assessment indicates moderate symptoms. Consider speaking with a mental health professional for guidance. Practice stress management techniques and maintain social connections.",
	RiskHigh:     "Your assessment indicates significant symptoms. We strongly recommend speaking with a mental health professional soon. Don't hesitate to reach out for support - you don't have to face this alone.",
}

type Result struct {
	Scores         [8]int
	Total          int
	RiskLevel      string
	Recommendation string
}

// Score sums the eight slots (missing keys count as 0) and derives the tier.
func Score(answers map[string]int) Result {
	var r Result
	for i, k := range QuestionKeys {
		r.Scores[i] = answers[k]
		r.Total += r.Scores[i]
	}
	r.RiskLevel = RiskLevel(r.Total)
	r.Recommendation = Recommendation(r.RiskLevel)
	return r
}

func RiskLevel(total int) string {
	switch {
	case total <= 8:
		return RiskLow
	case total <= 16:
		return RiskModerate
	default:
		return RiskHigh
	}
}

func Recommendation(level string) string {
	if text, ok := recommendations[level]; ok {
		return text
	}
	return recommendations[RiskModerate]
}

// ValidationError lists every rejected answer.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid answers: " + strings.Join(e.Problems, "; ")
}

// ValidateAnswers rejects unknown keys and values outside MinAnswer..MaxAnswer.
func ValidateAnswers(answers map[string]int) error {
	known := make(map[string]struct{}, len(QuestionKeys))
	for _, k := range QuestionKeys {
		known[k] = struct{}{}
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var problems []string
	for _, k := range keys {
		if _, ok := known[k]; !ok {
			problems = append(problems, fmt.Sprintf("unknown question %q", k))
			continue
		}
		if v := answers[k]; v < MinAnswer || v > MaxAnswer {
			problems = append(problems, fmt.Sprintf("%s=%d out of range %d..%d", k, v, MinAnswer, MaxAnswer))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

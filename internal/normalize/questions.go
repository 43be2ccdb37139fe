package normalize

import "strings"

const (
	// maxFallbackQuestions caps the number of questions synthesized from a
	// completely unstructured response.
	maxFallbackQuestions = 15
	// minutesPerQuestion is the duration estimate applied to synthesized sets
	minutesPerQuestion = 4
)

// questionFields are the per-question fields defaulted to "Not specified"
var questionFields = []string{"question", "category", "difficulty", "purpose", "expected_answer_type"}

// QuestionSetSpec is the shape expected from the question generator.
func QuestionSetSpec() Spec {
	return Spec{
		Required: map[string]Kind{
			"questions":               List,
			"total_questions":         Number,
			"estimated_duration":      Number,
			"difficulty_distribution": Object,
			"category_distribution":   Object,
		},
	}
}

// NormalizeQuestionSet normalizes a question-generator response. Unlike the
// generic normalizer it never stays in fallback mode: when the response is
// not valid structured text at all, a minimal question set is synthesized
// from the non-blank lines of the raw text.
func NormalizeQuestionSet(raw string) Result {
	res := Normalize(raw, QuestionSetSpec())
	if !res.IsParsed() {
		return Result{parsed: fallbackQuestionSet(raw), raw: raw}
	}

	obj := res.Object()
	questions, _ := obj["questions"].([]any)
	for _, q := range questions {
		qm, ok := q.(map[string]any)
		if !ok {
			continue
		}
		for _, field := range questionFields {
			if _, ok := qm[field]; !ok {
				qm[field] = "Not specified"
			}
		}
	}

	// total_questions must equal the question list length after normalization
	obj["total_questions"] = float64(len(questions))

	return res
}

// fallbackQuestionSet splits raw text into non-empty lines and synthesizes a
// minimal question set, capped at maxFallbackQuestions.
func fallbackQuestionSet(raw string) map[string]any {
	var questions []any
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, map[string]any{
			"question":             line,
			"category":             "General",
			"difficulty":           "Medium",
			"purpose":              "General assessment",
			"expected_answer_type": "Detailed response",
		})
		if len(questions) == maxFallbackQuestions {
			break
		}
	}

	n := len(questions)
	if questions == nil {
		questions = []any{}
	}
	return map[string]any{
		"questions":               questions,
		"total_questions":         float64(n),
		"estimated_duration":      float64(n * minutesPerQuestion),
		"difficulty_distribution": map[string]any{"Medium": float64(n)},
		"category_distribution":   map[string]any{"General": float64(n)},
	}
}

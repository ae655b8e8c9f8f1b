package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MinQuestionCount is the number of questions the prompt asks the model for.
// Falling short is a logged warning for callers, not a failure, since the
// count is ultimately under the model's control.
const MinQuestionCount = 5

// ModelOutputError marks model output that could not be parsed or that
// violates the expected schema. Raw carries the original text for diagnostics.
type ModelOutputError struct {
	Raw string
	Err error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("unusable model output: %v", e.Err)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }

// ResumeFeedback is the mandatory analysis block of an interview prep result.
type ResumeFeedback struct {
	Analysis string `json:"analysis"`
	Rating   int    `json:"rating"`
}

// GeneratedQA is one generated question/expected-answer pair.
type GeneratedQA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// InterviewPrep is the structured result of the resume analysis prompt.
type InterviewPrep struct {
	ResumeAnalysis  ResumeFeedback `json:"resume_analysis"`
	QuestionAnswers []GeneratedQA  `json:"question_answer"`
}

// ParseInterviewPrep validates raw model text against the interview prep
// schema. It rejects, rather than coerces, malformed shapes.
func ParseInterviewPrep(raw string) (*InterviewPrep, error) {
	cleaned := stripJSONFence(raw)

	var prep InterviewPrep
	if err := json.Unmarshal([]byte(cleaned), &prep); err != nil {
		return nil, &ModelOutputError{Raw: raw, Err: err}
	}
	if strings.TrimSpace(prep.ResumeAnalysis.Analysis) == "" {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("resume_analysis.analysis is missing")}
	}
	if prep.ResumeAnalysis.Rating < 0 || prep.ResumeAnalysis.Rating > 10 {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("rating %d is outside 0-10", prep.ResumeAnalysis.Rating)}
	}
	if len(prep.QuestionAnswers) == 0 {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("question_answer list is empty")}
	}
	for i, qa := range prep.QuestionAnswers {
		if strings.TrimSpace(qa.Question) == "" || strings.TrimSpace(qa.Answer) == "" {
			return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("question_answer[%d] has an empty field", i)}
		}
	}
	return &prep, nil
}

// AnswerGrade is the model's verdict on one answered question.
type AnswerGrade struct {
	QuestionID  string `json:"question_id"`
	Correctness string `json:"correctness"`
	Explanation string `json:"explanation"`
}

// AnswerEvaluation is the structured result of the answer grading prompt.
type AnswerEvaluation struct {
	Grades []AnswerGrade `json:"grades"`
}

var validCorrectness = map[string]struct{}{
	"correct": {},
	"partial": {},
	"wrong":   {},
}

// ParseAnswerEvaluation validates raw model text against the grading schema.
// Correctness values are normalized to lowercase; anything outside
// correct/partial/wrong is a schema violation.
func ParseAnswerEvaluation(raw string) (*AnswerEvaluation, error) {
	cleaned := stripJSONFence(raw)

	var eval AnswerEvaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, &ModelOutputError{Raw: raw, Err: err}
	}
	if len(eval.Grades) == 0 {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("grades list is empty")}
	}
	for i := range eval.Grades {
		g := &eval.Grades[i]
		if g.QuestionID == "" {
			return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("grades[%d].question_id is missing", i)}
		}
		g.Correctness = strings.ToLower(strings.TrimSpace(g.Correctness))
		if _, ok := validCorrectness[g.Correctness]; !ok {
			return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("grades[%d].correctness %q is not one of correct/partial/wrong", i, g.Correctness)}
		}
	}
	return &eval, nil
}

// CodeReview is the model's review of one problem's best submission.
type CodeReview struct {
	ProblemID    string `json:"problem_id"`
	Review       string `json:"review"`
	Improvements string `json:"improvements"`
}

// SubmissionReviews is the structured result of the code review prompt.
type SubmissionReviews struct {
	Reviews []CodeReview `json:"reviews"`
}

// ParseSubmissionReviews validates raw model text against the review schema.
func ParseSubmissionReviews(raw string) (*SubmissionReviews, error) {
	cleaned := stripJSONFence(raw)

	var reviews SubmissionReviews
	if err := json.Unmarshal([]byte(cleaned), &reviews); err != nil {
		return nil, &ModelOutputError{Raw: raw, Err: err}
	}
	if len(reviews.Reviews) == 0 {
		return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("reviews list is empty")}
	}
	for i, r := range reviews.Reviews {
		if r.ProblemID == "" {
			return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("reviews[%d].problem_id is missing", i)}
		}
		if strings.TrimSpace(r.Review) == "" {
			return nil, &ModelOutputError{Raw: raw, Err: fmt.Errorf("reviews[%d].review is empty", i)}
		}
	}
	return &reviews, nil
}

// stripJSONFence removes ```json ... ``` wrapping that some models add around
// their output even in JSON mode.
func stripJSONFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

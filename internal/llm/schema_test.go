package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalPrep = `{
	"resume_analysis": {"analysis": "Solid systems background.", "rating": 8},
	"question_answer": [{"question": "Q1", "answer": "A1"}]
}`

func TestParseInterviewPrep(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "plain json", raw: minimalPrep},
		{name: "json fence", raw: "```json\n" + minimalPrep + "\n```"},
		{name: "bare fence", raw: "```\n" + minimalPrep + "\n```"},
		{name: "not json", raw: "sorry, here is a poem instead", wantErr: "unusable model output"},
		{name: "empty analysis", raw: `{"resume_analysis":{"analysis":"  ","rating":5},"question_answer":[{"question":"Q","answer":"A"}]}`, wantErr: "analysis is missing"},
		{name: "rating too high", raw: `{"resume_analysis":{"analysis":"ok","rating":11},"question_answer":[{"question":"Q","answer":"A"}]}`, wantErr: "outside 0-10"},
		{name: "rating negative", raw: `{"resume_analysis":{"analysis":"ok","rating":-1},"question_answer":[{"question":"Q","answer":"A"}]}`, wantErr: "outside 0-10"},
		{name: "no questions", raw: `{"resume_analysis":{"analysis":"ok","rating":5},"question_answer":[]}`, wantErr: "list is empty"},
		{name: "blank question", raw: `{"resume_analysis":{"analysis":"ok","rating":5},"question_answer":[{"question":"","answer":"A"}]}`, wantErr: "empty field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prep, err := ParseInterviewPrep(tt.raw)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				var modelErr *ModelOutputError
				require.ErrorAs(t, err, &modelErr)
				assert.Equal(t, tt.raw, modelErr.Raw, "raw output must be preserved for diagnostics")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 8, prep.ResumeAnalysis.Rating)
			require.Len(t, prep.QuestionAnswers, 1)
			assert.Equal(t, "Q1", prep.QuestionAnswers[0].Question)
		})
	}
}

func TestParseAnswerEvaluation(t *testing.T) {
	eval, err := ParseAnswerEvaluation(`{"grades":[{"question_id":"q1","correctness":" Correct ","explanation":"good"}]}`)
	require.NoError(t, err)
	require.Len(t, eval.Grades, 1)
	assert.Equal(t, "correct", eval.Grades[0].Correctness, "verdicts are trimmed and lowercased")

	_, err = ParseAnswerEvaluation(`{"grades":[{"question_id":"q1","correctness":"excellent","explanation":"x"}]}`)
	require.ErrorContains(t, err, "not one of correct/partial/wrong")

	_, err = ParseAnswerEvaluation(`{"grades":[{"correctness":"correct","explanation":"x"}]}`)
	require.ErrorContains(t, err, "question_id is missing")

	_, err = ParseAnswerEvaluation(`{"grades":[]}`)
	require.ErrorContains(t, err, "grades list is empty")
}

func TestParseSubmissionReviews(t *testing.T) {
	reviews, err := ParseSubmissionReviews("```json\n" + `{"reviews":[{"problem_id":"p1","review":"fine","improvements":"none"}]}` + "\n```")
	require.NoError(t, err)
	require.Len(t, reviews.Reviews, 1)
	assert.Equal(t, "p1", reviews.Reviews[0].ProblemID)

	_, err = ParseSubmissionReviews(`{"reviews":[{"problem_id":"p1","review":"  "}]}`)
	require.ErrorContains(t, err, "review is empty")

	_, err = ParseSubmissionReviews(`{"reviews":[]}`)
	require.ErrorContains(t, err, "reviews list is empty")
}

func TestStripJSONFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "  {\"a\":1}  ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripJSONFence(tt.in))
	}
}

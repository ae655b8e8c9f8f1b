// Package core defines the essential interfaces and data structures that form the
// backbone of the worker. These components are deliberately abstract so that the
// pipeline logic stays decoupled from Redis, Postgres, and the model backends.
package core

import (
	"time"

	"github.com/google/uuid"
)

// InterviewState is a terminal (or pending) processing state of an interview.
// Exactly one terminal write per accepted event is the worker's core guarantee.
type InterviewState string

const (
	StatePending   InterviewState = "PENDING"
	StateProcessed InterviewState = "PROCESSED"
	StateError     InterviewState = "ERROR"
)

// Difficulty classifies coding problems by tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// DifficultyForExperience maps a candidate's years of experience to a
// problem tier: up to 3 years EASY, 4-5 years MEDIUM, above that HARD.
func DifficultyForExperience(years int) Difficulty {
	switch {
	case years <= 3:
		return DifficultyEasy
	case years <= 5:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// ResumeAnalysis is the model's free-text feedback on a candidate's resume
// plus a 0-10 rating. Created once per interview, never mutated.
type ResumeAnalysis struct {
	ID          uuid.UUID `db:"id"`
	InterviewID string    `db:"interview_id"`
	Analysis    string    `db:"analysis"`
	Rating      int       `db:"rating"`
	CreatedAt   time.Time `db:"created_at"`
}

// QuestionAnswer is one generated interview question with its expected
// answer. GivenAnswer is filled in later by the interview frontend and stays
// empty until the candidate responds.
type QuestionAnswer struct {
	ID             uuid.UUID `db:"id"`
	InterviewID    string    `db:"interview_id"`
	Question       string    `db:"question"`
	ExpectedAnswer string    `db:"expected_answer"`
	GivenAnswer    string    `db:"given_answer"`
	CreatedAt      time.Time `db:"created_at"`
}

// TestCase is a single input/output pair attached to a coding problem.
type TestCase struct {
	ID            uuid.UUID `db:"id"`
	CodeProblemID uuid.UUID `db:"code_problem_id"`
	Input         string    `db:"input"`
	Output        string    `db:"output"`
	Hidden        bool      `db:"hidden"`
}

// CodeProblem is an entry in the problem bank.
type CodeProblem struct {
	ID          uuid.UUID  `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Difficulty  Difficulty `db:"difficulty"`
	TestCases   []TestCase `db:"-"`
}

// CodeSubmission is one run of a candidate's code against a problem,
// recorded by the execution worker. The evaluation pipeline only ever
// reads the best passing submission per problem.
type CodeSubmission struct {
	ID            uuid.UUID `db:"id"`
	InterviewID   string    `db:"interview_id"`
	CodeProblemID uuid.UUID `db:"code_problem_id"`
	Code          string    `db:"code"`
	Passed        bool      `db:"passed"`
	RuntimeMS     int       `db:"runtime_ms"`
	CreatedAt     time.Time `db:"created_at"`
}

// QaAnalysis is the model's grade for one answered interview question.
type QaAnalysis struct {
	ID               uuid.UUID `db:"id"`
	InterviewID      string    `db:"interview_id"`
	QuestionAnswerID uuid.UUID `db:"question_answer_id"`
	Correctness      string    `db:"correctness"`
	Explanation      string    `db:"explanation"`
}

// CodeAnalysis is the model's review of a candidate's best submission for
// one assigned problem, or of the fact that the problem was not attempted.
type CodeAnalysis struct {
	ID            uuid.UUID `db:"id"`
	InterviewID   string    `db:"interview_id"`
	CodeProblemID uuid.UUID `db:"code_problem_id"`
	Review        string    `db:"review"`
}

// Package storage is the persistence gateway: idempotent create/update
// primitives over Postgres. UpdateInterviewState and UpdateResultState are
// the dispatcher's recovery primitives and must stay safe to call from the
// error path of any pipeline.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	// Postgres driver registration.
	_ "github.com/lib/pq"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
)

// InsufficientProblemsError is returned when the problem bank cannot supply
// the requested number of distinct problems for a tier.
type InsufficientProblemsError struct {
	Difficulty core.Difficulty
	Want       int
	Have       int
}

func (e *InsufficientProblemsError) Error() string {
	return fmt.Sprintf("problem bank has %d %s problems, need %d", e.Have, e.Difficulty, e.Want)
}

// Store defines all database operations the pipelines need.
type Store interface {
	UpdateInterviewState(ctx context.Context, interviewID string, state core.InterviewState) error
	UpdateResultState(ctx context.Context, interviewID string, state core.InterviewState) error

	CreateResumeAnalysis(ctx context.Context, analysis *core.ResumeAnalysis) error
	CreateQuestionAnswers(ctx context.Context, qas []core.QuestionAnswer) error
	CreateInterviewProblems(ctx context.Context, interviewID string, problemIDs []uuid.UUID) error

	PickProblems(ctx context.Context, difficulty core.Difficulty, count int) ([]core.CodeProblem, error)
	SeedProblems(ctx context.Context, problems []core.CodeProblem) error

	GetQuestionAnswers(ctx context.Context, interviewID string) ([]core.QuestionAnswer, error)
	GetInterviewProblems(ctx context.Context, interviewID string) ([]core.CodeProblem, error)
	GetBestSubmissions(ctx context.Context, interviewID string) ([]core.CodeSubmission, error)

	CreateQaAnalyses(ctx context.Context, analyses []core.QaAnalysis) error
	CreateCodeAnalyses(ctx context.Context, analyses []core.CodeAnalysis) error
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a Postgres-backed Store.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) UpdateInterviewState(ctx context.Context, interviewID string, state core.InterviewState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET state = $2 WHERE id = $1`, interviewID, state)
	if err != nil {
		return fmt.Errorf("update interview %s state: %w", interviewID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update interview %s state: no such interview", interviewID)
	}
	return nil
}

func (s *postgresStore) UpdateResultState(ctx context.Context, interviewID string, state core.InterviewState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE interviews SET result_state = $2 WHERE id = $1`, interviewID, state)
	if err != nil {
		return fmt.Errorf("update interview %s result state: %w", interviewID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update interview %s result state: no such interview", interviewID)
	}
	return nil
}

func (s *postgresStore) CreateResumeAnalysis(ctx context.Context, analysis *core.ResumeAnalysis) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resume_analyses (id, interview_id, analysis, rating)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (interview_id) DO NOTHING`,
		analysis.ID, analysis.InterviewID, analysis.Analysis, analysis.Rating)
	if err != nil {
		return fmt.Errorf("insert resume analysis for %s: %w", analysis.InterviewID, err)
	}
	return nil
}

func (s *postgresStore) CreateQuestionAnswers(ctx context.Context, qas []core.QuestionAnswer) error {
	if len(qas) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin question answers tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, qa := range qas {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO question_answers (id, interview_id, question, expected_answer)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			qa.ID, qa.InterviewID, qa.Question, qa.ExpectedAnswer); err != nil {
			return fmt.Errorf("insert question answer for %s: %w", qa.InterviewID, err)
		}
	}
	return tx.Commit()
}

func (s *postgresStore) CreateInterviewProblems(ctx context.Context, interviewID string, problemIDs []uuid.UUID) error {
	if len(problemIDs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin interview problems tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, pid := range problemIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO interview_code_problems (interview_id, code_problem_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			interviewID, pid); err != nil {
			return fmt.Errorf("insert interview problem for %s: %w", interviewID, err)
		}
	}
	return tx.Commit()
}

func (s *postgresStore) PickProblems(ctx context.Context, difficulty core.Difficulty, count int) ([]core.CodeProblem, error) {
	var problems []core.CodeProblem
	err := s.db.SelectContext(ctx, &problems, `
		SELECT id, title, description, difficulty
		FROM code_problems
		WHERE difficulty = $1
		ORDER BY random()
		LIMIT $2`, difficulty, count)
	if err != nil {
		return nil, fmt.Errorf("pick %s problems: %w", difficulty, err)
	}
	if len(problems) < count {
		return nil, &InsufficientProblemsError{Difficulty: difficulty, Want: count, Have: len(problems)}
	}
	return problems, nil
}

func (s *postgresStore) SeedProblems(ctx context.Context, problems []core.CodeProblem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range problems {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO code_problems (id, title, description, difficulty)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, p.Description, p.Difficulty); err != nil {
			return fmt.Errorf("insert problem %q: %w", p.Title, err)
		}
		for _, tc := range p.TestCases {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO code_problem_test_cases (id, code_problem_id, input, output, hidden)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO NOTHING`,
				tc.ID, p.ID, tc.Input, tc.Output, tc.Hidden); err != nil {
				return fmt.Errorf("insert test case for %q: %w", p.Title, err)
			}
		}
	}
	return tx.Commit()
}

func (s *postgresStore) GetQuestionAnswers(ctx context.Context, interviewID string) ([]core.QuestionAnswer, error) {
	var qas []core.QuestionAnswer
	err := s.db.SelectContext(ctx, &qas, `
		SELECT id, interview_id, question, expected_answer, COALESCE(given_answer, '') AS given_answer, created_at
		FROM question_answers
		WHERE interview_id = $1
		ORDER BY created_at`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load question answers for %s: %w", interviewID, err)
	}
	return qas, nil
}

func (s *postgresStore) GetInterviewProblems(ctx context.Context, interviewID string) ([]core.CodeProblem, error) {
	var problems []core.CodeProblem
	err := s.db.SelectContext(ctx, &problems, `
		SELECT p.id, p.title, p.description, p.difficulty
		FROM code_problems p
		JOIN interview_code_problems icp ON icp.code_problem_id = p.id
		WHERE icp.interview_id = $1
		ORDER BY p.title`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load problems for %s: %w", interviewID, err)
	}
	return problems, nil
}

// GetBestSubmissions returns the most favorable passing submission per
// assigned problem: fastest passing run wins. Problems without a passing
// submission have no row in the result.
func (s *postgresStore) GetBestSubmissions(ctx context.Context, interviewID string) ([]core.CodeSubmission, error) {
	var subs []core.CodeSubmission
	err := s.db.SelectContext(ctx, &subs, `
		SELECT DISTINCT ON (code_problem_id)
			id, interview_id, code_problem_id, code, passed, runtime_ms, created_at
		FROM code_submissions
		WHERE interview_id = $1 AND passed
		ORDER BY code_problem_id, runtime_ms ASC, created_at ASC`, interviewID)
	if err != nil {
		return nil, fmt.Errorf("load submissions for %s: %w", interviewID, err)
	}
	return subs, nil
}

func (s *postgresStore) CreateQaAnalyses(ctx context.Context, analyses []core.QaAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin qa analyses tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range analyses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO qa_analyses (id, interview_id, question_answer_id, correctness, explanation)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (interview_id, question_answer_id) DO NOTHING`,
			a.ID, a.InterviewID, a.QuestionAnswerID, a.Correctness, a.Explanation); err != nil {
			return fmt.Errorf("insert qa analysis for %s: %w", a.InterviewID, err)
		}
	}
	return tx.Commit()
}

func (s *postgresStore) CreateCodeAnalyses(ctx context.Context, analyses []core.CodeAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin code analyses tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range analyses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO code_analyses (id, interview_id, code_problem_id, review)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (interview_id, code_problem_id) DO NOTHING`,
			a.ID, a.InterviewID, a.CodeProblemID, a.Review); err != nil {
			return fmt.Errorf("insert code analysis for %s: %w", a.InterviewID, err)
		}
	}
	return tx.Commit()
}

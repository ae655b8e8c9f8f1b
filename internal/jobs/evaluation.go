package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/llm"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

// EvaluationJob processes end-interview events: it grades the candidate's
// recorded answers and reviews the best passing submission per assigned
// problem, persists both analyses, and flips the interview's result state
// to PROCESSED.
type EvaluationJob struct {
	model        llm.Client
	prompts      *llm.PromptManager
	store        storage.Store
	inferTimeout time.Duration
	logger       *slog.Logger
}

// NewEvaluationJob creates the end-interview pipeline.
func NewEvaluationJob(model llm.Client, prompts *llm.PromptManager, store storage.Store, inferTimeout time.Duration, logger *slog.Logger) *EvaluationJob {
	return &EvaluationJob{
		model:        model,
		prompts:      prompts,
		store:        store,
		inferTimeout: inferTimeout,
		logger:       logger,
	}
}

// Run executes the pipeline for one end-interview event.
func (j *EvaluationJob) Run(ctx context.Context, event *core.Event) error {
	p := event.EndInterview
	if p == nil {
		return fmt.Errorf("event has no end-interview payload")
	}

	qas, err := j.store.GetQuestionAnswers(ctx, p.InterviewID)
	if err != nil {
		return err
	}
	if len(qas) == 0 {
		return fmt.Errorf("interview %s has no question answers to evaluate", p.InterviewID)
	}

	problems, err := j.store.GetInterviewProblems(ctx, p.InterviewID)
	if err != nil {
		return err
	}
	submissions, err := j.store.GetBestSubmissions(ctx, p.InterviewID)
	if err != nil {
		return err
	}
	bestByProblem := make(map[uuid.UUID]core.CodeSubmission, len(submissions))
	for _, sub := range submissions {
		bestByProblem[sub.CodeProblemID] = sub
	}

	var (
		evaluation *llm.AnswerEvaluation
		reviews    *llm.SubmissionReviews
	)

	// Join semantics: both prompts always run to completion, the first
	// error is reported.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		evaluation, err = j.gradeAnswers(ctx, qas)
		return err
	})
	g.Go(func() error {
		if len(problems) == 0 {
			return nil
		}
		var err error
		reviews, err = j.reviewSubmissions(ctx, problems, bestByProblem)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	qaAnalyses, err := j.matchGrades(p.InterviewID, qas, evaluation)
	if err != nil {
		return err
	}
	if err := j.store.CreateQaAnalyses(ctx, qaAnalyses); err != nil {
		return err
	}

	if reviews != nil {
		codeAnalyses, err := j.matchReviews(p.InterviewID, problems, reviews)
		if err != nil {
			return err
		}
		if err := j.store.CreateCodeAnalyses(ctx, codeAnalyses); err != nil {
			return err
		}
	}

	if err := j.store.UpdateResultState(ctx, p.InterviewID, core.StateProcessed); err != nil {
		return err
	}

	j.logger.Info("interview evaluation stored",
		"interview", p.InterviewID,
		"graded_answers", len(qaAnalyses),
		"reviewed_problems", len(problems),
	)
	return nil
}

func (j *EvaluationJob) gradeAnswers(ctx context.Context, qas []core.QuestionAnswer) (*llm.AnswerEvaluation, error) {
	items := make([]llm.AnswerEvalItem, 0, len(qas))
	for _, qa := range qas {
		items = append(items, llm.AnswerEvalItem{
			QuestionID:     qa.ID.String(),
			Question:       qa.Question,
			ExpectedAnswer: qa.ExpectedAnswer,
			GivenAnswer:    qa.GivenAnswer,
		})
	}

	prompt, err := j.prompts.Render(llm.AnswerEvalPrompt, llm.AnswerEvalData{Items: items})
	if err != nil {
		return nil, err
	}

	inferCtx, cancel := context.WithTimeout(ctx, j.inferTimeout)
	defer cancel()
	raw, err := j.model.GenerateJSON(inferCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("grade answers: %w", err)
	}
	return llm.ParseAnswerEvaluation(raw)
}

func (j *EvaluationJob) reviewSubmissions(ctx context.Context, problems []core.CodeProblem, best map[uuid.UUID]core.CodeSubmission) (*llm.SubmissionReviews, error) {
	items := make([]llm.CodeReviewItem, 0, len(problems))
	for _, problem := range problems {
		item := llm.CodeReviewItem{
			ProblemID:   problem.ID.String(),
			Title:       problem.Title,
			Description: problem.Description,
		}
		if sub, ok := best[problem.ID]; ok {
			item.Code = sub.Code
			item.Attempted = true
		}
		items = append(items, item)
	}

	prompt, err := j.prompts.Render(llm.CodeReviewPrompt, llm.CodeReviewData{Items: items})
	if err != nil {
		return nil, err
	}

	inferCtx, cancel := context.WithTimeout(ctx, j.inferTimeout)
	defer cancel()
	raw, err := j.model.GenerateJSON(inferCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("review submissions: %w", err)
	}
	return llm.ParseSubmissionReviews(raw)
}

// matchGrades joins model grades back to stored question rows. Grades for
// unknown question ids are skipped with a warning; an evaluation with no
// usable grade at all is treated as schema-violating output.
func (j *EvaluationJob) matchGrades(interviewID string, qas []core.QuestionAnswer, evaluation *llm.AnswerEvaluation) ([]core.QaAnalysis, error) {
	known := make(map[string]uuid.UUID, len(qas))
	for _, qa := range qas {
		known[qa.ID.String()] = qa.ID
	}

	analyses := make([]core.QaAnalysis, 0, len(evaluation.Grades))
	for _, grade := range evaluation.Grades {
		qaID, ok := known[grade.QuestionID]
		if !ok {
			j.logger.Warn("model graded unknown question id",
				"interview", interviewID, "question_id", grade.QuestionID)
			continue
		}
		analyses = append(analyses, core.QaAnalysis{
			ID:               uuid.New(),
			InterviewID:      interviewID,
			QuestionAnswerID: qaID,
			Correctness:      grade.Correctness,
			Explanation:      grade.Explanation,
		})
	}
	if len(analyses) == 0 {
		return nil, &llm.ModelOutputError{Err: fmt.Errorf("no grade matched a stored question for interview %s", interviewID)}
	}
	return analyses, nil
}

// matchReviews joins model reviews back to assigned problems, same policy
// as matchGrades.
func (j *EvaluationJob) matchReviews(interviewID string, problems []core.CodeProblem, reviews *llm.SubmissionReviews) ([]core.CodeAnalysis, error) {
	known := make(map[string]uuid.UUID, len(problems))
	for _, problem := range problems {
		known[problem.ID.String()] = problem.ID
	}

	analyses := make([]core.CodeAnalysis, 0, len(reviews.Reviews))
	for _, review := range reviews.Reviews {
		problemID, ok := known[review.ProblemID]
		if !ok {
			j.logger.Warn("model reviewed unknown problem id",
				"interview", interviewID, "problem_id", review.ProblemID)
			continue
		}
		text := review.Review
		if review.Improvements != "" {
			text = text + "\n\nImprovements: " + review.Improvements
		}
		analyses = append(analyses, core.CodeAnalysis{
			ID:            uuid.New(),
			InterviewID:   interviewID,
			CodeProblemID: problemID,
			Review:        text,
		})
	}
	if len(analyses) == 0 {
		return nil, &llm.ModelOutputError{Err: fmt.Errorf("no review matched an assigned problem for interview %s", interviewID)}
	}
	return analyses, nil
}

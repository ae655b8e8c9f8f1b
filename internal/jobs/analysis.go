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
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/resume"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

// AnalysisJob processes new-interview events: it analyzes the candidate's
// resume and generates interview questions while, in parallel, selecting
// coding problems for the candidate's experience tier. Both sub-tasks must
// succeed; on joint success results are persisted in dependency order and
// the interview is marked PROCESSED.
type AnalysisJob struct {
	extractor      resume.Extractor
	model          llm.Client
	prompts        *llm.PromptManager
	store          storage.Store
	problemCount   int
	extractTimeout time.Duration
	inferTimeout   time.Duration
	logger         *slog.Logger
}

// NewAnalysisJob creates the new-interview pipeline.
func NewAnalysisJob(extractor resume.Extractor, model llm.Client, prompts *llm.PromptManager, store storage.Store, problemCount int, extractTimeout, inferTimeout time.Duration, logger *slog.Logger) *AnalysisJob {
	if problemCount < 1 {
		problemCount = 3
	}
	return &AnalysisJob{
		extractor:      extractor,
		model:          model,
		prompts:        prompts,
		store:          store,
		problemCount:   problemCount,
		extractTimeout: extractTimeout,
		inferTimeout:   inferTimeout,
		logger:         logger,
	}
}

// Run executes the pipeline for one new-interview event.
func (j *AnalysisJob) Run(ctx context.Context, event *core.Event) error {
	p := event.NewInterview
	if p == nil {
		return fmt.Errorf("event has no new-interview payload")
	}

	var (
		prep     *llm.InterviewPrep
		problems []core.CodeProblem
	)

	// Both sub-tasks always run to completion; the first error wins. A plain
	// errgroup (no shared cancellation) keeps the sibling from being
	// cancelled mid-call when the other side fails.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		prep, err = j.generatePrep(ctx, p)
		return err
	})
	g.Go(func() error {
		tier := core.DifficultyForExperience(int(p.YOE))
		ps, err := j.store.PickProblems(ctx, tier, j.problemCount)
		if err != nil {
			return fmt.Errorf("select %s problems: %w", tier, err)
		}
		problems = ps
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Persist in dependency order; a crash mid-sequence leaves the interview
	// non-PROCESSED and is picked up by external reconciliation.
	analysis := &core.ResumeAnalysis{
		ID:          uuid.New(),
		InterviewID: p.ID,
		Analysis:    prep.ResumeAnalysis.Analysis,
		Rating:      prep.ResumeAnalysis.Rating,
	}
	if err := j.store.CreateResumeAnalysis(ctx, analysis); err != nil {
		return err
	}

	qas := make([]core.QuestionAnswer, 0, len(prep.QuestionAnswers))
	for _, qa := range prep.QuestionAnswers {
		qas = append(qas, core.QuestionAnswer{
			ID:             uuid.New(),
			InterviewID:    p.ID,
			Question:       qa.Question,
			ExpectedAnswer: qa.Answer,
		})
	}
	if err := j.store.CreateQuestionAnswers(ctx, qas); err != nil {
		return err
	}

	problemIDs := make([]uuid.UUID, 0, len(problems))
	for _, problem := range problems {
		problemIDs = append(problemIDs, problem.ID)
	}
	if err := j.store.CreateInterviewProblems(ctx, p.ID, problemIDs); err != nil {
		return err
	}

	if err := j.store.UpdateInterviewState(ctx, p.ID, core.StateProcessed); err != nil {
		return err
	}

	j.logger.Info("interview analysis stored",
		"interview", p.ID,
		"rating", analysis.Rating,
		"questions", len(qas),
		"problems", len(problemIDs),
	)
	return nil
}

// generatePrep extracts the resume text, prompts the model, and validates
// the structured result.
func (j *AnalysisJob) generatePrep(ctx context.Context, p *core.NewInterviewPayload) (*llm.InterviewPrep, error) {
	extractCtx, cancel := context.WithTimeout(ctx, j.extractTimeout)
	defer cancel()
	text, err := j.extractor.ExtractText(extractCtx, p.ResumeURL)
	if err != nil {
		return nil, fmt.Errorf("extract resume text: %w", err)
	}

	prompt, err := j.prompts.Render(llm.InterviewPrepPrompt, llm.InterviewPrepData{
		Name:       p.Name,
		Role:       p.Role,
		Company:    p.Company,
		YOE:        int(p.YOE),
		ResumeText: text,
	})
	if err != nil {
		return nil, err
	}

	inferCtx, cancel := context.WithTimeout(ctx, j.inferTimeout)
	defer cancel()
	raw, err := j.model.GenerateJSON(inferCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate interview prep: %w", err)
	}

	prep, err := llm.ParseInterviewPrep(raw)
	if err != nil {
		return nil, err
	}

	// The question count is a prompt-level instruction; the model owns it.
	if len(prep.QuestionAnswers) < llm.MinQuestionCount {
		j.logger.Warn("model returned fewer questions than requested",
			"interview", p.ID,
			"got", len(prep.QuestionAnswers),
			"want", llm.MinQuestionCount,
		)
	}
	return prep, nil
}

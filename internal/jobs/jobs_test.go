package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/core"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/pubsub"
	"github.com/MananGandhi1810/coding-interview-simulation-platform/internal/storage"
)

var errStateWrite = errors.New("state write failed")

func containsStr(s, substr string) bool { return strings.Contains(s, substr) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSubscriber feeds tests through the same contract the Redis adapter
// implements.
type fakeSubscriber struct {
	ch        chan pubsub.Message
	closeOnce sync.Once
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{ch: make(chan pubsub.Message, 64)}
}

func (f *fakeSubscriber) publish(channel, payload string) {
	f.ch <- pubsub.Message{Channel: channel, Payload: []byte(payload)}
}

func (f *fakeSubscriber) Messages() <-chan pubsub.Message { return f.ch }

func (f *fakeSubscriber) Close() error {
	f.closeOnce.Do(func() { close(f.ch) })
	return nil
}

// memStore is an in-memory storage.Store for pipeline tests.
type memStore struct {
	mu sync.Mutex

	states       map[string]core.InterviewState
	resultStates map[string]core.InterviewState

	resumeAnalyses map[string]core.ResumeAnalysis
	questions      map[string][]core.QuestionAnswer
	assigned       map[string][]uuid.UUID
	qaAnalyses     map[string][]core.QaAnalysis
	codeAnalyses   map[string][]core.CodeAnalysis

	problemBank []core.CodeProblem
	submissions []core.CodeSubmission

	failStateWrites bool
	failFirstN      int
	stateWriteCalls int
}

func newMemStore() *memStore {
	return &memStore{
		states:         make(map[string]core.InterviewState),
		resultStates:   make(map[string]core.InterviewState),
		resumeAnalyses: make(map[string]core.ResumeAnalysis),
		questions:      make(map[string][]core.QuestionAnswer),
		assigned:       make(map[string][]uuid.UUID),
		qaAnalyses:     make(map[string][]core.QaAnalysis),
		codeAnalyses:   make(map[string][]core.CodeAnalysis),
	}
}

var _ storage.Store = (*memStore)(nil)

func (s *memStore) UpdateInterviewState(_ context.Context, id string, state core.InterviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateWriteCalls++
	if s.failStateWrites || s.stateWriteCalls <= s.failFirstN {
		return errStateWrite
	}
	s.states[id] = state
	return nil
}

func (s *memStore) UpdateResultState(_ context.Context, id string, state core.InterviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateWriteCalls++
	if s.failStateWrites || s.stateWriteCalls <= s.failFirstN {
		return errStateWrite
	}
	s.resultStates[id] = state
	return nil
}

func (s *memStore) CreateResumeAnalysis(_ context.Context, analysis *core.ResumeAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resumeAnalyses[analysis.InterviewID] = *analysis
	return nil
}

func (s *memStore) CreateQuestionAnswers(_ context.Context, qas []core.QuestionAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, qa := range qas {
		s.questions[qa.InterviewID] = append(s.questions[qa.InterviewID], qa)
	}
	return nil
}

func (s *memStore) CreateInterviewProblems(_ context.Context, interviewID string, problemIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assigned[interviewID] = append(s.assigned[interviewID], problemIDs...)
	return nil
}

func (s *memStore) PickProblems(_ context.Context, difficulty core.Difficulty, count int) ([]core.CodeProblem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matching []core.CodeProblem
	for _, p := range s.problemBank {
		if p.Difficulty == difficulty {
			matching = append(matching, p)
		}
	}
	if len(matching) < count {
		return nil, &storage.InsufficientProblemsError{Difficulty: difficulty, Want: count, Have: len(matching)}
	}
	return matching[:count], nil
}

func (s *memStore) SeedProblems(_ context.Context, problems []core.CodeProblem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problemBank = append(s.problemBank, problems...)
	return nil
}

func (s *memStore) GetQuestionAnswers(_ context.Context, interviewID string) ([]core.QuestionAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.QuestionAnswer(nil), s.questions[interviewID]...), nil
}

func (s *memStore) GetInterviewProblems(_ context.Context, interviewID string) ([]core.CodeProblem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.CodeProblem
	for _, id := range s.assigned[interviewID] {
		for _, p := range s.problemBank {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (s *memStore) GetBestSubmissions(_ context.Context, interviewID string) ([]core.CodeSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := make(map[uuid.UUID]core.CodeSubmission)
	for _, sub := range s.submissions {
		if sub.InterviewID != interviewID || !sub.Passed {
			continue
		}
		cur, ok := best[sub.CodeProblemID]
		if !ok || sub.RuntimeMS < cur.RuntimeMS {
			best[sub.CodeProblemID] = sub
		}
	}
	var out []core.CodeSubmission
	for _, sub := range best {
		out = append(out, sub)
	}
	return out, nil
}

func (s *memStore) CreateQaAnalyses(_ context.Context, analyses []core.QaAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range analyses {
		s.qaAnalyses[a.InterviewID] = append(s.qaAnalyses[a.InterviewID], a)
	}
	return nil
}

func (s *memStore) CreateCodeAnalyses(_ context.Context, analyses []core.CodeAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range analyses {
		s.codeAnalyses[a.InterviewID] = append(s.codeAnalyses[a.InterviewID], a)
	}
	return nil
}

func (s *memStore) state(id string) core.InterviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[id]
}

func (s *memStore) resultState(id string) core.InterviewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultStates[id]
}

// fakeModel returns canned responses in order, capturing prompts.
type fakeModel struct {
	mu        sync.Mutex
	responses map[string]string // substring of prompt -> response
	fallback  string
	err       error
	prompts   []string
}

func (m *fakeModel) GenerateJSON(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	for marker, resp := range m.responses {
		if marker != "" && containsStr(prompt, marker) {
			return resp, nil
		}
	}
	return m.fallback, nil
}

func (m *fakeModel) Close() error { return nil }

func (m *fakeModel) capturedPrompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// fakeExtractor returns fixed text, counting calls.
type fakeExtractor struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractText(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey names one of the embedded prompt templates.
type PromptKey string

const (
	InterviewPrepPrompt PromptKey = "interview_prep"
	AnswerEvalPrompt    PromptKey = "answer_eval"
	CodeReviewPrompt    PromptKey = "code_review"
)

// PromptManager loads and renders the embedded prompt templates.
type PromptManager struct {
	prompts map[PromptKey]*template.Template
}

// NewPromptManager parses all embedded prompt files. Filenames are
// "<key>.prompt".
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[PromptKey]*template.Template)}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		key := PromptKey(strings.TrimSuffix(name, ".prompt"))

		content, err := promptFiles.ReadFile("prompts/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", name, err)
		}
		tmpl, err := template.New(string(key)).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("could not parse prompt template %s: %w", name, err)
		}
		pm.prompts[key] = tmpl
	}

	return pm, nil
}

// Render executes the template for key with the given data.
func (pm *PromptManager) Render(key PromptKey, data any) (string, error) {
	tmpl, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompt found for key %q", key)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %q: %w", key, err)
	}
	return buf.String(), nil
}

// InterviewPrepData fills the interview_prep template.
type InterviewPrepData struct {
	Name       string
	Role       string
	Company    string
	YOE        int
	ResumeText string
}

// AnswerEvalItem is one answered question presented for grading.
type AnswerEvalItem struct {
	QuestionID     string
	Question       string
	ExpectedAnswer string
	GivenAnswer    string
}

// AnswerEvalData fills the answer_eval template.
type AnswerEvalData struct {
	Items []AnswerEvalItem
}

// CodeReviewItem is one assigned problem with the candidate's best passing
// submission, or a not-attempted marker when none exists.
type CodeReviewItem struct {
	ProblemID   string
	Title       string
	Description string
	Code        string
	Attempted   bool
}

// CodeReviewData fills the code_review template.
type CodeReviewData struct {
	Items []CodeReviewItem
}

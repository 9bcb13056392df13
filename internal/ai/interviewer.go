// Package ai defines the interview collaborators backed by a language model
// and the boundary that turns model output into typed values.
package ai

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-assistant/internal/session"
	"github.com/spigell/interview-assistant/internal/utils"
)

// ContentGenerator is a single-turn text model.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// GeneratedQuestion is one question as proposed by the model.
type GeneratedQuestion struct {
	Content    string             `mapstructure:"content"`
	Difficulty session.Difficulty `mapstructure:"difficulty"`
	TimeLimit  int                `mapstructure:"timeLimit"`
}

// QA is an answered question handed to the summary writer.
type QA struct {
	Question string
	Answer   string
	Score    int
}

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, resumeText string) ([]GeneratedQuestion, error)
}

type AnswerEvaluator interface {
	EvaluateAnswer(ctx context.Context, question, answer string) (int, error)
}

type SummaryWriter interface {
	Summarize(ctx context.Context, candidateName string, answers []QA) (string, error)
}

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/questions.md
	questionsTemplate string
	//go:embed prompts/evaluate.md
	evaluateTemplate string
	//go:embed prompts/summary.md
	summaryTemplate string
)

const defaultMaxLogLength = 200

// Interviewer implements the three collaborators over one generator.
type Interviewer struct {
	generator ContentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var (
	_ QuestionGenerator = (*Interviewer)(nil)
	_ AnswerEvaluator   = (*Interviewer)(nil)
	_ SummaryWriter     = (*Interviewer)(nil)
)

func NewInterviewer(generator ContentGenerator, logger *zap.Logger, maxLogLength int) *Interviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Interviewer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// GenerateQuestions asks for six questions tailored to the résumé. Any answer
// that does not decode to exactly six valid questions is an error.
func (i *Interviewer) GenerateQuestions(ctx context.Context, resumeText string) ([]GeneratedQuestion, error) {
	prompt := render(questionsTemplate, "{{RESUME}}", resumeText)

	raw, err := i.generate(ctx, "questions", prompt)
	if err != nil {
		return nil, err
	}

	questions, err := ParseQuestions(raw)
	if err != nil {
		i.logger.Warn("question list rejected",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, i.maxLogLen)),
		)
		return nil, err
	}

	return questions, nil
}

// EvaluateAnswer grades an answer from 1 to 10. Output without a leading
// integer scores 5.
func (i *Interviewer) EvaluateAnswer(ctx context.Context, question, answer string) (int, error) {
	prompt := render(evaluateTemplate, "{{QUESTION}}", question, "{{ANSWER}}", answer)

	raw, err := i.generate(ctx, "evaluate", prompt)
	if err != nil {
		return 0, err
	}

	return ParseScore(raw), nil
}

// Summarize writes the interviewer-facing summary of a finished interview.
func (i *Interviewer) Summarize(ctx context.Context, candidateName string, answers []QA) (string, error) {
	blocks := make([]string, 0, len(answers))
	for _, qa := range answers {
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s\nScore: %d/10", qa.Question, qa.Answer, qa.Score))
	}

	prompt := render(summaryTemplate, "{{NAME}}", candidateName, "{{ANSWERS}}", strings.Join(blocks, "\n\n"))

	raw, err := i.generate(ctx, "summary", prompt)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}
	return summary, nil
}

func (i *Interviewer) generate(ctx context.Context, operation, prompt string) (string, error) {
	i.logger.Debug("generate content request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, i.maxLogLen)),
	)

	raw, err := i.generator.GenerateContent(ctx, strings.TrimSpace(systemPrompt), prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", operation, err)
	}

	i.logger.Debug("generate content response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, i.maxLogLen)),
	)

	return raw, nil
}

func render(template string, pairs ...string) string {
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/jadenj13/rubric-console/internals/llm"
	"github.com/jadenj13/rubric-console/internals/rubric"
)

const (
	ToolName = "submit_analysis"

	maxInputChars = 40000
)

var ErrEmptyInput = errors.New("nothing to analyze")

type LLM interface {
	CompleteWithTools(ctx context.Context, system string, messages []llm.Message, tools []anthropic.ToolParam) (*anthropic.Message, error)
}

type Notifier interface {
	NotifyAnalysis(ctx context.Context, req Request, res Result) error
}

type Request struct {
	Rubric      string
	Text        string
	RequestedBy string
}

type Score struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

type Result struct {
	Rubric     string
	Summary    string
	Scores     []Score
	StopReason string
}

// Text renders the result as plain text: the summary followed by one line per
// score.
func (r Result) Text() string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(r.Summary))
	if len(r.Scores) > 0 {
		sb.WriteString("\n")
	}
	for _, s := range r.Scores {
		sb.WriteString(fmt.Sprintf("\n%s: %d/5", s.Criterion, s.Score))
		if s.Rationale != "" {
			sb.WriteString(" - " + s.Rationale)
		}
	}
	return sb.String()
}

type Agent struct {
	llm      LLM
	notifier Notifier
	log      *slog.Logger
}

type AgentOption func(*Agent)

func WithNotifier(n Notifier) AgentOption {
	return func(a *Agent) { a.notifier = n }
}

func NewAgent(llm LLM, log *slog.Logger, opts ...AgentOption) *Agent {
	a := &Agent{llm: llm, log: log}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Agent) Analyze(ctx context.Context, req Request) (Result, error) {
	r, err := rubric.Lookup(req.Rubric)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return Result{}, ErrEmptyInput
	}

	msgs := []llm.Message{{
		Role:    "user",
		Content: buildPrompt(r, req.Text),
	}}

	msg, err := a.llm.CompleteWithTools(ctx, systemPrompt(r), msgs, []anthropic.ToolParam{analysisTool(r)})
	if err != nil {
		return Result{}, fmt.Errorf("llm analysis: %w", err)
	}

	resp, err := llm.FromMessage(msg)
	if err != nil {
		return Result{}, fmt.Errorf("read llm response: %w", err)
	}

	var res Result
	if block, ok := llm.FindToolUseBlock(resp, ToolName); ok {
		res, err = parseResult(block.Input)
		if err != nil {
			return Result{}, err
		}
	} else {
		a.log.Warn("analysis answered with text instead of tool call, using as summary",
			"rubric", r.Name, "stop_reason", resp.StopReason)
		res = Result{Summary: llm.Text(resp)}
	}
	res.Rubric = r.Name
	res.StopReason = resp.StopReason

	a.log.Info("analysis complete", "rubric", r.Name, "scores", len(res.Scores), "by", req.RequestedBy)

	if a.notifier != nil {
		if err := a.notifier.NotifyAnalysis(ctx, req, res); err != nil {
			a.log.Warn("failed to send analysis notification", "err", err)
		}
	}

	return res, nil
}

func analysisTool(r rubric.Rubric) anthropic.ToolParam {
	return anthropic.ToolParam{
		Name:        ToolName,
		Description: anthropic.String("Submit the completed analysis. Always call this - never respond with plain text."),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: map[string]interface{}{
				"summary": map[string]interface{}{
					"type":        "string",
					"description": "Overall assessment in a few short paragraphs separated by line breaks.",
				},
				"scores": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"criterion": map[string]interface{}{
								"type": "string",
								"enum": r.Criteria,
							},
							"score": map[string]interface{}{
								"type":    "integer",
								"minimum": 1,
								"maximum": 5,
							},
							"rationale": map[string]interface{}{
								"type":        "string",
								"description": "One sentence explaining the score.",
							},
						},
						"required": []string{"criterion", "score", "rationale"},
					},
					"description": "One entry per rubric criterion.",
				},
			},
			Required: []string{"summary", "scores"},
		},
	}
}

type submitAnalysisInput struct {
	Summary string  `json:"summary"`
	Scores  []Score `json:"scores"`
}

func parseResult(input map[string]any) (Result, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return Result{}, fmt.Errorf("marshal analysis input: %w", err)
	}
	var in submitAnalysisInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return Result{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return Result{Summary: in.Summary, Scores: in.Scores}, nil
}

func systemPrompt(r rubric.Rubric) string {
	return fmt.Sprintf(`You are a careful reviewer applying a fixed scoring rubric.
You will be given a piece of text. Score it against every criterion below and
write a short overall summary.

Rubric: %s

%s

Be direct and specific. Scores are integers from 1 to 5.
Always respond by calling %s - never with plain text.`, r.Title, r.Guidelines, ToolName)
}

func buildPrompt(r rubric.Rubric, text string) string {
	return fmt.Sprintf(`Please analyze the following text using the %q rubric.

---
%s
---`, r.Name, truncate(text, maxInputChars))
}

// truncate keeps the first max characters of s. The cut never splits a
// multi-byte character.
func truncate(s string, max int) string {
	n := utf8.RuneCountInString(s)
	if n <= max {
		return s
	}
	i := 0
	for off := range s {
		if i == max {
			s = s[:off]
			break
		}
		i++
	}
	return s + fmt.Sprintf("\n... (truncated, %d chars total)", n)
}

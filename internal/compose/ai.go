package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
	"github.com/campus-ops/nudge-cli/internal/resilience"
	"github.com/campus-ops/nudge-cli/pkg/anthropic"
)

// AIComposer asks the content service for a personalized email. Only
// public-safe fields (name, completion, missing-field labels, nudge and
// strategy metadata) leave the process. Any failure renders the template
// instead.
type AIComposer struct {
	client   anthropic.Client
	model    string
	timeout  time.Duration
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	fallback *TemplateComposer
}

// AIOptions configures an AIComposer.
type AIOptions struct {
	Model   string
	Timeout time.Duration
	Retry   resilience.RetryConfig
}

// NewAIComposer creates the service-backed composer over the given
// deterministic fallback.
func NewAIComposer(client anthropic.Client, fallback *TemplateComposer, opts AIOptions) *AIComposer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &AIComposer{
		client:   client,
		model:    opts.Model,
		timeout:  opts.Timeout,
		retry:    opts.Retry,
		breaker:  resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
		fallback: fallback,
	}
}

// Compose implements Composer.
func (c *AIComposer) Compose(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult, decision model.Decision, level nudge.LevelConfig) model.Message {
	subject, body, err := c.generate(ctx, rec, analysis, decision, level)
	if err != nil {
		zap.L().Warn("compose: degraded to template",
			zap.Int("row", rec.RowIndex),
			zap.Error(err),
		)
		return c.fallback.Compose(ctx, rec, analysis, decision, level)
	}

	return model.Message{
		RowIndex:      rec.RowIndex,
		StudentEmail:  rec.Email(),
		StudentName:   rec.DisplayName("Student"),
		Subject:       subject,
		BodyHTML:      body,
		MissingFields: analysis.MissingFields,
		Completion:    analysis.Completion,
		NudgeLevel:    level.Level,
		Provenance:    decision.Provenance,
	}
}

func (c *AIComposer) generate(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult, decision model.Decision, level nudge.LevelConfig) (subject, body string, err error) {
	prompt := fmt.Sprintf(composeUserPrompt,
		c.fallback.orgName,
		rec.DisplayName("Student"),
		analysis.Completion,
		strings.Join(model.Labels(analysis.MissingFields), ", "),
		level.Level, level.Description,
		string(level.Tone),
		level.Urgency,
		string(decision.Strategy.Tone),
		string(decision.Strategy.Length),
		string(decision.Strategy.Emphasis),
		level.SubjectPrefix,
		c.fallback.formURL,
		c.fallback.orgName,
	)

	text, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, c.retry, "compose.generate", func(ctx context.Context) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			resp, err := c.client.CreateMessage(callCtx, anthropic.MessageRequest{
				Model:     c.model,
				MaxTokens: 2000,
				System:    composeSystemPrompt,
				Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
			})
			if err != nil {
				return "", err
			}
			return anthropic.Text(resp), nil
		})
	})
	if err != nil {
		return "", "", err
	}

	var raw struct {
		Subject  string `json:"subject"`
		BodyHTML string `json:"body_html"`
	}
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(text)), &raw); err != nil {
		return "", "", eris.Wrap(err, "compose: parse email response")
	}
	if raw.Subject == "" || raw.BodyHTML == "" {
		return "", "", eris.New("compose: incomplete email response")
	}

	// The subject prefix is the escalation contract; enforce it even when
	// the service forgets.
	if level.SubjectPrefix != "" && !strings.HasPrefix(raw.Subject, level.SubjectPrefix) {
		raw.Subject = level.SubjectPrefix + raw.Subject
	}
	return raw.Subject, raw.BodyHTML, nil
}

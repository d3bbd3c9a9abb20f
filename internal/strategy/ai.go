package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/resilience"
	"github.com/campus-ops/nudge-cli/pkg/anthropic"
)

// AIEngine delegates gap analysis and strategy selection to the decision
// service, with a bounded timeout per call. Any failure (timeout, API
// error, malformed response, open circuit) degrades to the deterministic
// fallback for that record, flagged by provenance.
type AIEngine struct {
	client   anthropic.Client
	model    string
	timeout  time.Duration
	retry    resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
	fallback *Fallback
}

// AIOptions configures an AIEngine.
type AIOptions struct {
	Model   string
	Timeout time.Duration
	Retry   resilience.RetryConfig
	Bands   Bands
}

// NewAIEngine creates the service-backed engine.
func NewAIEngine(client anthropic.Client, opts AIOptions) *AIEngine {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &AIEngine{
		client:   client,
		model:    opts.Model,
		timeout:  opts.Timeout,
		retry:    opts.Retry,
		breaker:  resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
		fallback: NewFallback(opts.Bands),
	}
}

// Decide implements Engine.
func (e *AIEngine) Decide(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult) model.Decision {
	ga, err := e.analyzeGaps(ctx, rec, analysis)
	if err != nil {
		zap.L().Warn("strategy: gap analysis degraded to fallback",
			zap.Int("row", rec.RowIndex),
			zap.Error(err),
		)
		return e.fallback.Decide(ctx, rec, analysis)
	}

	st, err := e.decideStrategy(ctx, rec, analysis, ga)
	if err != nil {
		zap.L().Warn("strategy: strategy decision degraded to fallback",
			zap.Int("row", rec.RowIndex),
			zap.Error(err),
		)
		d := e.fallback.Decide(ctx, rec, analysis)
		// The gap analysis succeeded; keep it alongside the fallback strategy.
		d.Analysis = ga
		return d
	}

	return model.Decision{
		Analysis:   ga,
		Strategy:   st,
		Provenance: model.ProvenanceModel,
	}
}

func (e *AIEngine) analyzeGaps(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult) (model.GapAnalysis, error) {
	prompt := fmt.Sprintf(analyzeUserPrompt,
		rec.DisplayName("Unknown"),
		valueOr(rec.Email(), "unknown"),
		analysis.Completion,
		strings.Join(model.Labels(analysis.MissingFields), ", "),
	)

	text, err := e.call(ctx, "strategy.analyze", analyzeSystemPrompt, prompt)
	if err != nil {
		return model.GapAnalysis{}, err
	}

	var ga model.GapAnalysis
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(text)), &ga); err != nil {
		return model.GapAnalysis{}, eris.Wrap(err, "strategy: parse gap analysis")
	}
	if ga.Criticality == "" || ga.Priority == "" {
		return model.GapAnalysis{}, eris.New("strategy: incomplete gap analysis response")
	}
	return ga, nil
}

func (e *AIEngine) decideStrategy(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult, ga model.GapAnalysis) (model.Strategy, error) {
	prompt := fmt.Sprintf(strategyUserPrompt,
		rec.DisplayName("Unknown"),
		analysis.Completion,
		strings.Join(model.Labels(analysis.MissingFields), ", "),
		ga.Criticality, ga.Responsiveness, ga.Priority, ga.Reasoning,
	)

	text, err := e.call(ctx, "strategy.decide", strategySystemPrompt, prompt)
	if err != nil {
		return model.Strategy{}, err
	}

	var raw struct {
		Tone      string `json:"tone"`
		Length    string `json:"length"`
		Emphasis  string `json:"emphasis"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(anthropic.CleanJSON(text)), &raw); err != nil {
		return model.Strategy{}, eris.Wrap(err, "strategy: parse strategy")
	}
	if !model.ValidTone(raw.Tone) || !model.ValidLength(raw.Length) || !model.ValidEmphasis(raw.Emphasis) {
		return model.Strategy{}, eris.Errorf("strategy: invalid enum in response: tone=%q length=%q emphasis=%q", raw.Tone, raw.Length, raw.Emphasis)
	}

	return model.Strategy{
		Tone:      model.Tone(raw.Tone),
		Length:    model.Length(raw.Length),
		Emphasis:  model.Emphasis(raw.Emphasis),
		Reasoning: raw.Reasoning,
	}, nil
}

// call runs one decision-service request through the circuit breaker with
// retries and a per-call timeout.
func (e *AIEngine) call(ctx context.Context, op, system, prompt string) (string, error) {
	return resilience.ExecuteVal(ctx, e.breaker, func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, e.retry, op, func(ctx context.Context) (string, error) {
			callCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			resp, err := e.client.CreateMessage(callCtx, anthropic.MessageRequest{
				Model:     e.model,
				MaxTokens: 500,
				System:    system,
				Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
			})
			if err != nil {
				return "", err
			}
			return anthropic.Text(resp), nil
		})
	})
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

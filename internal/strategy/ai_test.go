package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/resilience"
)

const gapJSON = `{"criticality": "high", "responsiveness": "low", "priority": "yes", "reasoning": "contact details missing"}`
const strategyJSON = `{"tone": "urgent", "length": "medium", "emphasis": "deadline", "reasoning": "low completion"}`

// noRetry keeps degradation tests fast: one attempt, no backoff.
func noRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts: 1,
		ShouldRetry: func(error) bool { return false },
	}
}

func testAnalysis() model.AnalysisResult {
	return model.AnalysisResult{
		Completion:    45,
		MissingFields: []model.CanonicalField{model.FieldEmail, model.FieldDateOfBirth},
	}
}

func TestAIEngineDecide(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		textResponse(gapJSON),
		textResponse(strategyJSON),
	}}
	e := NewAIEngine(client, AIOptions{Model: "test-model", Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())

	assert.Equal(t, model.ProvenanceModel, d.Provenance)
	assert.Equal(t, "high", d.Analysis.Criticality)
	assert.Equal(t, "contact details missing", d.Analysis.Reasoning)
	assert.Equal(t, model.ToneUrgent, d.Strategy.Tone)
	assert.Equal(t, model.LengthMedium, d.Strategy.Length)
	assert.Equal(t, model.EmphasisDeadline, d.Strategy.Emphasis)
	assert.Equal(t, 2, client.calls)
}

func TestAIEngineDecideFencedJSON(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		textResponse("```json\n" + gapJSON + "\n```"),
		textResponse("Here is the strategy:\n" + strategyJSON),
	}}
	e := NewAIEngine(client, AIOptions{Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())
	assert.Equal(t, model.ProvenanceModel, d.Provenance)
	assert.Equal(t, model.ToneUrgent, d.Strategy.Tone)
}

func TestAIEngineGapAnalysisFailureFallsBack(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		errResponse("service unavailable"),
	}}
	e := NewAIEngine(client, AIOptions{Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())

	assert.Equal(t, model.ProvenanceFallback, d.Provenance)
	// 45% with default bands lands in the urgent band.
	assert.Equal(t, model.ToneUrgent, d.Strategy.Tone)
	assert.Equal(t, "high", d.Analysis.Criticality)
}

func TestAIEngineMalformedResponseFallsBack(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		textResponse("I am unable to answer in JSON today."),
	}}
	e := NewAIEngine(client, AIOptions{Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())
	assert.Equal(t, model.ProvenanceFallback, d.Provenance)
}

func TestAIEngineStrategyFailureKeepsGapAnalysis(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		textResponse(gapJSON),
		textResponse(`{"tone": "shouty", "length": "medium", "emphasis": "deadline"}`),
	}}
	e := NewAIEngine(client, AIOptions{Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())

	assert.Equal(t, model.ProvenanceFallback, d.Provenance)
	// The successful gap analysis survives the strategy fallback.
	assert.Equal(t, "contact details missing", d.Analysis.Reasoning)
	assert.Equal(t, model.ToneUrgent, d.Strategy.Tone)
}

func TestAIEngineTimeoutFallsBack(t *testing.T) {
	slow := &slowClient{delay: 200 * time.Millisecond}
	e := NewAIEngine(slow, AIOptions{Timeout: 10 * time.Millisecond, Retry: noRetry()})

	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())
	assert.Equal(t, model.ProvenanceFallback, d.Provenance)
}

func TestAIEngineCircuitOpensAfterRepeatedFailures(t *testing.T) {
	client := &mockClient{responses: []mockResponse{
		errResponse("boom"),
	}}
	e := NewAIEngine(client, AIOptions{Retry: noRetry()})

	// Default threshold is five consecutive failures.
	for i := 0; i < 5; i++ {
		_ = e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())
	}
	require.Equal(t, resilience.CircuitOpen, e.breaker.State())

	callsBefore := client.calls
	d := e.Decide(context.Background(), model.StudentRecord{}, testAnalysis())
	assert.Equal(t, model.ProvenanceFallback, d.Provenance)
	assert.Equal(t, callsBefore, client.calls, "open circuit must not reach the client")
}

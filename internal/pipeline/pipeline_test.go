package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/nudge-cli/internal/compose"
	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
	"github.com/campus-ops/nudge-cli/internal/roster"
	"github.com/campus-ops/nudge-cli/internal/strategy"
)

// countingEngine wraps the deterministic engine and counts invocations.
type countingEngine struct {
	mu    sync.Mutex
	inner strategy.Engine
	calls int
}

func (e *countingEngine) Decide(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult) model.Decision {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return e.inner.Decide(ctx, rec, analysis)
}

// progressRecorder collects the event stream for assertions.
type progressRecorder struct {
	mu     sync.Mutex
	events []model.ProgressEvent
}

func (p *progressRecorder) Publish(ev model.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testRegistry keeps only name and email mandatory so fixtures stay small.
func testRegistry(t *testing.T) *model.FieldRegistry {
	t.Helper()
	r, err := model.NewFieldRegistry(nil, []model.CanonicalField{model.FieldStudentName, model.FieldEmail})
	require.NoError(t, err)
	return r
}

func newTestPipeline(t *testing.T, engine strategy.Engine, sink model.ProgressSink) *Pipeline {
	t.Helper()
	registry := testRegistry(t)
	loader := roster.NewLoader(registry, 0, "")
	composer := compose.NewTemplate("Test Institute", "https://forms.example.edu/p")
	return New(registry, loader, engine, composer, Options{
		Concurrency: 2,
		Progress:    sink,
		Policy:      nudge.NewPolicy(3, 2),
	})
}

func TestPipelineRun(t *testing.T) {
	path := writeRoster(t, `Student Name,Email Address
Asha Patel,asha@example.edu
Ravi Kumar,
,
`)
	engine := &countingEngine{inner: strategy.NewFallback(strategy.DefaultBands())}
	recorder := &progressRecorder{}
	p := newTestPipeline(t, engine, recorder)

	report, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.TotalStudents)
	assert.Equal(t, 2, report.IncompleteStudents)
	assert.Equal(t, 2, report.EmailsGenerated)
	require.Len(t, report.Students, 3)
	require.Len(t, report.Emails, 2)

	// The complete record never reaches the strategy engine.
	assert.Equal(t, 2, engine.calls)

	// Addressless messages are generated, not dropped. Both incomplete
	// rows here lack an address.
	var addressless int
	for _, m := range report.Emails {
		if m.StudentEmail == "" {
			addressless++
		}
	}
	assert.Equal(t, 2, addressless)
}

func TestPipelineProgressMonotonic(t *testing.T) {
	path := writeRoster(t, "Student Name,Email Address\nRavi Kumar,\n")
	recorder := &progressRecorder{}
	p := newTestPipeline(t, strategy.NewFallback(strategy.DefaultBands()), recorder)

	_, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	require.NotEmpty(t, recorder.events)
	last := 0
	for _, ev := range recorder.events {
		assert.GreaterOrEqual(t, ev.Percent, last, "stage %s", ev.Stage)
		last = ev.Percent
	}
	assert.Equal(t, 100, recorder.events[len(recorder.events)-1].Percent)
	assert.Equal(t, model.StageFinalize, recorder.events[len(recorder.events)-1].Stage)
}

func TestPipelineStageOrder(t *testing.T) {
	path := writeRoster(t, "Student Name,Email Address\nRavi Kumar,\n")
	recorder := &progressRecorder{}
	p := newTestPipeline(t, strategy.NewFallback(strategy.DefaultBands()), recorder)

	_, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	var stages []model.Stage
	for _, ev := range recorder.events {
		if len(stages) == 0 || stages[len(stages)-1] != ev.Stage {
			stages = append(stages, ev.Stage)
		}
	}
	assert.Equal(t, []model.Stage{
		model.StageIngest,
		model.StageScore,
		model.StageStrategize,
		model.StageCompose,
		model.StageFinalize,
	}, stages)
}

func TestPipelineAbortsOnMalformedInput(t *testing.T) {
	path := writeRoster(t, "Student Name,Email Address\n")
	recorder := &progressRecorder{}
	p := newTestPipeline(t, strategy.NewFallback(strategy.DefaultBands()), recorder)

	report, err := p.Run(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrMalformedInput)
	assert.Nil(t, report)

	last := recorder.events[len(recorder.events)-1]
	assert.Equal(t, model.StageAborted, last.Stage)
}

func TestPipelineAllComplete(t *testing.T) {
	path := writeRoster(t, `Student Name,Email Address
Asha Patel,asha@example.edu
Ravi Kumar,ravi@example.edu
`)
	engine := &countingEngine{inner: strategy.NewFallback(strategy.DefaultBands())}
	p := newTestPipeline(t, engine, nil)

	report, err := p.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalStudents)
	assert.Equal(t, 0, report.IncompleteStudents)
	assert.Equal(t, 0, report.EmailsGenerated)
	assert.Empty(t, report.Emails)
	assert.Equal(t, 0, engine.calls)
}

// Package pipeline orchestrates one roster run through its five stages:
// Ingest, Score, Strategize, Compose, Finalize.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campus-ops/nudge-cli/internal/compose"
	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
	"github.com/campus-ops/nudge-cli/internal/roster"
	"github.com/campus-ops/nudge-cli/internal/strategy"
)

// Pipeline wires the loader, strategy engine, composer and nudge history
// into a single run.
type Pipeline struct {
	registry    *model.FieldRegistry
	loader      *roster.Loader
	engine      strategy.Engine
	composer    compose.Composer
	nudges      nudge.Store
	policy      nudge.Policy
	progress    model.ProgressSink
	concurrency int
}

// Options configures a Pipeline.
type Options struct {
	// Concurrency bounds per-record Strategize and Compose work.
	Concurrency int
	// Progress receives stage events; nil means no progress reporting.
	Progress model.ProgressSink
	// Nudges is the history store; nil means every recipient is treated
	// as never nudged.
	Nudges nudge.Store
	Policy nudge.Policy
}

// New creates a Pipeline.
func New(registry *model.FieldRegistry, loader *roster.Loader, engine strategy.Engine, composer compose.Composer, opts Options) *Pipeline {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Progress == nil {
		opts.Progress = model.NopProgress
	}
	if opts.Policy.MaxLevel == 0 {
		opts.Policy = nudge.NewPolicy(0, 0)
	}
	return &Pipeline{
		registry:    registry,
		loader:      loader,
		engine:      engine,
		composer:    composer,
		nudges:      opts.Nudges,
		policy:      opts.Policy,
		progress:    opts.Progress,
		concurrency: opts.Concurrency,
	}
}

// Run executes the full pipeline for one roster file. Only Ingest failure
// aborts the run; every later stage degrades per record instead.
func (p *Pipeline) Run(ctx context.Context, path string) (*model.RunReport, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID), zap.String("file", path))
	log.Info("pipeline: starting run")

	publish := func(stage model.Stage, message string, percent int) {
		p.progress.Publish(model.ProgressEvent{Stage: stage, Message: message, Percent: percent})
	}

	trackStage := func(stage model.Stage, fn func() error) error {
		start := time.Now()
		err := fn()
		duration := time.Since(start).Milliseconds()
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.Int64("duration_ms", duration),
				zap.Error(err),
			)
		} else {
			log.Info("pipeline: stage complete",
				zap.String("stage", string(stage)),
				zap.Int64("duration_ms", duration),
			)
		}
		return err
	}

	// ===== Ingest =====
	var records []model.StudentRecord
	if err := trackStage(model.StageIngest, func() error {
		publish(model.StageIngest, "reading roster file", 10)
		recs, loadErr := p.loader.Load(path)
		if loadErr != nil {
			return loadErr
		}
		records = recs
		publish(model.StageIngest, fmt.Sprintf("found %d students", len(recs)), 20)
		return nil
	}); err != nil {
		publish(model.StageAborted, err.Error(), 20)
		return nil, eris.Wrap(err, "pipeline: ingest")
	}

	// ===== Score =====
	var scored []model.ScoredRecord
	var incomplete int
	_ = trackStage(model.StageScore, func() error {
		scored = roster.ScoreAll(records, p.registry)
		for i := range scored {
			if !scored[i].Complete() {
				incomplete++
			}
		}
		publish(model.StageScore, fmt.Sprintf("scored %d students, %d incomplete", len(scored), incomplete), 30)
		return nil
	})

	// ===== Strategize =====
	decisions := make([]model.Decision, len(scored))
	_ = trackStage(model.StageStrategize, func() error {
		publish(model.StageStrategize, fmt.Sprintf("deciding outreach strategy for %d students", incomplete), 40)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for i := range scored {
			if scored[i].Complete() {
				continue
			}
			g.Go(func() error {
				decisions[i] = p.engine.Decide(gCtx, scored[i].StudentRecord, scored[i].AnalysisResult)
				return nil
			})
		}
		_ = g.Wait()

		publish(model.StageStrategize, "strategies decided", 50)
		return nil
	})

	// ===== Compose =====
	messages := make([]*model.Message, len(scored))
	_ = trackStage(model.StageCompose, func() error {
		publish(model.StageCompose, "generating personalized emails", 60)

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for i := range scored {
			if scored[i].Complete() {
				continue
			}
			g.Go(func() error {
				level := p.nudgeLevel(gCtx, scored[i].StudentRecord)
				msg := p.composer.Compose(gCtx, scored[i].StudentRecord, scored[i].AnalysisResult, decisions[i], level)
				messages[i] = &msg
				return nil
			})
		}
		_ = g.Wait()

		var generated int
		for _, m := range messages {
			if m != nil {
				generated++
			}
		}
		publish(model.StageCompose, fmt.Sprintf("generated %d personalized emails", generated), 90)
		return nil
	})

	// ===== Finalize =====
	report := &model.RunReport{
		RunID:              runID,
		TotalStudents:      len(scored),
		IncompleteStudents: incomplete,
		Students:           scored,
	}
	_ = trackStage(model.StageFinalize, func() error {
		for _, m := range messages {
			if m != nil {
				report.Emails = append(report.Emails, *m)
			}
		}
		report.EmailsGenerated = len(report.Emails)
		publish(model.StageFinalize, "run complete", 100)
		return nil
	})

	log.Info("pipeline: run finished",
		zap.Int("total_students", report.TotalStudents),
		zap.Int("incomplete_students", report.IncompleteStudents),
		zap.Int("emails_generated", report.EmailsGenerated),
	)
	return report, nil
}

// nudgeLevel resolves the escalation level for a record from stored
// history. Records without an address, store errors, and missing history
// all resolve to the first level.
func (p *Pipeline) nudgeLevel(ctx context.Context, rec model.StudentRecord) nudge.LevelConfig {
	level := 1
	if email := rec.Email(); email != "" && p.nudges != nil {
		h, err := p.nudges.Get(ctx, email)
		if err != nil {
			zap.L().Warn("pipeline: nudge history lookup failed",
				zap.String("email", email),
				zap.Error(err),
			)
		} else {
			level, _, _ = p.policy.Next(h, time.Now())
		}
	}
	return p.policy.Config(level)
}

package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
)

// Coordinator fans a batch of messages out to a transport. One failed
// send never stops the batch; every message gets exactly one outcome.
type Coordinator struct {
	transport   Transport
	fromName    string
	fromAddress string
	nudges      nudge.Store
	concurrency int
	limiter     *rate.Limiter
}

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	FromName    string
	FromAddress string
	// Nudges records successful sends; nil disables history tracking.
	Nudges nudge.Store
	// Concurrency bounds in-flight sends.
	Concurrency int
	// RatePerSec paces send attempts; non-positive means unpaced.
	RatePerSec float64
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(transport Transport, opts CoordinatorOptions) *Coordinator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return &Coordinator{
		transport:   transport,
		fromName:    opts.FromName,
		fromAddress: opts.FromAddress,
		nudges:      opts.Nudges,
		concurrency: opts.Concurrency,
		limiter:     limiter,
	}
}

// Send delivers the batch and returns the aggregate report. Messages
// without an address are skipped without a delivery attempt.
func (c *Coordinator) Send(ctx context.Context, messages []model.Message) model.DispatchReport {
	outcomes := make([]model.DispatchOutcome, len(messages))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i := range messages {
		msg := messages[i]
		if msg.StudentEmail == "" {
			outcomes[i] = model.DispatchOutcome{
				RowIndex: msg.RowIndex,
				Status:   model.OutcomeSkipped,
				Detail:   "no email address on record",
			}
			continue
		}

		g.Go(func() error {
			outcomes[i] = c.sendOne(gCtx, msg)
			return nil
		})
	}
	_ = g.Wait()

	report := model.DispatchReport{
		Total:    len(messages),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case model.OutcomeSent:
			report.Sent++
		case model.OutcomeSkipped:
			report.Skipped++
		case model.OutcomeFailed:
			report.Failed++
		}
	}
	report.Success = report.Failed == 0

	zap.L().Info("dispatch: batch complete",
		zap.Int("total", report.Total),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report
}

func (c *Coordinator) sendOne(ctx context.Context, msg model.Message) model.DispatchOutcome {
	outcome := model.DispatchOutcome{
		RowIndex: msg.RowIndex,
		Email:    msg.StudentEmail,
	}

	if err := c.limiter.Wait(ctx); err != nil {
		outcome.Status = model.OutcomeFailed
		outcome.Detail = err.Error()
		return outcome
	}

	err := c.transport.Send(ctx, Email{
		FromName:    c.fromName,
		FromAddress: c.fromAddress,
		ToName:      msg.StudentName,
		ToAddress:   msg.StudentEmail,
		Subject:     msg.Subject,
		BodyHTML:    msg.BodyHTML,
	})
	if err != nil {
		zap.L().Warn("dispatch: send failed",
			zap.String("email", msg.StudentEmail),
			zap.Int("row", msg.RowIndex),
			zap.Error(err),
		)
		outcome.Status = model.OutcomeFailed
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Status = model.OutcomeSent
	if c.nudges != nil {
		if err := c.nudges.Record(ctx, msg.StudentEmail, msg.StudentName, msg.NudgeLevel, time.Now()); err != nil {
			zap.L().Warn("dispatch: record nudge failed",
				zap.String("email", msg.StudentEmail),
				zap.Error(err),
			)
		}
	}
	return outcome
}

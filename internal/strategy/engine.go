// Package strategy decides the tone, length, and emphasis of outreach for
// each incomplete record. The primary engine delegates to the external
// decision service; a deterministic band-based fallback covers every
// failure mode so the pipeline never blocks on the service.
package strategy

import (
	"context"

	"github.com/campus-ops/nudge-cli/internal/model"
)

// Engine produces a Decision for one incomplete record. Decide never
// fails: implementations absorb external-service errors by falling back
// deterministically and flagging provenance.
type Engine interface {
	Decide(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult) model.Decision
}

// Bands holds the completion-percentage thresholds driving the fallback
// rule table. These are configuration defaults, not fixed constants.
type Bands struct {
	UrgentBelow int // completion below this → urgent/deadline
	FriendlyAt  int // completion at or above this → friendly/personal_touch
}

// DefaultBands returns the stock 70/90 thresholds.
func DefaultBands() Bands {
	return Bands{UrgentBelow: 70, FriendlyAt: 90}
}

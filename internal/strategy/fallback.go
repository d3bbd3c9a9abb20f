package strategy

import (
	"context"
	"fmt"

	"github.com/campus-ops/nudge-cli/internal/model"
)

// Fallback is the deterministic rule-table engine. It is used transparently
// whenever the decision service fails, and directly in offline mode.
type Fallback struct {
	bands Bands
}

// NewFallback creates a Fallback engine over the given bands.
func NewFallback(bands Bands) *Fallback {
	if bands.UrgentBelow <= 0 && bands.FriendlyAt <= 0 {
		bands = DefaultBands()
	}
	return &Fallback{bands: bands}
}

// Decide applies the rule table keyed on completion band and missing-field
// count. It cannot fail.
func (f *Fallback) Decide(_ context.Context, _ model.StudentRecord, analysis model.AnalysisResult) model.Decision {
	d := model.Decision{Provenance: model.ProvenanceFallback}

	missing := len(analysis.MissingFields)

	switch {
	case analysis.Completion < f.bands.UrgentBelow:
		d.Strategy.Tone = model.ToneUrgent
		d.Strategy.Emphasis = model.EmphasisDeadline
		d.Analysis.Criticality = "high"
		d.Analysis.Priority = "yes"
	case analysis.Completion < f.bands.FriendlyAt:
		d.Strategy.Tone = model.ToneProfessional
		d.Strategy.Emphasis = model.EmphasisBenefits
		d.Analysis.Criticality = "medium"
		d.Analysis.Priority = "yes"
	default:
		d.Strategy.Tone = model.ToneFriendly
		d.Strategy.Emphasis = model.EmphasisPersonalTouch
		d.Analysis.Criticality = "low"
		d.Analysis.Priority = "no"
	}

	switch {
	case missing <= 2:
		d.Strategy.Length = model.LengthShort
	case missing >= 6:
		d.Strategy.Length = model.LengthDetailed
	default:
		d.Strategy.Length = model.LengthMedium
	}

	d.Analysis.Responsiveness = "medium"
	d.Analysis.Reasoning = fmt.Sprintf("rule table: %d%% complete, %d missing fields", analysis.Completion, missing)
	d.Strategy.Reasoning = d.Analysis.Reasoning

	return d
}

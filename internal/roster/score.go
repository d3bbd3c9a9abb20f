package roster

import (
	"math"

	"github.com/campus-ops/nudge-cli/internal/model"
)

// Score computes the missing-field set and completion percentage for one
// record against the registry's mandatory fields. Pure and idempotent:
// it reads only the record's field values and the fixed mandatory set.
// An empty mandatory set scores every record as 100.
func Score(rec model.StudentRecord, registry *model.FieldRegistry) model.AnalysisResult {
	mandatory := registry.Mandatory()
	total := len(mandatory)
	if total == 0 {
		return model.AnalysisResult{Completion: 100}
	}

	// Mandatory() is in canonical declaration order, so missing fields are too.
	var missing []model.CanonicalField
	for _, f := range mandatory {
		if rec.Value(f) == "" {
			missing = append(missing, f)
		}
	}

	completed := total - len(missing)
	completion := int(math.Round(100 * float64(completed) / float64(total)))

	return model.AnalysisResult{
		MissingFields: missing,
		Completion:    completion,
	}
}

// ScoreAll scores every record, preserving order.
func ScoreAll(records []model.StudentRecord, registry *model.FieldRegistry) []model.ScoredRecord {
	out := make([]model.ScoredRecord, len(records))
	for i, rec := range records {
		out[i] = model.ScoredRecord{
			StudentRecord:  rec,
			AnalysisResult: Score(rec, registry),
		}
	}
	return out
}

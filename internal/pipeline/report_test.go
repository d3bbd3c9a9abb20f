package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-ops/nudge-cli/internal/model"
)

func TestFormatReport(t *testing.T) {
	report := &model.RunReport{
		RunID:              "run-123",
		TotalStudents:      2,
		IncompleteStudents: 1,
		EmailsGenerated:    1,
		Students: []model.ScoredRecord{
			{
				StudentRecord: model.StudentRecord{
					RowIndex: 0,
					Fields:   map[model.CanonicalField]string{model.FieldStudentName: "Asha Patel"},
				},
				AnalysisResult: model.AnalysisResult{
					Completion:    50,
					MissingFields: []model.CanonicalField{model.FieldEmail},
				},
			},
			{
				StudentRecord:  model.StudentRecord{RowIndex: 1},
				AnalysisResult: model.AnalysisResult{Completion: 100},
			},
		},
		Emails: []model.Message{
			{RowIndex: 0, NudgeLevel: 2, Provenance: model.ProvenanceFallback},
		},
	}

	out := FormatReport(report)
	assert.Contains(t, out, "run-123")
	assert.Contains(t, out, "2 total, 1 incomplete")
	assert.Contains(t, out, "Asha Patel")
	assert.Contains(t, out, "Email")
	assert.Contains(t, out, "level 2")
	assert.Contains(t, out, "fallback")
}

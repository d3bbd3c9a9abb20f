// Package compose turns a scored record and its strategy decision into a
// finalized outreach email. Composers never fail: the service-backed path
// degrades to the fixed HTML template and flags the message by provenance.
package compose

import (
	"context"

	"github.com/campus-ops/nudge-cli/internal/model"
	"github.com/campus-ops/nudge-cli/internal/nudge"
)

// Composer produces one Message per incomplete record. Implementations
// must not be invoked for complete records.
type Composer interface {
	Compose(ctx context.Context, rec model.StudentRecord, analysis model.AnalysisResult, decision model.Decision, level nudge.LevelConfig) model.Message
}

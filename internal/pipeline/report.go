package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/campus-ops/nudge-cli/internal/model"
)

// FormatReport renders a run report as human-readable text for terminal
// output.
func FormatReport(r *model.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s\n", r.RunID)
	fmt.Fprintf(&b, "  Students:   %d total, %d incomplete\n", r.TotalStudents, r.IncompleteStudents)
	fmt.Fprintf(&b, "  Emails:     %d generated\n", r.EmailsGenerated)

	if r.IncompleteStudents > 0 {
		b.WriteString("\nIncomplete profiles:\n")
		for _, s := range r.Students {
			if s.Complete() {
				continue
			}
			fmt.Fprintf(&b, "  row %-4d %-30s %3d%%  missing: %s\n",
				s.RowIndex,
				s.DisplayName("(no name)"),
				s.Completion,
				strings.Join(model.Labels(s.MissingFields), ", "),
			)
		}
	}

	if len(r.Emails) > 0 {
		counts := map[string]int{}
		for _, m := range r.Emails {
			counts[fmt.Sprintf("level %d", m.NudgeLevel)]++
			if m.StudentEmail == "" {
				counts["no address"]++
			}
			if m.Provenance == model.ProvenanceFallback {
				counts["fallback"]++
			}
		}
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\nGenerated emails:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-12s %d\n", k, counts[k])
		}
	}

	return b.String()
}

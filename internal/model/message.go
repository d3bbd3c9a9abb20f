package model

// Message is one finalized outreach email for an incomplete record.
// StudentEmail may be empty; dispatch marks such messages skipped rather
// than dropping them. RowIndex correlates the message back to its record.
type Message struct {
	RowIndex      int              `json:"row_index"`
	StudentEmail  string           `json:"student_email"`
	StudentName   string           `json:"student_name"`
	Subject       string           `json:"subject"`
	BodyHTML      string           `json:"body_html"`
	MissingFields []CanonicalField `json:"missing_fields"`
	Completion    int              `json:"completion"`
	NudgeLevel    int              `json:"nudge_level"`
	Provenance    Provenance       `json:"provenance"`
}

// OutcomeStatus is the per-message dispatch result.
type OutcomeStatus string

const (
	OutcomeSent    OutcomeStatus = "sent"
	OutcomeSkipped OutcomeStatus = "skipped-no-address"
	OutcomeFailed  OutcomeStatus = "failed"
)

// DispatchOutcome records the delivery attempt for one message.
type DispatchOutcome struct {
	RowIndex int           `json:"row_index"`
	Email    string        `json:"email,omitempty"`
	Status   OutcomeStatus `json:"status"`
	Detail   string        `json:"detail,omitempty"`
}

// DispatchReport is the batch-level dispatch result, assembled after all
// sends have finished.
type DispatchReport struct {
	Success  bool              `json:"success"`
	Sent     int               `json:"sent"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Total    int               `json:"total"`
	Outcomes []DispatchOutcome `json:"outcomes"`
}

// RunReport is the final pipeline output for one roster run.
type RunReport struct {
	RunID              string         `json:"run_id"`
	TotalStudents      int            `json:"total_students"`
	IncompleteStudents int            `json:"incomplete_students"`
	EmailsGenerated    int            `json:"emails_generated"`
	Students           []ScoredRecord `json:"students"`
	Emails             []Message      `json:"emails"`
}

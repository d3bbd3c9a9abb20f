package model

import "strings"

// StudentRecord is one roster row mapped onto the canonical field
// vocabulary. Every canonical field key is present (possibly empty) so
// downstream code never branches on missing keys. Columns that did not
// normalize to a canonical field are preserved verbatim in Extra.
type StudentRecord struct {
	RowIndex int                       `json:"row_index"`
	Fields   map[CanonicalField]string `json:"fields"`
	Extra    map[string]string         `json:"extra,omitempty"`
}

// Value returns the canonical field value, trimmed.
func (s StudentRecord) Value(f CanonicalField) string {
	return strings.TrimSpace(s.Fields[f])
}

// DisplayName returns the student's name, or the given fallback when the
// name field is blank.
func (s StudentRecord) DisplayName(fallback string) string {
	if name := s.Value(FieldStudentName); name != "" {
		return name
	}
	return fallback
}

// Email returns the record's contact address, empty when none is known.
func (s StudentRecord) Email() string {
	return s.Value(FieldEmail)
}

// AnalysisResult is the Completion Scorer's derived annotation for one
// record. MissingFields is ordered by canonical field declaration order,
// not by input column order.
type AnalysisResult struct {
	MissingFields []CanonicalField `json:"missing_fields"`
	Completion    int              `json:"completion"`
}

// Complete reports whether the record has no missing mandatory fields.
func (a AnalysisResult) Complete() bool {
	return len(a.MissingFields) == 0
}

// ScoredRecord pairs a record with its analysis for the final report.
type ScoredRecord struct {
	StudentRecord
	AnalysisResult
}

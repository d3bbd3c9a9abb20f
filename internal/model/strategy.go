package model

// Provenance records whether a decision came from the external model or
// from the deterministic fallback path. Observability only: callers treat
// both identically.
type Provenance string

const (
	ProvenanceModel    Provenance = "model"
	ProvenanceFallback Provenance = "fallback"
)

// Tone is the voice a generated message should take.
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneUrgent       Tone = "urgent"
)

// Length is the target size of a generated message.
type Length string

const (
	LengthShort    Length = "short"
	LengthMedium   Length = "medium"
	LengthDetailed Length = "detailed"
)

// Emphasis is what a generated message should lead with.
type Emphasis string

const (
	EmphasisDeadline      Emphasis = "deadline"
	EmphasisBenefits      Emphasis = "benefits"
	EmphasisPersonalTouch Emphasis = "personal_touch"
)

// GapAnalysis is the decision service's read on one incomplete profile.
type GapAnalysis struct {
	Criticality    string `json:"criticality"`    // low | medium | high
	Responsiveness string `json:"responsiveness"` // low | medium | high
	Priority       string `json:"priority"`       // yes | no
	Reasoning      string `json:"reasoning"`
}

// Strategy governs how the outreach message for one record should read.
// Produced once per incomplete record, immutable.
type Strategy struct {
	Tone      Tone     `json:"tone"`
	Length    Length   `json:"length"`
	Emphasis  Emphasis `json:"emphasis"`
	Reasoning string   `json:"reasoning"`
}

// Decision bundles the gap analysis and strategy for one record together
// with the provenance flag.
type Decision struct {
	Analysis   GapAnalysis `json:"analysis"`
	Strategy   Strategy    `json:"strategy"`
	Provenance Provenance  `json:"provenance"`
}

// ValidTone reports whether s is one of the accepted tone values.
func ValidTone(s string) bool {
	switch Tone(s) {
	case ToneFriendly, ToneProfessional, ToneUrgent:
		return true
	}
	return false
}

// ValidLength reports whether s is one of the accepted length values.
func ValidLength(s string) bool {
	switch Length(s) {
	case LengthShort, LengthMedium, LengthDetailed:
		return true
	}
	return false
}

// ValidEmphasis reports whether s is one of the accepted emphasis values.
func ValidEmphasis(s string) bool {
	switch Emphasis(s) {
	case EmphasisDeadline, EmphasisBenefits, EmphasisPersonalTouch:
		return true
	}
	return false
}

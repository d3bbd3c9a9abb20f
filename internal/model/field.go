package model

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalField is one of the fixed logical profile attributes tracked
// per student record.
type CanonicalField string

const (
	FieldStudentName       CanonicalField = "student_name"
	FieldRollNumber        CanonicalField = "roll_number"
	FieldInstituteName     CanonicalField = "institute_name"
	FieldEnrolledProgram   CanonicalField = "enrolled_program"
	FieldStream            CanonicalField = "stream"
	FieldDateOfBirth       CanonicalField = "date_of_birth"
	FieldGender            CanonicalField = "gender"
	FieldEmail             CanonicalField = "email"
	FieldPreviousEducation CanonicalField = "previous_education"
	FieldPrimaryLanguage   CanonicalField = "primary_language"
	FieldNationality       CanonicalField = "nationality"
)

// AllFields returns every canonical field in declaration order. Missing-field
// sets and field iteration everywhere in the pipeline follow this order.
func AllFields() []CanonicalField {
	return []CanonicalField{
		FieldStudentName,
		FieldRollNumber,
		FieldInstituteName,
		FieldEnrolledProgram,
		FieldStream,
		FieldDateOfBirth,
		FieldGender,
		FieldEmail,
		FieldPreviousEducation,
		FieldPrimaryLanguage,
		FieldNationality,
	}
}

// ErrAmbiguousAlias indicates an alias table where one normalized header
// maps to more than one canonical field. This is a configuration error and
// fails registry construction, never a per-row failure.
var ErrAmbiguousAlias = eris.New("field: alias maps to multiple canonical fields")

// defaultAliases maps normalized raw headers onto canonical fields. The
// canonical key itself (and its space-separated spelling) is always
// accepted, so only other spellings need an entry here.
var defaultAliases = map[string]CanonicalField{
	"student name":                     FieldStudentName,
	"name":                             FieldStudentName,
	"roll no":                          FieldRollNumber,
	"institute":                        FieldInstituteName,
	"program":                          FieldEnrolledProgram,
	"dob":                              FieldDateOfBirth,
	"email address":                    FieldEmail,
	"previous education qualification": FieldPreviousEducation,
	"language":                         FieldPrimaryLanguage,
}

var labelCaser = cases.Title(language.English)

// FieldRegistry resolves raw spreadsheet headers to canonical fields and
// knows which fields are mandatory for completion scoring.
type FieldRegistry struct {
	aliases   map[string]CanonicalField
	mandatory []CanonicalField
}

// NewFieldRegistry builds a registry from an alias table and the mandatory
// field set. Alias keys are normalized before indexing; two aliases that
// normalize to the same header but name different fields fail construction
// with ErrAmbiguousAlias.
func NewFieldRegistry(aliases map[string]CanonicalField, mandatory []CanonicalField) (*FieldRegistry, error) {
	r := &FieldRegistry{
		aliases:   make(map[string]CanonicalField, len(aliases)+2*len(AllFields())),
		mandatory: mandatory,
	}

	// The canonical names themselves always resolve.
	for _, f := range AllFields() {
		r.aliases[normalizeHeader(string(f))] = f
		r.aliases[normalizeHeader(strings.ReplaceAll(string(f), "_", " "))] = f
	}

	// Deterministic iteration so a bad table reports the same alias every run.
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		field := aliases[raw]
		norm := normalizeHeader(raw)
		if norm == "" {
			return nil, eris.Errorf("field: blank alias for %q", field)
		}
		if existing, ok := r.aliases[norm]; ok && existing != field {
			return nil, eris.Wrapf(ErrAmbiguousAlias, "alias %q maps to both %q and %q", raw, existing, field)
		}
		r.aliases[norm] = field
	}

	return r, nil
}

// DefaultRegistry returns the built-in registry: the stock alias table with
// every canonical field mandatory.
func DefaultRegistry() *FieldRegistry {
	r, err := NewFieldRegistry(defaultAliases, AllFields())
	if err != nil {
		// The built-in table is unambiguous by construction.
		panic(err)
	}
	return r
}

// Normalize maps a raw spreadsheet header onto its canonical field.
// Matching is case-insensitive and collapses whitespace runs; unmatched
// headers return ok=false and are carried as pass-through data.
func (r *FieldRegistry) Normalize(rawHeader string) (CanonicalField, bool) {
	f, ok := r.aliases[normalizeHeader(rawHeader)]
	return f, ok
}

// Mandatory returns the mandatory field set in canonical declaration order.
func (r *FieldRegistry) Mandatory() []CanonicalField {
	want := make(map[CanonicalField]bool, len(r.mandatory))
	for _, f := range r.mandatory {
		want[f] = true
	}
	ordered := make([]CanonicalField, 0, len(r.mandatory))
	for _, f := range AllFields() {
		if want[f] {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

// Aliases returns a copy of the normalized alias table keyed by header text.
func (r *FieldRegistry) Aliases() map[string]CanonicalField {
	out := make(map[string]CanonicalField, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Label renders a canonical field as a human-readable label,
// e.g. date_of_birth → "Date Of Birth".
func Label(f CanonicalField) string {
	return labelCaser.String(strings.ReplaceAll(string(f), "_", " "))
}

// Labels renders a slice of canonical fields as human-readable labels.
func Labels(fields []CanonicalField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = Label(f)
	}
	return out
}

// normalizeHeader lowercases, trims, and collapses runs of whitespace to a
// single space.
func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

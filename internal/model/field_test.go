package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryNormalize(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name   string
		header string
		want   CanonicalField
		ok     bool
	}{
		{"canonical key", "email", FieldEmail, true},
		{"canonical with underscores", "date_of_birth", FieldDateOfBirth, true},
		{"canonical with spaces", "date of birth", FieldDateOfBirth, true},
		{"mixed case", "Email Address", FieldEmail, true},
		{"double internal space", "Date  of birth", FieldDateOfBirth, true},
		{"leading and trailing space", "  Roll No  ", FieldRollNumber, true},
		{"alias", "dob", FieldDateOfBirth, true},
		{"long alias", "Previous Education Qualification", FieldPreviousEducation, true},
		{"unknown header", "Hostel Block", "", false},
		{"empty header", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Normalize(tt.header)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewFieldRegistryAmbiguousAlias(t *testing.T) {
	_, err := NewFieldRegistry(map[string]CanonicalField{
		"contact": FieldEmail,
		"Contact": FieldStudentName,
	}, AllFields())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousAlias)
}

func TestNewFieldRegistryAliasOverlapsCanonical(t *testing.T) {
	// An alias that re-states a canonical spelling for the same field is
	// fine; pointing it at a different field is not.
	_, err := NewFieldRegistry(map[string]CanonicalField{"email": FieldEmail}, AllFields())
	require.NoError(t, err)

	_, err = NewFieldRegistry(map[string]CanonicalField{"email": FieldStudentName}, AllFields())
	assert.ErrorIs(t, err, ErrAmbiguousAlias)
}

func TestMandatoryDeclarationOrder(t *testing.T) {
	r, err := NewFieldRegistry(nil, []CanonicalField{FieldEmail, FieldStudentName, FieldDateOfBirth})
	require.NoError(t, err)

	assert.Equal(t, []CanonicalField{FieldStudentName, FieldDateOfBirth, FieldEmail}, r.Mandatory())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Date Of Birth", Label(FieldDateOfBirth))
	assert.Equal(t, "Email", Label(FieldEmail))
	assert.Equal(t, []string{"Student Name", "Roll Number"}, Labels([]CanonicalField{FieldStudentName, FieldRollNumber}))
}

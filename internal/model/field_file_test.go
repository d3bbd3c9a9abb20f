package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAliasFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegistryFile(t *testing.T) {
	path := writeAliasFile(t, `
aliases:
  "e-mail": email
  "birth date": date_of_birth
mandatory:
  - student_name
  - email
`)

	r, err := LoadRegistryFile(path)
	require.NoError(t, err)

	f, ok := r.Normalize("E-Mail")
	assert.True(t, ok)
	assert.Equal(t, FieldEmail, f)

	// Built-in aliases survive the merge.
	f, ok = r.Normalize("dob")
	assert.True(t, ok)
	assert.Equal(t, FieldDateOfBirth, f)

	assert.Equal(t, []CanonicalField{FieldStudentName, FieldEmail}, r.Mandatory())
}

func TestLoadRegistryFileEmptyMandatoryMeansAll(t *testing.T) {
	path := writeAliasFile(t, `
aliases:
  "contact": email
`)

	r, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, AllFields(), r.Mandatory())
}

func TestLoadRegistryFileUnknownField(t *testing.T) {
	path := writeAliasFile(t, `
aliases:
  "blood group": blood_group
`)

	_, err := LoadRegistryFile(path)
	assert.Error(t, err)
}

func TestLoadRegistryFileMissing(t *testing.T) {
	_, err := LoadRegistryFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

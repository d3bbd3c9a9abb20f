package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-ops/nudge-cli/internal/model"
)

func TestFromRows(t *testing.T) {
	l := NewLoader(model.DefaultRegistry(), 0, "")

	rows := [][]string{
		{"Student Name", "Roll No", "Email Address", "Hostel Block"},
		{"  Asha Patel  ", "21BCS042", "asha@example.edu", "B"},
		{"Ravi Kumar", "", "   ", "C"},
	}

	records, err := l.FromRows(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, 0, first.RowIndex)
	assert.Equal(t, "Asha Patel", first.Value(model.FieldStudentName))
	assert.Equal(t, "21BCS042", first.Value(model.FieldRollNumber))
	assert.Equal(t, "asha@example.edu", first.Email())
	assert.Equal(t, map[string]string{"Hostel Block": "B"}, first.Extra)

	// Every canonical key exists even without a matching column.
	assert.Len(t, first.Fields, len(model.AllFields()))
	assert.Equal(t, "", first.Value(model.FieldNationality))

	second := records[1]
	assert.Equal(t, 1, second.RowIndex)
	assert.Equal(t, "", second.Value(model.FieldRollNumber))
	assert.Equal(t, "", second.Email(), "whitespace-only cells are empty values")
}

func TestFromRowsShortRow(t *testing.T) {
	l := NewLoader(model.DefaultRegistry(), 0, "")

	records, err := l.FromRows([][]string{
		{"Student Name", "Roll No", "Email"},
		{"Asha Patel"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Asha Patel", records[0].Value(model.FieldStudentName))
	assert.Equal(t, "", records[0].Value(model.FieldRollNumber))
}

func TestFromRowsMalformed(t *testing.T) {
	l := NewLoader(model.DefaultRegistry(), 0, "")

	tests := []struct {
		name string
		rows [][]string
	}{
		{"no rows", nil},
		{"empty header", [][]string{{}}},
		{"header only", [][]string{{"Student Name", "Email"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.FromRows(tt.rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "Student Name,Email Address\nAsha Patel,asha@example.edu\nRavi Kumar,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l := NewLoader(model.DefaultRegistry(), 0, "")
	records, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "asha@example.edu", records[0].Email())
	assert.Equal(t, "", records[1].Email())
}

func TestLoadUnreadableFile(t *testing.T) {
	l := NewLoader(model.DefaultRegistry(), 0, "")

	_, err := l.Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

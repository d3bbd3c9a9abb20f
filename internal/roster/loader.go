// Package roster loads spreadsheet rows into canonical student records and
// scores their completeness.
package roster

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/campus-ops/nudge-cli/internal/fetcher"
	"github.com/campus-ops/nudge-cli/internal/model"
)

// ErrMalformedInput indicates input that cannot be processed at all: an
// unparseable file, a sheet with no columns, or a sheet with no data rows.
// It aborts the run before any record-level work.
var ErrMalformedInput = eris.New("roster: malformed input")

// Loader reads tabular roster files into StudentRecords.
type Loader struct {
	registry   *model.FieldRegistry
	sheetIndex int
	sheetName  string
}

// NewLoader creates a Loader resolving headers through the given registry.
func NewLoader(registry *model.FieldRegistry, sheetIndex int, sheetName string) *Loader {
	return &Loader{registry: registry, sheetIndex: sheetIndex, sheetName: sheetName}
}

// Load reads the roster at path (.xlsx or .csv, by extension) and returns
// one StudentRecord per data row, in input order.
func (l *Loader) Load(path string) ([]model.StudentRecord, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, eris.Wrap(openErr, "loader: open roster")
		}
		defer f.Close()
		rows, err = fetcher.ReadCSV(f, fetcher.CSVOptions{TrimSpace: true})
	default:
		rows, err = fetcher.ReadXLSX(path, fetcher.XLSXOptions{
			SheetIndex: l.sheetIndex,
			SheetName:  l.sheetName,
		})
	}
	if err != nil {
		return nil, eris.Wrapf(ErrMalformedInput, "loader: parse roster: %v", err)
	}

	return l.FromRows(rows)
}

// FromRows converts raw rows (first row = header) into StudentRecords.
// The header→field mapping is resolved once for the whole sheet. Blank and
// whitespace-only cells become empty values; unmapped columns are carried
// in Extra so callers can still display original data.
func (l *Loader) FromRows(rows [][]string) ([]model.StudentRecord, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, eris.Wrap(ErrMalformedInput, "loader: sheet has no columns")
	}
	if len(rows) < 2 {
		return nil, eris.Wrap(ErrMalformedInput, "loader: sheet has no data rows")
	}

	header := rows[0]

	// One normalization pass for the sheet; headers are constant per sheet.
	type column struct {
		field  model.CanonicalField
		mapped bool
		raw    string
	}
	columns := make([]column, len(header))
	mappedCount := 0
	for i, raw := range header {
		f, ok := l.registry.Normalize(raw)
		columns[i] = column{field: f, mapped: ok, raw: strings.TrimSpace(raw)}
		if ok {
			mappedCount++
		}
	}

	zap.L().Info("loader: header resolved",
		zap.Int("columns", len(header)),
		zap.Int("mapped", mappedCount),
		zap.Int("passthrough", len(header)-mappedCount),
	)

	records := make([]model.StudentRecord, 0, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		rec := model.StudentRecord{
			RowIndex: rowIdx,
			Fields:   make(map[model.CanonicalField]string, len(model.AllFields())),
		}
		// Every canonical key exists, even when the sheet has no such column.
		for _, f := range model.AllFields() {
			rec.Fields[f] = ""
		}

		for colIdx, col := range columns {
			var value string
			if colIdx < len(row) {
				value = strings.TrimSpace(row[colIdx])
			}
			if !col.mapped {
				if col.raw != "" && value != "" {
					if rec.Extra == nil {
						rec.Extra = make(map[string]string)
					}
					rec.Extra[col.raw] = value
				}
				continue
			}
			rec.Fields[col.field] = value
		}

		records = append(records, rec)
	}

	return records, nil
}

package prompt

import (
	"fmt"
	"strings"

	"github.com/credyukti/syndata-go/internal/models"
)

// TableDelimiter separates columns in batch payloads and responses.
const TableDelimiter = "|"

// RowPayload renders one record as a "Name: Value" listing, one metric
// per line, in the record's column order.
func RowPayload(rec models.FinancialRecord) (string, error) {
	if len(rec.Fields) == 0 {
		return "", fmt.Errorf("%w: record %d has no fields", ErrFormat, rec.Row)
	}

	var b strings.Builder
	for i, f := range rec.Fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	return b.String(), nil
}

// TablePayload renders a batch of records as a delimited table with one
// header row. Every record must share the first record's column set, in
// the same order; a mismatch is a rendering error, not a per-row failure.
func TablePayload(records []models.FinancialRecord) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("%w: empty batch", ErrFormat)
	}

	columns := records[0].ColumnNames()
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: record %d has no fields", ErrFormat, records[0].Row)
	}

	var b strings.Builder
	b.WriteString(strings.Join(columns, TableDelimiter))
	for _, rec := range records {
		if len(rec.Fields) != len(columns) {
			return "", fmt.Errorf("%w: record %d has %d fields, batch header has %d",
				ErrFormat, rec.Row, len(rec.Fields), len(columns))
		}
		b.WriteByte('\n')
		for i, f := range rec.Fields {
			if f.Name != columns[i] {
				return "", fmt.Errorf("%w: record %d column %d is %q, batch header has %q",
					ErrFormat, rec.Row, i, f.Name, columns[i])
			}
			if i > 0 {
				b.WriteString(TableDelimiter)
			}
			b.WriteString(f.Value)
		}
	}
	return b.String(), nil
}

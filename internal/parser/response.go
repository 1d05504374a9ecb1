// Package parser recovers structured loan records from raw completion
// output. The model reply has no guaranteed structure, so parsing is a
// two-stage process: a strict parse first, then a bounded substring scan
// for the first balanced JSON span. Failures surface as ErrParse, never
// as panics or raw decoding errors.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/credyukti/syndata-go/internal/models"
)

// ErrParse indicates the response text did not yield a well-formed,
// in-bounds record. Callers convert it into a sentinel result.
var ErrParse = errors.New("parse failure")

// StripFences removes a surrounding Markdown code fence. The fence is
// stripped only when both a leading and a trailing marker are present;
// a lone fence is left alone so the balanced-span scan can deal with it.
func StripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return trimmed
	}

	body := strings.TrimSuffix(trimmed, "```")
	body = strings.TrimPrefix(body, "```")
	// Drop a language tag such as "json" on the opening fence line
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]|") {
			body = body[idx+1:]
		}
	}
	return strings.TrimSpace(body)
}

// balancedSpan returns the first balanced {...} or [...] span in s.
// Strings and escapes are honored so braces inside explanation text do
// not truncate the span.
func balancedSpan(s string) (string, bool) {
	start := -1
	var open, closing byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				closing = '}'
			} else {
				closing = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// decodeJSON tries a strict parse of the whole text, then falls back to
// the first balanced span.
func decodeJSON(raw string, v any) error {
	txt := StripFences(raw)

	dec := json.NewDecoder(strings.NewReader(txt))
	dec.UseNumber()
	if err := dec.Decode(v); err == nil {
		return nil
	}

	span, ok := balancedSpan(txt)
	if !ok {
		return fmt.Errorf("%w: no JSON value in response", ErrParse)
	}
	dec = json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// ExtractObject recovers the first JSON object embedded in the response
// text, with fences and surrounding prose stripped. Numbers are kept as
// json.Number so no precision is lost before coercion.
func ExtractObject(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := decodeJSON(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ParseObject parses a single JSON-object response into synthetic fields
// validated against bounds.
func ParseObject(raw string, bounds models.Bounds) (models.SyntheticFields, error) {
	obj, err := ExtractObject(raw)
	if err != nil {
		return models.SyntheticFields{}, err
	}
	return fieldsFromObject(obj, bounds)
}

// ParseArray parses a JSON-array response into exactly want records, in
// array order, each validated against bounds.
func ParseArray(raw string, bounds models.Bounds, want int) ([]models.SyntheticFields, error) {
	var arr []map[string]any
	if err := decodeJSON(raw, &arr); err != nil {
		return nil, err
	}
	if len(arr) != want {
		return nil, fmt.Errorf("%w: got %d records, want %d", ErrParse, len(arr), want)
	}

	out := make([]models.SyntheticFields, 0, len(arr))
	for i, obj := range arr {
		f, err := fieldsFromObject(obj, bounds)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// tableColumns is the fixed column order of delimited-table responses.
var tableColumns = []string{"Loan Value", "Collateral Value", "Loan Tenure", "Credit Score", "Risk Score"}

// ParseTable parses a delimited-table response into exactly want records.
// A header row repeating the column names is tolerated and skipped. Any
// row whose field count does not match the declared columns, or whose
// values do not coerce cleanly and in bounds, fails the whole table.
func ParseTable(raw, delimiter string, bounds models.Bounds, want int) ([]models.SyntheticFields, error) {
	txt := StripFences(raw)
	if delimiter == "" {
		delimiter = "|"
	}

	var rows [][]string
	for _, line := range strings.Split(txt, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, delimiter)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if isHeaderRow(parts) {
			continue
		}
		if len(parts) != len(tableColumns) {
			return nil, fmt.Errorf("%w: row has %d columns, want %d: %q", ErrParse, len(parts), len(tableColumns), line)
		}
		rows = append(rows, parts)
	}

	if len(rows) != want {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrParse, len(rows), want)
	}

	out := make([]models.SyntheticFields, 0, len(rows))
	for i, parts := range rows {
		f, err := fieldsFromRow(parts, bounds)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// isHeaderRow reports whether every cell matches a known column name.
func isHeaderRow(parts []string) bool {
	if len(parts) != len(tableColumns) {
		return false
	}
	for i, p := range parts {
		if !strings.EqualFold(strings.TrimSpace(p), tableColumns[i]) {
			return false
		}
	}
	return true
}

// Package models defines data structures for the synthetic loan data pipeline.
package models

// Field is one named financial metric on a company row.
type Field struct {
	Name  string
	Value string
}

// FinancialRecord is the ordered set of financial metrics for one company
// row, as read from the input table with excluded columns already removed.
// Records are immutable inputs to the pipeline.
type FinancialRecord struct {
	// Row is the zero-based position in the source table.
	Row    int
	Fields []Field
}

// ColumnNames returns the metric names in order.
func (r FinancialRecord) ColumnNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

// Get returns the value of the named metric, if present.
func (r FinancialRecord) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

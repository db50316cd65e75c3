package models

// Status tags what kind of table a Result carries.
type Status string

const (
	// StatusOK is a real, non-empty canonical table.
	StatusOK Status = "ok"
	// StatusEmpty means the parser ran but found no valid records.
	StatusEmpty Status = "empty"
	// StatusDegraded means the input failed schema validation and the
	// table holds a single sentinel row.
	StatusDegraded Status = "degraded"
	// StatusSample means the table is an illustrative dataset, not data
	// read from the document.
	StatusSample Status = "sample"
)

// Result is the outcome of processing one uploaded statement.
type Result struct {
	Status       Status
	Platform     Platform
	Layout       Layout
	Transactions []Transaction
	Reasons      []string
	Info         *StatementInfo
}

// HasData reports whether the table contains rows read from the document.
func (r *Result) HasData() bool {
	return r.Status == StatusOK
}

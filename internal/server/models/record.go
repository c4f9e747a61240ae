package models

// FinancialRecord is an append-only document holding a serialized row-set of
// flat key-value records. Records are only created and read, never updated.
type FinancialRecord struct {
	ID        string
	UserID    string
	Type      string
	Data      []map[string]any
	RowCount  int
	CreatedAt string
}

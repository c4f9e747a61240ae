package models

// ColumnMapping is the per-(user, file label) document holding a column
// mapping dictionary. Saves for the same file name update the document in
// place; reads refresh LastUsed.
type ColumnMapping struct {
	ID        string
	UserID    string
	FileName  string
	Mappings  map[string]string
	CreatedAt string
	UpdatedAt string
	LastUsed  string
}

package models

// Journal is a row of the journals table.
type Journal struct {
	JournalID   string `db:"journal_id" json:"journalID"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	AuditFields
}

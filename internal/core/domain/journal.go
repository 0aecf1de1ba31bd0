package domain

// Journal groups transactions under a unique name, e.g. GENERAL or BANK.
type Journal struct {
	JournalID   string `json:"journalID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AuditFields
}

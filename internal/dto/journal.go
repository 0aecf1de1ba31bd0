package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// CreateJournalRequest defines the data needed to create a journal.
type CreateJournalRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID   string    `json:"journalID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// SeedChartResult reports what SeedChart created versus found already present.
type SeedChartResult struct {
	AccountsCreated []string `json:"accountsCreated"`
	AccountsExisted []string `json:"accountsExisted"`
	JournalsCreated []string `json:"journalsCreated"`
	JournalsExisted []string `json:"journalsExisted"`
}

// ToJournalResponse converts a domain.Journal to its response DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	return JournalResponse{
		JournalID:   j.JournalID,
		Name:        j.Name,
		Description: j.Description,
		CreatedAt:   j.CreatedAt,
		CreatedBy:   j.CreatedBy,
	}
}

// ToJournalResponses converts a slice of journals.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	res := make([]JournalResponse, len(journals))
	for i := range journals {
		res[i] = ToJournalResponse(&journals[i])
	}
	return res
}

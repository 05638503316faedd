package schemas

import (
	"payplan/src/models"

	"github.com/google/uuid"
)

const (
	DispatchSent    = "sent"
	DispatchSkipped = "skipped"
	DispatchFailed  = "failed"
)

// DispatchEntry records the outcome for one (installment, rule, recipient)
// triple. Failed entries are informational; the next run retries any triple
// without a ledger row.
type DispatchEntry struct {
	InstallmentID  uuid.UUID            `json:"installmentId"`
	RecipientType  models.RecipientType `json:"recipientType"`
	RecipientEmail string               `json:"recipientEmail,omitempty"`
	Status         string               `json:"status"`
	MessageID      string               `json:"messageId,omitempty"`
	Detail         string               `json:"detail,omitempty"`
}

type DispatchResult struct {
	Event   models.EventType `json:"event"`
	Sent    int              `json:"sent"`
	Skipped int              `json:"skipped"`
	Failed  int              `json:"failed"`
	Entries []DispatchEntry  `json:"entries"`
}

func (r *DispatchResult) Add(entry DispatchEntry) {
	r.Entries = append(r.Entries, entry)
	switch entry.Status {
	case DispatchSent:
		r.Sent++
	case DispatchSkipped:
		r.Skipped++
	case DispatchFailed:
		r.Failed++
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLog records one successful send. The triple (installment id,
// recipient type, recipient email) is unique; the constraint is the sole
// mechanism preventing duplicate sends across repeated runs.
type NotificationLog struct {
	ID             uuid.UUID     `db:"id"`
	InstallmentID  uuid.UUID     `db:"installment_id"`
	RecipientType  RecipientType `db:"recipient_type"`
	RecipientEmail string        `db:"recipient_email"`
	SentAt         time.Time     `db:"sent_at"`
}

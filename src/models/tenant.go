package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated agency. Timezone is an IANA zone name and CutoffTime
// a 24-hour "HH:MM" local time; both drive the overdue transition predicate.
type Tenant struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Timezone    string    `db:"timezone"`
	CutoffTime  string    `db:"cutoff_time"`
	DueSoonDays int       `db:"due_soon_days"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

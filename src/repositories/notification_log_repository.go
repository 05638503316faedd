package repositories

import (
	"context"

	"payplan/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationLogRepository interface {
	Exists(ctx context.Context, installmentID uuid.UUID, recipientType models.RecipientType, recipientEmail string) (bool, error)
	// Create inserts a ledger entry and reports whether a row was actually
	// written. ON CONFLICT DO NOTHING makes a lost insert race indistinguishable
	// from an earlier send, which is exactly the dedup contract.
	Create(ctx context.Context, installmentID uuid.UUID, recipientType models.RecipientType, recipientEmail string) (bool, error)
	ListByInstallment(ctx context.Context, installmentID uuid.UUID) ([]models.NotificationLog, error)
}

type notificationLogRepo struct {
	db *pgxpool.Pool
}

func NewNotificationLogRepository(db *pgxpool.Pool) NotificationLogRepository {
	return &notificationLogRepo{db: db}
}

func (r *notificationLogRepo) Exists(ctx context.Context, installmentID uuid.UUID, recipientType models.RecipientType, recipientEmail string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM notification_logs
			WHERE installment_id = $1 AND recipient_type = $2 AND recipient_email = $3
		)`, installmentID, recipientType, recipientEmail).Scan(&exists)
	return exists, err
}

func (r *notificationLogRepo) Create(ctx context.Context, installmentID uuid.UUID, recipientType models.RecipientType, recipientEmail string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		INSERT INTO notification_logs (id, installment_id, recipient_type, recipient_email, sent_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (installment_id, recipient_type, recipient_email) DO NOTHING`,
		uuid.New(), installmentID, recipientType, recipientEmail)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *notificationLogRepo) ListByInstallment(ctx context.Context, installmentID uuid.UUID) ([]models.NotificationLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, installment_id, recipient_type, recipient_email, sent_at
		FROM notification_logs
		WHERE installment_id = $1
		ORDER BY sent_at ASC`, installmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.NotificationLog
	for rows.Next() {
		var e models.NotificationLog
		if err := rows.Scan(&e.ID, &e.InstallmentID, &e.RecipientType, &e.RecipientEmail, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// CreateBulk writes a batch of notifications in one transaction; used by
	// the worker for new-challenge fan-out.
	CreateBulk(ctx context.Context, notifications []model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	// ListByRecipient returns at most limit rows, newest first.
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipient string) error
	ClearAll(ctx context.Context, recipient string) error
	DeleteByRecipient(ctx context.Context, tx *sql.Tx, recipient string) error
}

type pgNotificationRepository struct {
	db *sql.DB
}

func NewPgNotificationRepository(db *sql.DB) NotificationRepository {
	return &pgNotificationRepository{db: db}
}

func (r *pgNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, recipient, type, title, message, metadata)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	metadata := n.Metadata
	if metadata == nil {
		metadata = []byte(`{}`)
	}
	_, err := r.db.ExecContext(ctx, query, n.ID, n.Recipient, n.Type, n.Title, n.Message, metadata)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) CreateBulk(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.CreateBulk begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notifications (id, recipient, type, title, message, metadata) VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.CreateBulk prepare: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		metadata := n.Metadata
		if metadata == nil {
			metadata = []byte(`{}`)
		}
		if _, err := stmt.ExecContext(ctx, n.ID, n.Recipient, n.Type, n.Title, n.Message, metadata); err != nil {
			return fmt.Errorf("pgNotificationRepository.CreateBulk exec for %s: %w", n.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgNotificationRepository.CreateBulk commit: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	query := `SELECT id, recipient, type, title, message, metadata, is_read, created_at
	          FROM notifications WHERE id = $1`
	n := &model.Notification{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.Recipient, &n.Type, &n.Title, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgNotificationRepository.FindByID: %w", err)
	}
	return n, nil
}

func (r *pgNotificationRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]model.Notification, error) {
	query := `SELECT id, recipient, type, title, message, metadata, is_read, created_at
	          FROM notifications WHERE recipient = $1
	          ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, recipient, limit)
	if err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Type, &n.Title, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient scan: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgNotificationRepository.ListByRecipient rows.Err: %w", err)
	}
	return notifications, nil
}

func (r *pgNotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkRead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgNotificationRepository) MarkAllRead(ctx context.Context, recipient string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE recipient = $1 AND is_read = FALSE`, recipient)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.MarkAllRead: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) ClearAll(ctx context.Context, recipient string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE recipient = $1`, recipient)
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.ClearAll: %w", err)
	}
	return nil
}

func (r *pgNotificationRepository) DeleteByRecipient(ctx context.Context, tx *sql.Tx, recipient string) error {
	query := `DELETE FROM notifications WHERE recipient = $1`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, recipient)
	} else {
		_, err = r.db.ExecContext(ctx, query, recipient)
	}
	if err != nil {
		return fmt.Errorf("pgNotificationRepository.DeleteByRecipient: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codeconnect/internal/domain/model"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
}

type pgContactRepository struct {
	db *sql.DB
}

func NewPgContactRepository(db *sql.DB) ContactRepository {
	return &pgContactRepository{db: db}
}

func (r *pgContactRepository) Create(ctx context.Context, msg *model.ContactMessage) error {
	query := `INSERT INTO contact_messages (id, name, email, message) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message); err != nil {
		return fmt.Errorf("pgContactRepository.Create: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	// List resolves each challenge's company name from the creator's
	// profile, falling back to their email prefix.
	List(ctx context.Context, limit int) ([]model.Challenge, error)
	ListByCompany(ctx context.Context, companyID string) ([]model.Challenge, error)
	ListIDsByCompany(ctx context.Context, companyID string) ([]string, error)
	Update(ctx context.Context, challenge *model.Challenge) error
	Delete(ctx context.Context, id string) error
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

const challengeColumns = `c.id, c.company_id, c.title, c.slug, c.description, c.difficulty,
	c.topic, c.input_example, c.output_example, c.deadline, c.created_at`

func (r *pgChallengeRepository) Create(ctx context.Context, c *model.Challenge) error {
	query := `INSERT INTO challenges (id, company_id, title, slug, description, difficulty, topic, input_example, output_example, deadline)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.CompanyID, c.Title, c.Slug, c.Description, c.Difficulty,
		c.Topic, c.InputExample, c.OutputExample, c.Deadline,
	)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges c WHERE c.id = $1`
	c := &model.Challenge{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Title, &c.Slug, &c.Description, &c.Difficulty,
		&c.Topic, &c.InputExample, &c.OutputExample, &c.Deadline, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgChallengeRepository) List(ctx context.Context, limit int) ([]model.Challenge, error) {
	// Company name preference: profile company_name, then full_name, then
	// the capitalized email prefix.
	query := `SELECT ` + challengeColumns + `,
	            COALESCE(p.company_name, p.full_name, INITCAP(SPLIT_PART(u.email, '@', 1))) AS company_name
	          FROM challenges c
	          JOIN users u ON c.company_id = u.id
	          LEFT JOIN profiles p ON p.user_id = u.id
	          ORDER BY c.created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Title, &c.Slug, &c.Description, &c.Difficulty,
			&c.Topic, &c.InputExample, &c.OutputExample, &c.Deadline, &c.CreatedAt,
			&c.CompanyName,
		); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.List scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.List rows.Err: %w", err)
	}
	return challenges, nil
}

func (r *pgChallengeRepository) ListByCompany(ctx context.Context, companyID string) ([]model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges c WHERE c.company_id = $1 ORDER BY c.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListByCompany: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(
			&c.ID, &c.CompanyID, &c.Title, &c.Slug, &c.Description, &c.Difficulty,
			&c.Topic, &c.InputExample, &c.OutputExample, &c.Deadline, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListByCompany scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListByCompany rows.Err: %w", err)
	}
	return challenges, nil
}

func (r *pgChallengeRepository) ListIDsByCompany(ctx context.Context, companyID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM challenges WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListIDsByCompany: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListIDsByCompany scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListIDsByCompany rows.Err: %w", err)
	}
	return ids, nil
}

func (r *pgChallengeRepository) Update(ctx context.Context, c *model.Challenge) error {
	query := `UPDATE challenges SET
	            title = $1, slug = $2, description = $3, difficulty = $4, topic = $5,
	            input_example = $6, output_example = $7, deadline = $8
	          WHERE id = $9`
	res, err := r.db.ExecContext(ctx, query,
		c.Title, c.Slug, c.Description, c.Difficulty, c.Topic,
		c.InputExample, c.OutputExample, c.Deadline, c.ID,
	)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgChallengeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	// List returns catalog problems without the sample IO (hidden from
	// listings, same as the item detail hides nothing).
	List(ctx context.Context, limit int) ([]model.Problem, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	topics, err := json.Marshal(p.Topics)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create marshal topics: %w", err)
	}
	query := `INSERT INTO problems (id, title, slug, description, difficulty, topics, input, output)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.Difficulty, topics, p.Input, p.Output)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT id, title, slug, description, difficulty, topics, input, output
	          FROM problems WHERE id = $1`
	p := &model.Problem{}
	var topics []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &topics, &p.Input, &p.Output,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	if len(topics) > 0 {
		if err := json.Unmarshal(topics, &p.Topics); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.FindByID unmarshal topics: %w", err)
		}
	}
	return p, nil
}

func (r *pgProblemRepository) List(ctx context.Context, limit int) ([]model.Problem, error) {
	query := `SELECT id, title, slug, description, difficulty, topics FROM problems ORDER BY title ASC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		var topics []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Difficulty, &topics); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.List scan: %w", err)
		}
		if len(topics) > 0 {
			if err := json.Unmarshal(topics, &p.Topics); err != nil {
				return nil, fmt.Errorf("pgProblemRepository.List unmarshal topics: %w", err)
			}
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.List rows.Err: %w", err)
	}
	return problems, nil
}

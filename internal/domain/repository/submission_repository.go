package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

// SubmissionRepository is the ledger: one row per attempt, append-only.
// Rows are never updated once written.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error

	// ListByUser resolves each row against the catalog; title/difficulty
	// stay nil when the item has since been deleted.
	ListByUser(ctx context.Context, userID string) ([]model.Submission, error)

	// ListPassedWithDifficulty feeds the solved-breakdown aggregation: item
	// refs plus resolved difficulty for every passed attempt.
	ListPassedWithDifficulty(ctx context.Context, userID string) ([]model.Submission, error)

	// MarkItemSolved claims the first-pass reward marker. The store enforces
	// uniqueness on (user, kind, id): a second claim returns
	// common.ErrAlreadySolved, which is what makes the reward race-free.
	MarkItemSolved(ctx context.Context, tx *sql.Tx, solved *model.SolvedItem) error

	// UnmarkItemSolved releases a claimed marker; the reward path uses it to
	// back out when the balance update fails after the claim.
	UnmarkItemSolved(ctx context.Context, userID string, ref model.ItemRef) error

	CountDistinctStarters(ctx context.Context, challengeIDs []string) (int, error)
	CountDistinctCompleters(ctx context.Context, challengeIDs []string) (int, error)

	DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) CreateSubmission(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, user_id, item_kind, item_id, code, language, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, sub.ID, sub.UserID, sub.ItemRef.Kind, sub.ItemRef.ID, sub.Code, sub.LanguageLabel, sub.Status)
	} else {
		_, err = r.db.ExecContext(ctx, query, sub.ID, sub.UserID, sub.ItemRef.Kind, sub.ItemRef.ID, sub.Code, sub.LanguageLabel, sub.Status)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string) ([]model.Submission, error) {
	query := `SELECT s.id, s.user_id, s.item_kind, s.item_id, s.code, s.language, s.status, s.created_at,
	            COALESCE(p.title, c.title) AS item_title,
	            COALESCE(p.difficulty, c.difficulty) AS item_difficulty
	          FROM submissions s
	          LEFT JOIN problems p ON s.item_kind = 'problem' AND s.item_id = p.id
	          LEFT JOIN challenges c ON s.item_kind = 'challenge' AND s.item_id = c.id
	          WHERE s.user_id = $1
	          ORDER BY s.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUser: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *pgSubmissionRepository) ListPassedWithDifficulty(ctx context.Context, userID string) ([]model.Submission, error) {
	query := `SELECT s.id, s.user_id, s.item_kind, s.item_id, '' AS code, s.language, s.status, s.created_at,
	            COALESCE(p.title, c.title) AS item_title,
	            COALESCE(p.difficulty, c.difficulty) AS item_difficulty
	          FROM submissions s
	          LEFT JOIN problems p ON s.item_kind = 'problem' AND s.item_id = p.id
	          LEFT JOIN challenges c ON s.item_kind = 'challenge' AND s.item_id = c.id
	          WHERE s.user_id = $1 AND s.status = $2`
	rows, err := r.db.QueryContext(ctx, query, userID, model.StatusPassed)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListPassedWithDifficulty: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (r *pgSubmissionRepository) MarkItemSolved(ctx context.Context, tx *sql.Tx, solved *model.SolvedItem) error {
	query := `INSERT INTO solved_items (user_id, item_kind, item_id, submission_id, coins_awarded)
	          VALUES ($1, $2, $3, $4, $5)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, solved.UserID, solved.ItemKind, solved.ItemID, solved.SubmissionID, solved.CoinsAwarded)
	} else {
		_, err = r.db.ExecContext(ctx, query, solved.UserID, solved.ItemKind, solved.ItemID, solved.SubmissionID, solved.CoinsAwarded)
	}
	if err != nil {
		if common.IsUniqueViolation(err) {
			return common.ErrAlreadySolved
		}
		return fmt.Errorf("pgSubmissionRepository.MarkItemSolved: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) UnmarkItemSolved(ctx context.Context, userID string, ref model.ItemRef) error {
	query := `DELETE FROM solved_items WHERE user_id = $1 AND item_kind = $2 AND item_id = $3`
	if _, err := r.db.ExecContext(ctx, query, userID, ref.Kind, ref.ID); err != nil {
		return fmt.Errorf("pgSubmissionRepository.UnmarkItemSolved: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) CountDistinctStarters(ctx context.Context, challengeIDs []string) (int, error) {
	return r.countDistinctUsers(ctx, challengeIDs, false)
}

func (r *pgSubmissionRepository) CountDistinctCompleters(ctx context.Context, challengeIDs []string) (int, error) {
	return r.countDistinctUsers(ctx, challengeIDs, true)
}

func (r *pgSubmissionRepository) countDistinctUsers(ctx context.Context, challengeIDs []string, passedOnly bool) (int, error) {
	if len(challengeIDs) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(challengeIDs))
	args := make([]interface{}, 0, len(challengeIDs)+1)
	for i, id := range challengeIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}

	query := fmt.Sprintf(`SELECT COUNT(DISTINCT user_id) FROM submissions
	          WHERE item_kind = 'challenge' AND item_id IN (%s)`, strings.Join(placeholders, ","))
	if passedOnly {
		query += fmt.Sprintf(" AND status = $%d", len(challengeIDs)+1)
		args = append(args, model.StatusPassed)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.countDistinctUsers: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) DeleteByUser(ctx context.Context, tx *sql.Tx, userID string) error {
	for _, query := range []string{
		`DELETE FROM solved_items WHERE user_id = $1`,
		`DELETE FROM submissions WHERE user_id = $1`,
	} {
		var err error
		if tx != nil {
			_, err = tx.ExecContext(ctx, query, userID)
		} else {
			_, err = r.db.ExecContext(ctx, query, userID)
		}
		if err != nil {
			return fmt.Errorf("pgSubmissionRepository.DeleteByUser: %w", err)
		}
	}
	return nil
}

func scanSubmissions(rows *sql.Rows) ([]model.Submission, error) {
	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		err := rows.Scan(&s.ID, &s.UserID, &s.ItemRef.Kind, &s.ItemRef.ID, &s.Code, &s.LanguageLabel, &s.Status, &s.CreatedAt, &s.ItemTitle, &s.ItemDifficulty)
		if err != nil {
			return nil, fmt.Errorf("scanSubmissions: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanSubmissions rows.Err: %w", err)
	}
	return subs, nil
}

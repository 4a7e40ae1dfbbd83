package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	ListAll(ctx context.Context) ([]model.Profile, error)

	// AddCoins applies the reward as a single atomic increment; there is no
	// read-modify-write of the balance anywhere. Runs inside tx when given
	// so the first-pass marker and the balance commit together.
	AddCoins(ctx context.Context, tx *sql.Tx, userID string, coins int) error

	// MaxCoins returns the highest balance and how many profiles hold it.
	MaxCoins(ctx context.Context) (maxCoins int, holders int, err error)

	DeleteByUserID(ctx context.Context, tx *sql.Tx, userID string) error
}

type pgProfileRepository struct {
	db *sql.DB
}

func NewPgProfileRepository(db *sql.DB) ProfileRepository {
	return &pgProfileRepository{db: db}
}

const profileColumns = `p.id, p.user_id, p.full_name, p.avatar_url, p.coins, p.bio, p.resume_url,
	p.whatsapp, p.github_url, p.linkedin_url, p.company_name, p.website, p.updated_at`

func scanProfile(row interface{ Scan(...any) error }, p *model.Profile) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Coins, &p.Bio, &p.ResumeURL,
		&p.Whatsapp, &p.GithubURL, &p.LinkedinURL, &p.CompanyName, &p.Website, &p.UpdatedAt,
	)
}

func (r *pgProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `INSERT INTO profiles (id, user_id, full_name, avatar_url, coins, bio, resume_url, whatsapp, github_url, linkedin_url, company_name, website)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.UserID, profile.FullName, profile.AvatarURL, profile.Coins,
		profile.Bio, profile.ResumeURL, profile.Whatsapp, profile.GithubURL,
		profile.LinkedinURL, profile.CompanyName, profile.Website,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("profile already exists for user: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProfileRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProfileRepository) FindByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + `, u.email, u.role
	          FROM profiles p JOIN users u ON p.user_id = u.id
	          WHERE p.user_id = $1`
	p := &model.Profile{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Coins, &p.Bio, &p.ResumeURL,
		&p.Whatsapp, &p.GithubURL, &p.LinkedinURL, &p.CompanyName, &p.Website, &p.UpdatedAt,
		&p.UserEmail, &p.UserRole,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProfileRepository.FindByUserID: %w", err)
	}
	return p, nil
}

// Update writes profile fields but deliberately not coins; the balance moves
// only through AddCoins.
func (r *pgProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	query := `UPDATE profiles SET
	            full_name = $1, avatar_url = $2, bio = $3, resume_url = $4, whatsapp = $5,
	            github_url = $6, linkedin_url = $7, company_name = $8, website = $9,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE user_id = $10`
	res, err := r.db.ExecContext(ctx, query,
		profile.FullName, profile.AvatarURL, profile.Bio, profile.ResumeURL, profile.Whatsapp,
		profile.GithubURL, profile.LinkedinURL, profile.CompanyName, profile.Website,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("pgProfileRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProfileRepository) ListAll(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + `, u.email, u.role
	          FROM profiles p JOIN users u ON p.user_id = u.id
	          ORDER BY p.coins DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProfileRepository.ListAll: %w", err)
	}
	defer rows.Close()

	profiles := []model.Profile{}
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.FullName, &p.AvatarURL, &p.Coins, &p.Bio, &p.ResumeURL,
			&p.Whatsapp, &p.GithubURL, &p.LinkedinURL, &p.CompanyName, &p.Website, &p.UpdatedAt,
			&p.UserEmail, &p.UserRole,
		); err != nil {
			return nil, fmt.Errorf("pgProfileRepository.ListAll scan: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProfileRepository.ListAll rows.Err: %w", err)
	}
	return profiles, nil
}

func (r *pgProfileRepository) AddCoins(ctx context.Context, tx *sql.Tx, userID string, coins int) error {
	query := `UPDATE profiles SET coins = coins + $1, updated_at = CURRENT_TIMESTAMP WHERE user_id = $2`
	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, coins, userID)
	} else {
		res, err = r.db.ExecContext(ctx, query, coins, userID)
	}
	if err != nil {
		return fmt.Errorf("pgProfileRepository.AddCoins: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgProfileRepository) MaxCoins(ctx context.Context) (int, int, error) {
	var maxCoins sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(coins) FROM profiles`).Scan(&maxCoins)
	if err != nil {
		return 0, 0, fmt.Errorf("pgProfileRepository.MaxCoins: %w", err)
	}
	if !maxCoins.Valid {
		return 0, 0, nil
	}

	var holders int
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE coins = $1`, maxCoins.Int64).Scan(&holders)
	if err != nil {
		return 0, 0, fmt.Errorf("pgProfileRepository.MaxCoins count: %w", err)
	}
	return int(maxCoins.Int64), holders, nil
}

func (r *pgProfileRepository) DeleteByUserID(ctx context.Context, tx *sql.Tx, userID string) error {
	query := `DELETE FROM profiles WHERE user_id = $1`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, userID)
	} else {
		_, err = r.db.ExecContext(ctx, query, userID)
	}
	if err != nil {
		return fmt.Errorf("pgProfileRepository.DeleteByUserID: %w", err)
	}
	return nil
}

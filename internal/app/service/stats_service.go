package service

import (
	"context"
	"fmt"
	"math"

	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
)

// StatsService derives dashboard numbers from the submission ledger. Both
// computations run fresh on every call; nothing is cached.
type StatsService struct {
	submissionRepo repository.SubmissionRepository
	challengeRepo  repository.ChallengeRepository
	profileRepo    repository.ProfileRepository
	userRepo       repository.UserRepository
}

func NewStatsService(
	subRepo repository.SubmissionRepository,
	chalRepo repository.ChallengeRepository,
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
) *StatsService {
	return &StatsService{
		submissionRepo: subRepo,
		challengeRepo:  chalRepo,
		profileRepo:    profileRepo,
		userRepo:       userRepo,
	}
}

// ComputeUserStats buckets the user's solved items by difficulty. Items are
// deduplicated first: three passes at one problem count once. Rows whose
// item no longer resolves carry no difficulty and are skipped entirely. An
// unknown user simply has no rows and gets all zeros.
func (s *StatsService) ComputeUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	rows, err := s.submissionRepo.ListPassedWithDifficulty(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load passed submissions: %w", err)
	}

	solved := map[string]string{}
	for _, row := range rows {
		if row.ItemDifficulty == nil {
			continue
		}
		solved[row.ItemRef.String()] = *row.ItemDifficulty
	}

	stats := &model.UserStats{Total: len(solved)}
	for _, difficulty := range solved {
		switch model.NormalizeDifficulty(difficulty) {
		case "easy":
			stats.Easy++
		case "medium":
			stats.Medium++
		case "hard":
			stats.Hard++
		}
	}
	return stats, nil
}

// ComputeCompanyStats backs the company dashboard.
func (s *StatsService) ComputeCompanyStats(ctx context.Context, companyID string) (*model.CompanyStats, error) {
	totalCandidates, err := s.userRepo.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	// Everyone tied at the maximum balance counts as a top performer.
	_, topPerformers, err := s.profileRepo.MaxCoins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find top performers: %w", err)
	}

	engagement, err := s.computeEngagement(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &model.CompanyStats{
		TotalCandidates: totalCandidates,
		TopPerformers:   topPerformers,
		Engagement:      engagement,
	}, nil
}

// computeEngagement is completers/starters over the company's challenges,
// rounded to an integer percentage. No challenges or no starters means 0:
// the ratio is never computed against an empty denominator.
func (s *StatsService) computeEngagement(ctx context.Context, companyID string) (int, error) {
	challengeIDs, err := s.challengeRepo.ListIDsByCompany(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to list company challenges: %w", err)
	}
	if len(challengeIDs) == 0 {
		return 0, nil
	}

	starters, err := s.submissionRepo.CountDistinctStarters(ctx, challengeIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to count starters: %w", err)
	}
	if starters == 0 {
		return 0, nil
	}

	completers, err := s.submissionRepo.CountDistinctCompleters(ctx, challengeIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to count completers: %w", err)
	}

	return int(math.Round(float64(completers) / float64(starters) * 100)), nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/logger"

	"github.com/google/uuid"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	challengeRepo  repository.ChallengeRepository
	rewardService  *RewardService
	log            *logger.Logger
}

func NewSubmissionService(
	subRepo repository.SubmissionRepository,
	probRepo repository.ProblemRepository,
	chalRepo repository.ChallengeRepository,
	rewardService *RewardService,
	log *logger.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: subRepo,
		problemRepo:    probRepo,
		challengeRepo:  chalRepo,
		rewardService:  rewardService,
		log:            log,
	}
}

// CreateSubmissionRequest mirrors what the compiler page posts after the
// external judge returns its verdict.
type CreateSubmissionRequest struct {
	ItemID   string `json:"problem_id"`
	ItemKind string `json:"type"` // "problem" (default) or "challenge"
	Code     string `json:"code"`
	Language string `json:"language"`
	Status   string `json:"status"`
}

type CreateSubmissionResponse struct {
	Submission   *model.Submission `json:"submission"`
	CoinsAwarded int               `json:"coinsAwarded"`
}

// CreateSubmission records the attempt and, for a passing one, settles the
// reward. The ledger write is the commit point: once the row is in, the
// response always carries the submission, even if reward settlement fails.
func (s *SubmissionService) CreateSubmission(ctx context.Context, userID string, req CreateSubmissionRequest) (*CreateSubmissionResponse, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("code is required: %w", common.ErrValidation)
	}
	status := model.SubmissionStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("invalid submission status %q: %w", req.Status, common.ErrValidation)
	}

	kind := model.ItemKind(req.ItemKind)
	if req.ItemKind == "" {
		kind = model.ItemKindProblem
	}
	ref, err := model.NewItemRef(kind, req.ItemID)
	if err != nil {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = "javascript"
	}

	submission := &model.Submission{
		ID:            uuid.NewString(),
		UserID:        userID,
		ItemRef:       ref,
		Code:          req.Code,
		LanguageLabel: language,
		Status:        status,
	}
	if err := s.submissionRepo.CreateSubmission(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	coins := 0
	if status == model.StatusPassed {
		item, err := s.resolveCatalogItem(ctx, ref)
		if err != nil {
			// The attempt is durably recorded; a reward that cannot be
			// computed right now is reported as zero, not as a failure.
			s.log.Error("Failed to resolve catalog item for reward",
				"error", err, "submission_id", submission.ID, "item", ref.String())
		} else {
			coins, err = s.rewardService.Apply(ctx, submission, item)
			if err != nil {
				s.log.Error("Failed to settle reward",
					"error", err, "submission_id", submission.ID, "item", ref.String())
				coins = 0
			}
		}
	}

	return &CreateSubmissionResponse{Submission: submission, CoinsAwarded: coins}, nil
}

// resolveCatalogItem loads the reward-relevant view of the target item. A
// deleted item resolves to nil rather than an error.
func (s *SubmissionService) resolveCatalogItem(ctx context.Context, ref model.ItemRef) (*model.CatalogItem, error) {
	switch ref.Kind {
	case model.ItemKindChallenge:
		challenge, err := s.challengeRepo.FindByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &model.CatalogItem{Ref: ref, Title: challenge.Title, Difficulty: challenge.Difficulty}, nil
	default:
		problem, err := s.problemRepo.FindByID(ctx, ref.ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &model.CatalogItem{Ref: ref, Title: problem.Title, Difficulty: string(problem.Difficulty)}, nil
	}
}

// ListMySubmissions returns the caller's full attempt history, newest
// first, with resolved item titles and difficulties where available.
func (s *SubmissionService) ListMySubmissions(ctx context.Context, userID string) ([]model.Submission, error) {
	subs, err := s.submissionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

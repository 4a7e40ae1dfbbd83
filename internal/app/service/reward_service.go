package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/logger"
	"codeconnect/internal/platform/queue"
)

// Coin values per difficulty tier. Anything unrecognized prices as easy.
const (
	CoinsEasy   = 10
	CoinsMedium = 25
	CoinsHard   = 50
)

type RewardDecision struct {
	Awarded bool `json:"awarded"`
	Coins   int  `json:"coins"`
}

// RewardService decides the coin value of a passing submission and applies
// it exactly once per (user, item). The first-pass guarantee comes from the
// solved-item marker: claiming it is an insert-if-absent, so of two racing
// passing submissions exactly one claims the reward.
type RewardService struct {
	submissionRepo repository.SubmissionRepository
	profileRepo    repository.ProfileRepository
	publisher      queue.Publisher
	log            *logger.Logger
}

func NewRewardService(
	subRepo repository.SubmissionRepository,
	profileRepo repository.ProfileRepository,
	publisher queue.Publisher,
	log *logger.Logger,
) *RewardService {
	return &RewardService{
		submissionRepo: subRepo,
		profileRepo:    profileRepo,
		publisher:      publisher,
		log:            log,
	}
}

// Evaluate is the pure decision: no side effects, no store access. A nil
// item means the catalog entry no longer resolves, which can never reward.
func (s *RewardService) Evaluate(sub *model.Submission, item *model.CatalogItem) RewardDecision {
	if sub == nil || sub.Status != model.StatusPassed {
		return RewardDecision{Awarded: false, Coins: 0}
	}
	if item == nil {
		return RewardDecision{Awarded: false, Coins: 0}
	}
	return RewardDecision{Awarded: true, Coins: CoinsForDifficulty(item.Difficulty)}
}

// CoinsForDifficulty maps a difficulty label to its reward,
// case-insensitively. Unknown and empty labels fall back to the easy tier.
func CoinsForDifficulty(difficulty string) int {
	switch model.NormalizeDifficulty(difficulty) {
	case "medium":
		return CoinsMedium
	case "hard":
		return CoinsHard
	default:
		return CoinsEasy
	}
}

// Apply settles the reward for an already-recorded submission. It returns
// the coins credited: zero when the submission did not pass, the item does
// not resolve, or the user has already earned credit for this item.
//
// Claiming the marker comes first; only the claimant touches the balance.
// The coin_reward notification is enqueued last and is best-effort.
func (s *RewardService) Apply(ctx context.Context, sub *model.Submission, item *model.CatalogItem) (int, error) {
	decision := s.Evaluate(sub, item)
	if !decision.Awarded {
		return 0, nil
	}

	solved := &model.SolvedItem{
		UserID:       sub.UserID,
		ItemKind:     item.Ref.Kind,
		ItemID:       item.Ref.ID,
		SubmissionID: sub.ID,
		CoinsAwarded: decision.Coins,
	}
	if err := s.submissionRepo.MarkItemSolved(ctx, nil, solved); err != nil {
		if errors.Is(err, common.ErrAlreadySolved) {
			// A prior pass already earned the reward; re-solves are free.
			return 0, nil
		}
		return 0, fmt.Errorf("reward apply mark solved: %w", err)
	}

	if err := s.profileRepo.AddCoins(ctx, nil, sub.UserID, decision.Coins); err != nil {
		// Release the marker so a retry can claim the reward again.
		if unmarkErr := s.submissionRepo.UnmarkItemSolved(ctx, sub.UserID, item.Ref); unmarkErr != nil {
			s.log.Error("Failed to release solved marker after coin update failure",
				"error", unmarkErr, "user_id", sub.UserID, "item", item.Ref.String())
		}
		return 0, fmt.Errorf("reward apply add coins: %w", err)
	}

	s.emitCoinReward(ctx, sub, item, decision.Coins)
	return decision.Coins, nil
}

// emitCoinReward is best-effort: a lost notification never rolls back an
// awarded reward.
func (s *RewardService) emitCoinReward(ctx context.Context, sub *model.Submission, item *model.CatalogItem, coins int) {
	title := item.Title
	if title == "" {
		title = "Problem Solved"
	}
	message := "Practice Problem"
	if item.Ref.Kind == model.ItemKindChallenge {
		message = "Company Challenge"
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"coins":  coins,
		"itemId": item.Ref.ID,
	})
	if err != nil {
		s.log.Error("Failed to marshal coin reward metadata", "error", err, "submission_id", sub.ID)
		return
	}

	event := &model.NotificationEvent{
		Type:      model.EventCoinReward,
		Recipient: sub.UserID,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to enqueue coin reward notification",
			"error", err, "user_id", sub.UserID, "item", item.Ref.String())
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/logger"
	"codeconnect/internal/platform/queue"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	profileRepo   repository.ProfileRepository
	userRepo      repository.UserRepository
	publisher     queue.Publisher
	log           *logger.Logger
}

func NewChallengeService(
	chalRepo repository.ChallengeRepository,
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
	log *logger.Logger,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: chalRepo,
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		publisher:     publisher,
		log:           log,
	}
}

type ChallengeRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Difficulty    string     `json:"difficulty"`
	Topic         *string    `json:"topic,omitempty"`
	InputExample  *string    `json:"input_example,omitempty"`
	OutputExample *string    `json:"output_example,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
}

func (s *ChallengeService) List(ctx context.Context, limit int) ([]model.Challenge, error) {
	return s.challengeRepo.List(ctx, limit)
}

func (s *ChallengeService) ListByCompany(ctx context.Context, companyID string) ([]model.Challenge, error) {
	return s.challengeRepo.ListByCompany(ctx, companyID)
}

// Create stores the challenge and fans out a new_challenge event to every
// student via the notification queue. Fan-out is best-effort.
func (s *ChallengeService) Create(ctx context.Context, companyID string, req ChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("title and description are required: %w", common.ErrValidation)
	}

	difficulty := model.NormalizeDifficulty(req.Difficulty)
	switch difficulty {
	case "easy", "medium", "hard":
	case "":
		difficulty = "easy"
	default:
		return nil, fmt.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrValidation)
	}

	challenge := &model.Challenge{
		ID:            uuid.NewString(),
		CompanyID:     companyID,
		Title:         req.Title,
		Slug:          slug.Make(req.Title),
		Description:   req.Description,
		Difficulty:    difficulty,
		Topic:         req.Topic,
		InputExample:  req.InputExample,
		OutputExample: req.OutputExample,
		Deadline:      req.Deadline,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.emitNewChallenge(ctx, companyID, challenge)
	return challenge, nil
}

func (s *ChallengeService) Update(ctx context.Context, companyID, challengeID string, req ChallengeRequest) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.CompanyID != companyID {
		return nil, fmt.Errorf("challenge belongs to another company: %w", common.ErrUnauthorized)
	}

	if req.Title != "" {
		challenge.Title = req.Title
		challenge.Slug = slug.Make(req.Title)
	}
	if req.Description != "" {
		challenge.Description = req.Description
	}
	if req.Difficulty != "" {
		challenge.Difficulty = model.NormalizeDifficulty(req.Difficulty)
	}
	if req.Topic != nil {
		challenge.Topic = req.Topic
	}
	if req.InputExample != nil {
		challenge.InputExample = req.InputExample
	}
	if req.OutputExample != nil {
		challenge.OutputExample = req.OutputExample
	}
	if req.Deadline != nil {
		challenge.Deadline = req.Deadline
	}

	if err := s.challengeRepo.Update(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to update challenge: %w", err)
	}
	return challenge, nil
}

func (s *ChallengeService) Delete(ctx context.Context, companyID, challengeID string) error {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.CompanyID != companyID {
		return fmt.Errorf("challenge belongs to another company: %w", common.ErrUnauthorized)
	}
	return s.challengeRepo.Delete(ctx, challengeID)
}

func (s *ChallengeService) emitNewChallenge(ctx context.Context, companyID string, challenge *model.Challenge) {
	metadata, err := json.Marshal(map[string]interface{}{
		"companyId":   companyID,
		"challengeId": challenge.ID,
	})
	if err != nil {
		s.log.Error("Failed to marshal new challenge metadata", "error", err, "challenge_id", challenge.ID)
		return
	}

	event := &model.NotificationEvent{
		Type:     model.EventNewChallenge,
		Title:    challenge.Title,
		Message:  "Created by " + s.resolveCompanyName(ctx, companyID),
		Metadata: metadata,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Failed to enqueue new challenge notification",
			"error", err, "challenge_id", challenge.ID)
	}
}

// resolveCompanyName prefers the profile's company name, then the full
// name, then the capitalized email prefix.
func (s *ChallengeService) resolveCompanyName(ctx context.Context, companyID string) string {
	profile, err := s.profileRepo.FindByUserID(ctx, companyID)
	if err == nil {
		if profile.CompanyName != nil && *profile.CompanyName != "" {
			return *profile.CompanyName
		}
		if profile.FullName != nil && *profile.FullName != "" {
			return *profile.FullName
		}
	}
	if user, err := s.userRepo.FindByID(ctx, companyID); err == nil {
		prefix := strings.SplitN(user.Email, "@", 2)[0]
		if prefix != "" {
			return strings.ToUpper(prefix[:1]) + prefix[1:]
		}
	}
	return "Unknown Company"
}

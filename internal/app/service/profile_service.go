package service

import (
	"context"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// UpsertProfileRequest carries the editable profile fields. Coins is
// deliberately absent: profile edits cannot move the balance.
type UpsertProfileRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	ResumeURL   *string `json:"resume_url,omitempty"`
	Whatsapp    *string `json:"whatsapp,omitempty"`
	GithubURL   *string `json:"github_url,omitempty"`
	LinkedinURL *string `json:"linkedin_url,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Website     *string `json:"website,omitempty"`
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.FindByUserID(ctx, userID)
}

// List returns all profiles ordered by coins descending; this is the
// leaderboard view.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	return s.profileRepo.ListAll(ctx)
}

func (s *ProfileService) Upsert(ctx context.Context, userID string, req UpsertProfileRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("no profile for this user: %w", common.ErrNotFound)
	}

	if req.FullName != nil {
		profile.FullName = req.FullName
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.ResumeURL != nil {
		profile.ResumeURL = req.ResumeURL
	}
	if req.Whatsapp != nil {
		profile.Whatsapp = req.Whatsapp
	}
	if req.GithubURL != nil {
		profile.GithubURL = req.GithubURL
	}
	if req.LinkedinURL != nil {
		profile.LinkedinURL = req.LinkedinURL
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.CompanyName != nil {
		profile.CompanyName = req.CompanyName
	}
	if req.Website != nil {
		profile.Website = req.Website
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

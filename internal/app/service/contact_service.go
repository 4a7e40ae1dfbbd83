package service

import (
	"context"
	"fmt"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"

	"github.com/google/uuid"
)

type ContactService struct {
	contactRepo repository.ContactRepository
}

func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*model.ContactMessage, error) {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return nil, fmt.Errorf("please enter all fields: %w", common.ErrValidation)
	}
	msg := &model.ContactMessage{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	return msg, nil
}

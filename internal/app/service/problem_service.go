package service

import (
	"context"

	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
)

// ProblemService exposes the read-only practice catalog.
type ProblemService struct {
	problemRepo repository.ProblemRepository
}

func NewProblemService(problemRepo repository.ProblemRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo}
}

func (s *ProblemService) List(ctx context.Context, limit int) ([]model.Problem, error) {
	return s.problemRepo.List(ctx, limit)
}

func (s *ProblemService) GetByID(ctx context.Context, id string) (*model.Problem, error) {
	return s.problemRepo.FindByID(ctx, id)
}

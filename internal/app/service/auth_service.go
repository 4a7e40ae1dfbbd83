package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"codeconnect/internal/common"
	"codeconnect/internal/common/security"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	submissionRepo   repository.SubmissionRepository
	notificationRepo repository.NotificationRepository
	db               *sql.DB // for the account-deletion cascade
}

func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	subRepo repository.SubmissionRepository,
	notifRepo repository.NotificationRepository,
	db *sql.DB,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		submissionRepo:   subRepo,
		notificationRepo: notifRepo,
		db:               db,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	role := req.Role
	switch role {
	case "":
		role = model.RoleStudent
	case model.RoleStudent, model.RoleCompany:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	fullName := req.FullName
	if fullName == "" {
		fullName = strings.SplitN(req.Email, "@", 2)[0]
	}
	profile := &model.Profile{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		FullName: &fullName,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, common.ErrUnauthorized
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, password string) error {
	if password == "" {
		return fmt.Errorf("please provide a new password: %w", common.ErrBadRequest)
	}
	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

// DeleteAccount removes the user and everything hanging off them in one
// transaction: submissions, solved markers, notifications, profile, user.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.submissionRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.notificationRepo.DeleteByRecipient(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteByUserID(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, tx, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account deletion: %w", err)
	}
	return nil
}

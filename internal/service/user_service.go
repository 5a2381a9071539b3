package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/straye-as/elevator-api/internal/logger"
	"github.com/straye-as/elevator-api/internal/mapper"
	"github.com/straye-as/elevator-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenIssuer
	logger   *zap.Logger
}

func NewUserService(userRepo *repository.UserRepository, tokens *auth.TokenIssuer, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token. Unknown users,
// inactive users and wrong passwords all return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		logger.ForContext(ctx, s.logger).Warn("login rejected", zap.String("username", user.Username))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.ForContext(ctx, s.logger).Warn("failed to record last login", zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	logger.ForContext(ctx, s.logger).Info("user logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(domain.TimestampFormat),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Register creates a new account. Username and email must both be unused.
func (s *UserService) Register(ctx context.Context, req *domain.RegisterUserRequest) (*domain.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	usernameTaken, emailTaken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if usernameTaken {
		return nil, fmt.Errorf("%w: username already exists", ErrDuplicateUser)
	}
	if emailTaken {
		return nil, fmt.Errorf("%w: email already exists", ErrDuplicateUser)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.UserRoleTechnician
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// Me returns the authenticated caller. API key callers have no stored account
// and get a synthetic system user.
func (s *UserService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if userCtx.IsSystem() {
		return &domain.UserDTO{
			Username:  userCtx.Username,
			Email:     userCtx.Email,
			FirstName: userCtx.DisplayName,
			Role:      userCtx.Role,
			IsActive:  true,
		}, nil
	}
	return s.GetByID(ctx, userCtx.UserID)
}

func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// Update changes the email and role of an account
func (s *UserService) Update(ctx context.Context, id uint, req *domain.UpdateUserRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, user.Email) {
			_, taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, "", email)
			if err != nil {
				return nil, fmt.Errorf("failed to check user: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("%w: email already exists", ErrDuplicateUser)
			}
		}
		user.Email = email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.ForContext(ctx, s.logger).Info("user updated", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if userCtx, ok := auth.FromContext(ctx); ok && !userCtx.IsSystem() && userCtx.UserID == id {
		return fmt.Errorf("%w: cannot delete your own account", ErrInvalidInput)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.ForContext(ctx, s.logger).Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// EnsureBootstrapAdmin creates the configured admin account when no users
// exist yet. It does nothing when no bootstrap password is configured.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, cfg *config.AuthConfig) error {
	if cfg.BootstrapAdminPassword == "" {
		return nil
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := cfg.BootstrapAdminUsername
	if username == "" {
		username = "admin"
	}
	email := cfg.BootstrapAdminEmail
	if email == "" {
		email = username + "@localhost"
	}

	_, err = s.Register(ctx, &domain.RegisterUserRequest{
		Username: username,
		Email:    email,
		Password: cfg.BootstrapAdminPassword,
		Role:     domain.UserRoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	logger.ForContext(ctx, s.logger).Info("bootstrap admin created", zap.String("username", username))
	return nil
}

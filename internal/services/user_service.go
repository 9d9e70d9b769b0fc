package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"admin-service/internal/event"
	"admin-service/internal/models"
	"admin-service/internal/repository"
)

type IUserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest, deviceInfo, ipAddress *string) (*models.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error)
	Logout(ctx context.Context, sessionID string) error
	GetProfile(ctx context.Context, userID int) (*models.MeResponse, error)

	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUserByID(userID int) (*models.UserWithRoles, error)
	GetAllUsers(limit, offset int) (*models.PaginatedUsersResponse, error)
	UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, userID int) error
}

type UserService struct {
	userRepo        repository.IUserRepository
	rbacRepo        repository.RBACRepository
	sessionService  *SessionService
	jwtService      *JWTService
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	eventPublisher  *event.AuditPublisher
}

func NewUserService(userRepo repository.IUserRepository, rbacRepo repository.RBACRepository, sessionService *SessionService, jwtService *JWTService, accessTokenTTL, refreshTokenTTL time.Duration, eventPublisher *event.AuditPublisher) IUserService {
	return &UserService{
		userRepo:        userRepo,
		rbacRepo:        rbacRepo,
		sessionService:  sessionService,
		jwtService:      jwtService,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		eventPublisher:  eventPublisher,
	}
}

// Register creates an account with the default role attached.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := s.userRepo.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	if role, err := s.rbacRepo.GetRoleByName(models.DefaultUserRoleName); err == nil {
		if err := s.rbacRepo.AssignRoleToUser(user.ID, role.ID); err != nil {
			log.Printf("Warning: failed to assign default role to user %d: %v", user.ID, err)
		}
	} else {
		log.Printf("Warning: default role %q not found: %v", models.DefaultUserRoleName, err)
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action:  "user.registered",
		ActorID: user.ID,
		Detail:  map[string]interface{}{"email": user.Email},
	})

	return user, nil
}

// Login verifies credentials and opens a session. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, deviceInfo, ipAddress *string) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !s.userRepo.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	profile, err := s.rbacRepo.GetAccessProfile(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access profile: %w", err)
	}

	sessionID := s.jwtService.NewSessionID()
	accessToken, refreshToken, err := s.jwtService.GenerateTokenPair(user, profile, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	expiresAt := time.Now().Add(s.refreshTokenTTL)
	if _, err := s.sessionService.CreateSession(ctx, sessionID, user.ID, accessToken, refreshToken, deviceInfo, ipAddress, expiresAt); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action:  "user.logged_in",
		ActorID: user.ID,
	})

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
		User:         *user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// stored session hashes in place.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResponse, error) {
	claims, err := s.jwtService.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.sessionService.ValidateSession(ctx, claims.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if session.RefreshTokenHash != HashToken(refreshToken) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	profile, err := s.rbacRepo.GetAccessProfile(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access profile: %w", err)
	}

	accessToken, newRefreshToken, err := s.jwtService.GenerateTokenPair(user, profile, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	expiresAt := time.Now().Add(s.refreshTokenTTL)
	if err := s.sessionService.RotateSession(ctx, session.ID, accessToken, newRefreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &models.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.InvalidateSession(ctx, sessionID)
}

// GetProfile returns the user together with the flattened role names and
// permission codes their tokens carry.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.MeResponse, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.rbacRepo.GetAccessProfile(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access profile: %w", err)
	}

	return &models.MeResponse{
		ID:          user.ID,
		FullName:    user.FullName,
		Email:       user.Email,
		Roles:       profile.Roles,
		Permissions: profile.Permissions,
	}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	hash, err := s.userRepo.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     isActive,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action:  "user.created",
		ActorID: user.ID,
		Detail:  map[string]interface{}{"email": user.Email},
	})

	return user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.UserWithRoles, error) {
	return s.rbacRepo.GetUserWithRoles(userID)
}

func (s *UserService) GetAllUsers(limit, offset int) (*models.PaginatedUsersResponse, error) {
	users, err := s.userRepo.GetAllUsers(limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.CountUsers()
	if err != nil {
		return nil, err
	}

	return &models.PaginatedUsersResponse{
		Users:  users,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// UpdateUser applies a partial update. Nil request fields are untouched. A
// password change re-hashes and revokes every live session of the user, as
// does deactivation.
func (s *UserService) UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.User, error) {
	changes := map[string]interface{}{}
	if req.FullName != nil {
		changes["full_name"] = *req.FullName
	}
	if req.Email != nil {
		changes["email"] = *req.Email
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := s.userRepo.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		changes["password_hash"] = hash
	}

	if len(changes) == 0 {
		return s.userRepo.GetUserByID(userID)
	}

	if err := s.userRepo.UpdateUserPartial(userID, changes); err != nil {
		return nil, err
	}

	if req.Password != nil || (req.IsActive != nil && !*req.IsActive) {
		if err := s.sessionService.InvalidateUserSessions(ctx, userID); err != nil {
			log.Printf("Warning: failed to invalidate sessions for user %d: %v", userID, err)
		}
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action:  "user.updated",
		ActorID: userID,
	})

	return s.userRepo.GetUserByID(userID)
}

func (s *UserService) DeleteUser(ctx context.Context, userID int) error {
	if err := s.userRepo.DeleteUser(userID); err != nil {
		return err
	}

	if err := s.sessionService.InvalidateUserSessions(ctx, userID); err != nil {
		log.Printf("Warning: failed to invalidate sessions for user %d: %v", userID, err)
	}

	s.eventPublisher.Publish(ctx, event.AuditEvent{
		Action:  "user.deleted",
		ActorID: userID,
	})

	return nil
}

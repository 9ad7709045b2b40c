package user

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

// PublicUser is the user view safe to return to clients.
type PublicUser struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// AuthResponse carries the token pair plus the authenticated user.
type AuthResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         PublicUser `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	BootstrapAdmin(ctx context.Context, name, email, password string) (*AuthResponse, error)
}

type authService struct {
	userRepo UserRepository
	tokens   *common.TokenManager
}

func NewAuthService(userRepo UserRepository, tokens *common.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = common.NormalizeEmail(email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Unauthorized("invalid credentials")
		}
		return nil, common.Internal("failed to load user", err)
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, common.Unauthorized("invalid credentials")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, time.Now()); err != nil {
		// login still succeeds, the timestamp is informational
		common.Logger.Warn("failed to stamp last login",
			zap.Uint64("user_id", user.UserID), zap.Error(err))
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, common.BadRequest("refresh_token is required")
	}

	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, common.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Unauthorized("user not found")
		}
		return nil, common.Internal("failed to load user", err)
	}

	return s.buildAuthResponse(user)
}

// BootstrapAdmin creates the very first ADMIN account. Refuses to run once
// any admin exists; invitations take over from there.
func (s *authService) BootstrapAdmin(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return nil, common.Internal("failed to count admins", err)
	}
	if admins > 0 {
		return nil, common.BadRequest("an admin account already exists")
	}

	email = common.NormalizeEmail(email)
	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, common.Internal("failed to check email", err)
	}
	if exists {
		return nil, common.BadRequest("email already in use")
	}

	if err := common.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, common.Internal("failed to hash password", err)
	}

	admin := &dbmysql.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         dbmysql.RoleAdmin,
	}
	if err := s.userRepo.CreateUser(ctx, admin); err != nil {
		return nil, common.Internal("failed to create admin", err)
	}

	return s.buildAuthResponse(admin)
}

func (s *authService) buildAuthResponse(user *dbmysql.User) (*AuthResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, common.Internal("failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.UserID, user.Email, user.Role)
	if err != nil {
		return nil, common.Internal("failed to sign refresh token", err)
	}

	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: PublicUser{
			ID:        user.UserID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			AvatarURL: user.AvatarURL,
		},
	}, nil
}

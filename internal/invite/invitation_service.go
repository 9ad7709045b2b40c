package invite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"famshare/internal/common"
	"famshare/internal/dbmysql"
)

type InvitationService interface {
	CreateInvitation(ctx context.Context, creatorID uint64, email *string, role string, expiresAt *time.Time) (*dbmysql.Invitation, error)
	AcceptInvitation(ctx context.Context, code, name, email, password string) (*dbmysql.User, error)
}

type invitationService struct {
	repo InvitationRepository
}

func NewInvitationService(repo InvitationRepository) InvitationService {
	return &invitationService{repo: repo}
}

// CreateInvitation issues a fresh single-use code. Admin-only, enforced by
// the route middleware.
func (s *invitationService) CreateInvitation(ctx context.Context, creatorID uint64, email *string, role string, expiresAt *time.Time) (*dbmysql.Invitation, error) {
	if role == "" {
		role = dbmysql.RoleMember
	}
	if role != dbmysql.RoleAdmin && role != dbmysql.RoleMember {
		return nil, common.BadRequest("role must be ADMIN or MEMBER")
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, common.Internal("failed to generate invitation code", err)
	}

	inv := &dbmysql.Invitation{
		Code:        code,
		Role:        role,
		ExpiresAt:   expiresAt,
		CreatedByID: creatorID,
	}
	if email != nil {
		normalized := common.NormalizeEmail(*email)
		inv.Email = &normalized
	}

	if err := s.repo.CreateInvitation(ctx, inv); err != nil {
		return nil, common.Internal("failed to create invitation", err)
	}
	return inv, nil
}

// AcceptInvitation converts an invitation into a user account exactly once.
// Validation order: unknown code, expired, already used, email resolution,
// email mismatch.
func (s *invitationService) AcceptInvitation(ctx context.Context, code, name, email, password string) (*dbmysql.User, error) {
	inv, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFound("invitation not found")
		}
		return nil, common.Internal("failed to load invitation", err)
	}

	if inv.IsExpired(time.Now()) {
		return nil, common.BadRequest("invitation has expired")
	}
	if inv.IsAccepted() {
		return nil, common.BadRequest("invitation has already been used")
	}

	email = common.NormalizeEmail(email)
	emailToUse := email
	if inv.Email != nil {
		emailToUse = *inv.Email
	}
	if emailToUse == "" {
		return nil, common.BadRequest("this invitation requires an email")
	}
	if inv.Email != nil && email != "" && *inv.Email != email {
		return nil, common.BadRequest("email does not match the invitation")
	}

	if err := common.ValidatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, common.Internal("failed to hash password", err)
	}

	newUser := &dbmysql.User{
		Name:         name,
		Email:        emailToUse,
		PasswordHash: hashed,
		Role:         inv.Role,
	}
	if err := s.repo.AcceptWithUser(ctx, inv.InvitationID, newUser); err != nil {
		if errors.Is(err, ErrAlreadyAccepted) {
			return nil, common.BadRequest("invitation has already been used")
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.BadRequest("email already in use")
		}
		return nil, common.Internal("failed to accept invitation", err)
	}
	return newUser, nil
}

// generateUniqueCode draws short random codes until one does not collide
// with an existing invitation. Collisions are unlikely but checked, not
// assumed.
func (s *invitationService) generateUniqueCode(ctx context.Context) (string, error) {
	for {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(buf))

		exists, err := s.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

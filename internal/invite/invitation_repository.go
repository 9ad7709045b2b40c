package invite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"famshare/internal/dbmysql"
)

// ErrAlreadyAccepted is returned when the accept transaction finds the
// invitation claimed by a concurrent request.
var ErrAlreadyAccepted = errors.New("invitation already accepted")

type InvitationRepository interface {
	CreateInvitation(ctx context.Context, inv *dbmysql.Invitation) error
	GetByCode(ctx context.Context, code string) (*dbmysql.Invitation, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	AcceptWithUser(ctx context.Context, invitationID uint64, user *dbmysql.User) error
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) CreateInvitation(ctx context.Context, inv *dbmysql.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*dbmysql.Invitation, error) {
	var inv dbmysql.Invitation
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invitationRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Invitation{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// AcceptWithUser creates the user and stamps accepted_user_id in one
// transaction. The guarded update only matches a still-unaccepted row, so a
// concurrent accept rolls the user creation back instead of minting a
// second account.
func (r *invitationRepository) AcceptWithUser(ctx context.Context, invitationID uint64, user *dbmysql.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		res := tx.Model(&dbmysql.Invitation{}).
			Where("invitation_id = ? AND accepted_user_id IS NULL", invitationID).
			Update("accepted_user_id", user.UserID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyAccepted
		}
		return nil
	})
}

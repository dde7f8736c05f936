package repository

import (
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create inserts an invite. The unique index on code turns issuance into an
// insert-if-absent: a collision with a live invite fails with
// gorm.ErrDuplicatedKey instead of silently overwriting.
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByCode finds a live invite by code
func (r *GormInviteRepository) FindByCode(code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// Delete removes an invite unconditionally
func (r *GormInviteRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Invite{}, id).Error
}

// ClaimAndGrant consumes an invite and grants membership in one transaction.
// The conditional delete is the serialization point: of any number of
// concurrent redeemers, exactly one observes a deleted row. The membership
// insert is keyed and conflict-tolerant, so a redeemer who is already a
// member still consumes the invite.
func (r *GormInviteRepository) ClaimAndGrant(invite *models.Invite, granteeID *uint64, now time.Time) (bool, error) {
	claimed := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND expires_at > ?", invite.ID, now).
			Delete(&models.Invite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race or expired between lookup and claim.
			return nil
		}
		claimed = true

		if granteeID == nil {
			return nil
		}

		member := models.ProjectMember{
			ProjectID: invite.ProjectID,
			UserID:    *granteeID,
			JoinedAt:  now,
		}
		return tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&member).Error
	})
	if err != nil {
		return false, err
	}

	return claimed, nil
}

// DeleteExpired removes all invites whose expiry is at or before now
func (r *GormInviteRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at <= ?", now).Delete(&models.Invite{})
	return res.RowsAffected, res.Error
}

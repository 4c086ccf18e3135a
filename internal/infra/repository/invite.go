package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/infra/database/models"
)

type InviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func inviteFromModel(m models.Invite) domain.Invite {
	return domain.Invite{
		ID:          m.ID,
		Token:       m.Token,
		IntentionID: m.IntentionID,
		CreatedAt:   m.CDate,
		UsedAt:      m.UsedAt,
	}
}

func (r *InviteRepository) Create(ctx context.Context, invite domain.Invite) (domain.Invite, error) {

	record := models.Invite{
		ID:          invite.ID,
		Token:       invite.Token,
		IntentionID: invite.IntentionID,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.Invite{}, domain.NotFoundError{Resource: "intention"}
		}
		return domain.Invite{}, errors.Wrap(err, "InviteRepository.Create failed")
	}

	return inviteFromModel(record), nil
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (domain.Invite, error) {

	var record models.Invite
	err := r.db.WithContext(ctx).Where("token = ?", token).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invite{}, domain.NotFoundError{Resource: "invite"}
		}
		return domain.Invite{}, errors.Wrap(err, "InviteRepository.GetByToken failed")
	}

	return inviteFromModel(record), nil
}

// Consume sets used_at for the token in a single conditional statement.
// The WHERE clause carries the used_at IS NULL precondition so two
// concurrent consumers can never both succeed.
func (r *InviteRepository) Consume(ctx context.Context, token string) (domain.Invite, error) {

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Invite{}).
		Where("token = ? AND used_at IS NULL", token).
		Update("used_at", now)
	if result.Error != nil {
		return domain.Invite{}, errors.Wrap(result.Error, "InviteRepository.Consume failed")
	}

	if result.RowsAffected == 0 {
		// Lost the race or never existed. One read to tell them apart.
		var existing models.Invite
		err := r.db.WithContext(ctx).Where("token = ?", token).Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invite{}, domain.NotFoundError{Resource: "invite"}
		}
		if err != nil {
			return domain.Invite{}, errors.Wrap(err, "InviteRepository.Consume lookup failed")
		}
		return domain.Invite{}, domain.ConflictError{Reason: "invite already used"}
	}

	var record models.Invite
	err := r.db.WithContext(ctx).Where("token = ?", token).Take(&record).Error
	if err != nil {
		return domain.Invite{}, errors.Wrap(err, "InviteRepository.Consume reload failed")
	}

	return inviteFromModel(record), nil
}

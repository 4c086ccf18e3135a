package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/infra/database/models"
)

type IntentionRepository struct {
	db *gorm.DB
}

func NewIntentionRepository(db *gorm.DB) *IntentionRepository {
	return &IntentionRepository{db: db}
}

func intentionFromModel(m models.Intention) domain.Intention {
	return domain.Intention{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Company:    m.Company,
		Motivation: m.Motivation,
		Status:     domain.IntentionStatus(m.Status),
		CreatedAt:  m.CDate,
	}
}

func (r *IntentionRepository) Create(ctx context.Context, intention domain.Intention) (domain.Intention, error) {

	record := models.Intention{
		ID:         intention.ID,
		Name:       intention.Name,
		Email:      intention.Email,
		Company:    intention.Company,
		Motivation: intention.Motivation,
		Status:     string(domain.IntentionPending),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Intention{}, errors.Wrap(err, "IntentionRepository.Create failed")
	}

	return intentionFromModel(record), nil
}

func (r *IntentionRepository) Get(ctx context.Context, id string) (domain.Intention, error) {

	var record models.Intention
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Intention{}, domain.NotFoundError{Resource: "intention"}
		}
		return domain.Intention{}, errors.Wrap(err, "IntentionRepository.Get failed")
	}

	return intentionFromModel(record), nil
}

func (r *IntentionRepository) List(ctx context.Context) ([]domain.Intention, error) {

	var records []models.Intention
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "IntentionRepository.List failed")
	}

	intentions := make([]domain.Intention, 0, len(records))
	for _, record := range records {
		intentions = append(intentions, intentionFromModel(record))
	}
	return intentions, nil
}

func (r *IntentionRepository) SetStatus(ctx context.Context, id string, status domain.IntentionStatus) (domain.Intention, error) {

	result := r.db.WithContext(ctx).
		Model(&models.Intention{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return domain.Intention{}, errors.Wrap(result.Error, "IntentionRepository.SetStatus failed")
	}
	if result.RowsAffected == 0 {
		return domain.Intention{}, domain.NotFoundError{Resource: "intention"}
	}

	return r.Get(ctx, id)
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/infra/database/models"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func announcementFromModel(m models.Announcement) domain.Announcement {
	author := userFromModel(m.Author)
	return domain.Announcement{
		ID:        m.ID,
		UserID:    m.UserID,
		Author:    &author,
		Message:   m.Message,
		CreatedAt: m.CDate,
	}
}

func (r *AnnouncementRepository) Create(ctx context.Context, announcement domain.Announcement) (domain.Announcement, error) {

	record := models.Announcement{
		ID:      announcement.ID,
		UserID:  announcement.UserID,
		Message: announcement.Message,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return domain.Announcement{}, errors.Wrap(err, "AnnouncementRepository.Create failed")
	}

	err = r.db.WithContext(ctx).Preload("Author").Where("id = ?", record.ID).Take(&record).Error
	if err != nil {
		return domain.Announcement{}, errors.Wrap(err, "AnnouncementRepository.Create reload failed")
	}

	return announcementFromModel(record), nil
}

// List returns announcements newest first, each joined with its author.
func (r *AnnouncementRepository) List(ctx context.Context) ([]domain.Announcement, error) {

	var records []models.Announcement
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "AnnouncementRepository.List failed")
	}

	announcements := make([]domain.Announcement, 0, len(records))
	for _, record := range records {
		announcements = append(announcements, announcementFromModel(record))
	}
	return announcements, nil
}

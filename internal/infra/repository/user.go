package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/raian-antunes/group-management-platform/internal/domain"
	"github.com/raian-antunes/group-management-platform/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func userFromModel(m models.User) domain.User {
	return domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Password:  m.Password,
		Role:      domain.Role(m.Role),
		Company:   m.Company,
		CreatedAt: m.CDate,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {

	record := models.User{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Role:     string(user.Role),
		Company:  user.Company,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Role == "" {
		record.Role = string(domain.RoleUser)
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ConflictError{Reason: "email already registered"}
		}
		return domain.User{}, errors.Wrap(err, "UserRepository.Create failed")
	}

	return userFromModel(record), nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (domain.User, error) {

	var record models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, errors.Wrap(err, "UserRepository.Get failed")
	}

	return userFromModel(record), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {

	var record models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, errors.Wrap(err, "UserRepository.GetByEmail failed")
	}

	return userFromModel(record), nil
}

// Update writes the provided column values for the user. The role column is
// deliberately not part of the accepted set.
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) (domain.User, error) {

	allowed := map[string]bool{"name": true, "email": true, "password": true, "company": true}
	updates := map[string]any{}
	for column, value := range fields {
		if allowed[column] {
			updates[column] = value
		}
	}
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ConflictError{Reason: "email already registered"}
		}
		return domain.User{}, errors.Wrap(result.Error, "UserRepository.Update failed")
	}
	if result.RowsAffected == 0 {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}

	return r.Get(ctx, id)
}

package couriers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
)

// CourierSummary is the admin-facing courier directory row.
type CourierSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Repository exposes courier lookups over the users table.
type Repository interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListCouriers(ctx context.Context, includeInactive bool) ([]CourierSummary, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a couriers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) ListCouriers(ctx context.Context, includeInactive bool) ([]CourierSummary, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleDelivery)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var users []models.User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	summaries := make([]CourierSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, CourierSummary{
			ID:          user.ID,
			Name:        user.Name,
			Email:       user.Email,
			Phone:       user.Phone,
			IsActive:    user.IsActive,
			LastLoginAt: user.LastLoginAt,
		})
	}
	return summaries, nil
}

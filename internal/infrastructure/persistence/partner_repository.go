package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/partner"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/infrastructure/persistence/models"
)

// GormPartnerRepository implements PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all partners ordered by name
func (r *GormPartnerRepository) FindAll(ctx context.Context) ([]partner.Partner, error) {
	var partnerModels []models.PartnerModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&partnerModels).Error; err != nil {
		return nil, err
	}

	partners := make([]partner.Partner, len(partnerModels))
	for i := range partnerModels {
		partners[i] = *partnerModels[i].ToDomain()
	}
	return partners, nil
}

// Create persists a new partner
func (r *GormPartnerRepository) Create(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists ledger changes with an optimistic version check
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	result := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Updates(map[string]interface{}{
			"name":               model.Name,
			"capital":            model.Capital,
			"withdrawals":        model.Withdrawals,
			"generated_interest": model.GeneratedInterest,
			"notes":              model.Notes,
			"version":            model.Version,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SoftDelete marks a partner as deleted without removing the row
func (r *GormPartnerRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PartnerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPartnerRepository implements PartnerRepository
var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)

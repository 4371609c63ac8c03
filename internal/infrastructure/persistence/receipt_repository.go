package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/lending"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/infrastructure/persistence/models"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByID finds a receipt with its allocations by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_no ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReceiptNumber finds a receipt by its receipt number
func (r *GormReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*lending.Receipt, error) {
	var model models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_no ASC")
		}).
		First(&model, "receipt_number = ?", receiptNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all receipts matching the filter, newest first
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter lending.ReceiptFilter) ([]lending.Receipt, error) {
	var receiptModels []models.ReceiptModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReceiptModel{}), filter)
	query = query.Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("installment_no ASC")
	}).Order("receipt_date DESC, created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}

	receipts := make([]lending.Receipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// Count counts receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter lending.ReceiptFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReceiptModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the receipt and its allocations as a single batch
func (r *GormReceiptRepository) Create(ctx context.Context, receipt *lending.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists receipt mutations. Allocations are append-only so only the
// receipt row is updated.
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *lending.Receipt) error {
	model := models.ReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Where("id = ?", receipt.ID).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"cancelled_at":  model.CancelledAt,
			"cancel_reason": model.CancelReason,
			"version":       model.Version,
			"updated_at":    time.Now(),
		}).Error
}

// CountActiveByLoan reports how many non-cancelled receipts reference a loan
func (r *GormReceiptRepository) CountActiveByLoan(ctx context.Context, loanID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Where("loan_id = ? AND status = ?", loanID, lending.ReceiptStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter lending.ReceiptFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.LoanID != nil {
		query = query.Where("loan_id = ?", *filter.LoanID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("receipt_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("receipt_date <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ lending.ReceiptRepository = (*GormReceiptRepository)(nil)

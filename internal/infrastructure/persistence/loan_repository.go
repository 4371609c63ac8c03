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

// GormLoanRepository implements LoanRepository using GORM. Loans are always
// loaded and stored with their full installment schedule.
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan with its installments by ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
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

// FindByLoanNumber finds a loan with its installments by loan number
func (r *GormLoanRepository) FindByLoanNumber(ctx context.Context, loanNumber string) (*lending.Loan, error) {
	var model models.LoanModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("installment_no ASC")
		}).
		First(&model, "loan_number = ?", loanNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all loans matching the filter, newest first
func (r *GormLoanRepository) FindAll(ctx context.Context, filter lending.LoanFilter) ([]lending.Loan, error) {
	var loanModels []models.LoanModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)
	query = query.Preload("Installments", func(db *gorm.DB) *gorm.DB {
		return db.Order("installment_no ASC")
	}).Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&loanModels).Error; err != nil {
		return nil, err
	}

	loans := make([]lending.Loan, len(loanModels))
	for i := range loanModels {
		loans[i] = *loanModels[i].ToDomain()
	}
	return loans, nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter lending.LoanFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LoanModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the loan and its installments as a single batch
func (r *GormLoanRepository) Create(ctx context.Context, loan *lending.Loan) error {
	model := models.LoanModelFromDomain(loan)
	return r.db.WithContext(ctx).Create(model).Error
}

// SaveWithLock persists the loan and its installments, failing with
// CONCURRENCY_CONFLICT when the stored version no longer matches the version
// the aggregate was loaded at.
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, loan *lending.Loan) error {
	model := models.LoanModelFromDomain(loan)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.LoanModel{}).
			Where("id = ? AND version = ?", loan.ID, loan.Version-1).
			Updates(map[string]interface{}{
				"status":        model.Status,
				"cancelled_at":  model.CancelledAt,
				"cancel_reason": model.CancelReason,
				"version":       model.Version,
				"updated_at":    time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range model.Installments {
			inst := &model.Installments[i]
			if err := tx.Model(&models.InstallmentModel{}).
				Where("id = ?", inst.ID).
				Updates(map[string]interface{}{
					"amount_paid": inst.AmountPaid,
					"paid_at":     inst.PaidAt,
					"updated_at":  time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete marks a loan as deleted without removing the rows
func (r *GormLoanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LoanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByLoanNumber checks if a loan with the given number exists
func (r *GormLoanRepository) ExistsByLoanNumber(ctx context.Context, loanNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LoanModel{}).
		Where("loan_number = ?", loanNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter lending.LoanFilter) *gorm.DB {
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("start_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("start_date <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormLoanRepository implements LoanRepository
var _ lending.LoanRepository = (*GormLoanRepository)(nil)

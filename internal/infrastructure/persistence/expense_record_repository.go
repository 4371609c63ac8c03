package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/microloan/backend/internal/domain/finance"
	"github.com/microloan/backend/internal/domain/shared"
	"github.com/microloan/backend/internal/infrastructure/persistence/models"
)

// GormExpenseRecordRepository implements ExpenseRecordRepository using GORM
type GormExpenseRecordRepository struct {
	db *gorm.DB
}

// NewGormExpenseRecordRepository creates a new GormExpenseRecordRepository
func NewGormExpenseRecordRepository(db *gorm.DB) *GormExpenseRecordRepository {
	return &GormExpenseRecordRepository{db: db}
}

// FindByID finds an expense record by its ID
func (r *GormExpenseRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExpenseNumber finds an expense record by its number
func (r *GormExpenseRecordRepository) FindByExpenseNumber(ctx context.Context, expenseNumber string) (*finance.ExpenseRecord, error) {
	var model models.ExpenseRecordModel
	if err := r.db.WithContext(ctx).
		First(&model, "expense_number = ?", expenseNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all expense records matching the filter, newest first
func (r *GormExpenseRecordRepository) FindAll(ctx context.Context, filter finance.ExpenseFilter) ([]finance.ExpenseRecord, error) {
	var expenseModels []models.ExpenseRecordModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseRecordModel{}), filter)
	query = query.Order("incurred_at DESC, created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	expenses := make([]finance.ExpenseRecord, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = *expenseModels[i].ToDomain()
	}
	return expenses, nil
}

// Count counts expense records matching the filter
func (r *GormExpenseRecordRepository) Count(ctx context.Context, filter finance.ExpenseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ExpenseRecordModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new expense record
func (r *GormExpenseRecordRepository) Create(ctx context.Context, expense *finance.ExpenseRecord) error {
	model := models.ExpenseRecordModelFromDomain(expense)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing expense record
func (r *GormExpenseRecordRepository) Save(ctx context.Context, expense *finance.ExpenseRecord) error {
	model := models.ExpenseRecordModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormExpenseRecordRepository) applyFilter(query *gorm.DB, filter finance.ExpenseFilter) *gorm.DB {
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("incurred_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("incurred_at <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormExpenseRecordRepository implements ExpenseRecordRepository
var _ finance.ExpenseRecordRepository = (*GormExpenseRecordRepository)(nil)

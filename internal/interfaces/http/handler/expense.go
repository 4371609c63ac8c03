package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfinance "github.com/microloan/backend/internal/application/finance"
	"github.com/microloan/backend/internal/domain/finance"
	"github.com/microloan/backend/internal/interfaces/http/dto"
)

// ExpenseHandler handles operating expense API endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *appfinance.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *appfinance.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RecordExpenseRequest represents a request to record an operating expense
type RecordExpenseRequest struct {
	Category      string    `json:"category" binding:"required,oneof=RENT UTILITIES SALARY OFFICE TRANSPORT COMMISSION TAX OTHER"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=CASH TRANSFER"`
	Description   string    `json:"description" binding:"required,min=1,max=500"`
	IncurredAt    time.Time `json:"incurred_at" binding:"required"`
}

// CancelExpenseRequest represents a request to cancel an expense record
type CancelExpenseRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListExpensesQuery represents expense list filters
type ListExpensesQuery struct {
	dto.ListRequest
	Category string `form:"category" binding:"omitempty,oneof=RENT UTILITIES SALARY OFFICE TRANSPORT COMMISSION TAX OTHER"`
	Status   string `form:"status" binding:"omitempty,oneof=RECORDED CANCELLED"`
}

func (r *RecordExpenseRequest) toApplication() appfinance.RecordExpenseRequest {
	return appfinance.RecordExpenseRequest{
		Category:      finance.ExpenseCategory(r.Category),
		Amount:        decimal.NewFromFloat(r.Amount),
		PaymentMethod: finance.PaymentMethod(r.PaymentMethod),
		Description:   r.Description,
		IncurredAt:    r.IncurredAt,
	}
}

// Create records an operating expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.RecordExpense(c.Request.Context(), req.toApplication())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, expense)
}

// GetByID retrieves an expense record by its ID
func (h *ExpenseHandler) GetByID(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), expenseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// List retrieves a paginated list of expense records
func (h *ExpenseHandler) List(c *gin.Context) {
	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter := finance.ExpenseFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Category != "" {
		category := finance.ExpenseCategory(query.Category)
		filter.Category = &category
	}
	if query.Status != "" {
		status := finance.ExpenseStatus(query.Status)
		filter.Status = &status
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, expenses, total, query.Page, query.PageSize)
}

// Update changes a recorded expense's details
func (h *ExpenseHandler) Update(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), expenseID, req.toApplication())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

// Cancel cancels an expense record
func (h *ExpenseHandler) Cancel(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid expense ID format")
		return
	}

	var req CancelExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.CancelExpense(c.Request.Context(), expenseID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, expense)
}

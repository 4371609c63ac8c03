package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	applending "github.com/microloan/backend/internal/application/lending"
	"github.com/microloan/backend/internal/domain/lending"
	"github.com/microloan/backend/internal/interfaces/http/dto"
)

// LoanHandler handles loan-related API endpoints
type LoanHandler struct {
	BaseHandler
	loanService *applending.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *applending.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// OriginateLoanRequest represents a request to originate a loan
type OriginateLoanRequest struct {
	ClientID         string    `json:"client_id" binding:"required,uuid"`
	Principal        float64   `json:"principal" binding:"required,gt=0"`
	Rate             float64   `json:"rate" binding:"gte=0"`
	InstallmentCount int       `json:"installment_count" binding:"required,min=1"`
	Frequency        string    `json:"frequency" binding:"required,oneof=WEEKLY BIWEEKLY MONTHLY"`
	StartDate        time.Time `json:"start_date" binding:"required"`
}

// CancelLoanRequest represents a request to cancel a loan
type CancelLoanRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListLoansQuery represents loan list filters
type ListLoansQuery struct {
	dto.ListRequest
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE COMPLETED CANCELLED"`
}

func (r *OriginateLoanRequest) toApplication() (applending.OriginateLoanRequest, error) {
	clientID, err := uuid.Parse(r.ClientID)
	if err != nil {
		return applending.OriginateLoanRequest{}, err
	}
	return applending.OriginateLoanRequest{
		ClientID:         clientID,
		Principal:        decimal.NewFromFloat(r.Principal),
		Rate:             decimal.NewFromFloat(r.Rate),
		InstallmentCount: r.InstallmentCount,
		Frequency:        lending.Frequency(r.Frequency),
		StartDate:        r.StartDate,
	}, nil
}

// Originate creates a loan with its full installment schedule
func (h *LoanHandler) Originate(c *gin.Context) {
	var req OriginateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toApplication()
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	loan, err := h.loanService.OriginateLoan(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, loan)
}

// PreviewSchedule generates the installment schedule for the given terms
// without persisting anything
func (h *LoanHandler) PreviewSchedule(c *gin.Context) {
	var req OriginateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq, err := req.toApplication()
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	schedule, err := h.loanService.PreviewSchedule(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, schedule)
}

// GetByID retrieves a loan with its schedule
func (h *LoanHandler) GetByID(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	loan, err := h.loanService.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loan)
}

// GetSchedule retrieves the installment schedule for a loan
func (h *LoanHandler) GetSchedule(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	loan, err := h.loanService.GetLoan(c.Request.Context(), loanID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loan.Installments)
}

// List retrieves a paginated list of loans
func (h *LoanHandler) List(c *gin.Context) {
	var query ListLoansQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter := lending.LoanFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.ClientID != "" {
		clientID, err := uuid.Parse(query.ClientID)
		if err != nil {
			h.BadRequest(c, "Invalid client ID format")
			return
		}
		filter.ClientID = &clientID
	}
	if query.Status != "" {
		status := lending.LoanStatus(query.Status)
		filter.Status = &status
	}

	loans, total, err := h.loanService.ListLoans(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, loans, total, query.Page, query.PageSize)
}

// Cancel marks a loan cancelled
func (h *LoanHandler) Cancel(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	var req CancelLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.CancelLoan(c.Request.Context(), loanID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, loan)
}

// Delete soft-deletes a loan without payment history
func (h *LoanHandler) Delete(c *gin.Context) {
	loanID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}

	if err := h.loanService.DeleteLoan(c.Request.Context(), loanID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

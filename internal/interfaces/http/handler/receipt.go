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

// IdempotencyKeyHeader carries the client-chosen replay-protection key for
// payment recording.
const IdempotencyKeyHeader = "Idempotency-Key"

// ReceiptHandler handles payment receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *applending.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *applending.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// RecordPaymentRequest represents a request to record a client payment
type RecordPaymentRequest struct {
	LoanID         string     `json:"loan_id" binding:"required,uuid"`
	ClientID       string     `json:"client_id" binding:"omitempty,uuid"`
	TotalAmount    float64    `json:"total_amount" binding:"required,gt=0"`
	CashAmount     float64    `json:"cash_amount" binding:"gte=0"`
	TransferAmount float64    `json:"transfer_amount" binding:"gte=0"`
	ReceiptDate    *time.Time `json:"receipt_date"`
	Observations   string     `json:"observations" binding:"max=500"`
}

// VoidReceiptRequest represents a request to void a receipt
type VoidReceiptRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ListReceiptsQuery represents receipt list filters
type ListReceiptsQuery struct {
	dto.ListRequest
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	LoanID   string `form:"loan_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE CANCELLED"`
}

// RecordPayment records a payment against a loan. The optional
// Idempotency-Key header protects against accidental replays.
func (h *ReceiptHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		h.BadRequest(c, "Invalid loan ID format")
		return
	}
	clientID := uuid.Nil
	if req.ClientID != "" {
		if clientID, err = uuid.Parse(req.ClientID); err != nil {
			h.BadRequest(c, "Invalid client ID format")
			return
		}
	}

	appReq := applending.RecordPaymentRequest{
		LoanID:         loanID,
		ClientID:       clientID,
		TotalAmount:    decimal.NewFromFloat(req.TotalAmount),
		CashAmount:     decimal.NewFromFloat(req.CashAmount),
		TransferAmount: decimal.NewFromFloat(req.TransferAmount),
		Observations:   req.Observations,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	}
	if req.ReceiptDate != nil {
		appReq.ReceiptDate = *req.ReceiptDate
	}

	result, err := h.receiptService.RecordPayment(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a receipt with its allocations
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List retrieves a paginated list of receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var query ListReceiptsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.Normalize()

	filter := lending.ReceiptFilter{
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
	if query.LoanID != "" {
		loanID, err := uuid.Parse(query.LoanID)
		if err != nil {
			h.BadRequest(c, "Invalid loan ID format")
			return
		}
		filter.LoanID = &loanID
	}
	if query.Status != "" {
		status := lending.ReceiptStatus(query.Status)
		filter.Status = &status
	}

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, query.Page, query.PageSize)
}

// Void cancels a receipt and reverses its allocations against the loan
func (h *ReceiptHandler) Void(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req VoidReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.receiptService.VoidReceipt(c.Request.Context(), receiptID, req.Reason); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/microloan/backend/internal/application/partner"
	domainpartner "github.com/microloan/backend/internal/domain/partner"
)

// PartnerHandler handles capital partner API endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partner.PartnerService
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partner.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// CreatePartnerRequest represents a request to register a capital partner
type CreatePartnerRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=200"`
	OpeningCapital float64 `json:"opening_capital" binding:"gte=0"`
}

// LedgerOperationRequest represents a capital ledger operation
type LedgerOperationRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Create registers a capital partner
func (h *PartnerHandler) Create(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.partnerService.CreatePartner(c.Request.Context(), req.Name, decimal.NewFromFloat(req.OpeningCapital))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, p)
}

// GetByID retrieves a partner by its ID
func (h *PartnerHandler) GetByID(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	p, err := h.partnerService.GetPartner(c.Request.Context(), partnerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// List retrieves all partners
func (h *PartnerHandler) List(c *gin.Context) {
	partners, err := h.partnerService.ListPartners(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, partners)
}

// Contribute adds a capital contribution to the partner's ledger
func (h *PartnerHandler) Contribute(c *gin.Context) {
	h.ledgerOperation(c, h.partnerService.ContributeCapital)
}

// Withdraw records a withdrawal from the partner's available balance
func (h *PartnerHandler) Withdraw(c *gin.Context) {
	h.ledgerOperation(c, h.partnerService.Withdraw)
}

// AccrueInterest credits generated interest to the partner's ledger
func (h *PartnerHandler) AccrueInterest(c *gin.Context) {
	h.ledgerOperation(c, h.partnerService.AccrueInterest)
}

// ledgerOperation binds the common ledger request shape and applies one
// ledger change through the service
func (h *PartnerHandler) ledgerOperation(
	c *gin.Context,
	op func(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*domainpartner.Partner, error),
) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	var req LedgerOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := op(c.Request.Context(), partnerID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, p)
}

// Delete soft-deletes a partner record
func (h *PartnerHandler) Delete(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid partner ID format")
		return
	}

	if err := h.partnerService.DeletePartner(c.Request.Context(), partnerID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

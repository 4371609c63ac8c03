package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/microloan/backend/internal/application/report"
)

// DashboardHandler serves the portfolio dashboard
type DashboardHandler struct {
	BaseHandler
	portfolioService *report.PortfolioService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(portfolioService *report.PortfolioService) *DashboardHandler {
	return &DashboardHandler{portfolioService: portfolioService}
}

// PortfolioSummary returns the portfolio snapshot. An optional as_of query
// parameter (RFC 3339 or YYYY-MM-DD) projects the snapshot at another date.
func (h *DashboardHandler) PortfolioSummary(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			h.BadRequest(c, "Invalid as_of date: use RFC 3339 or YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	summary, err := h.portfolioService.Summary(c.Request.Context(), asOf)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// parseDateParam accepts RFC 3339 timestamps and plain dates
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

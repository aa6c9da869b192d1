package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// ReportingHandler exposes operator dashboard aggregates.
type ReportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(rs portssvc.ReportingSvcFacade) *ReportingHandler {
	return &ReportingHandler{reportingService: rs}
}

// registerReportingRoutes sets up the reporting routes under the authenticated group.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade) {
	h := NewReportingHandler(rs)

	reports := rg.Group("/reports")
	{
		reports.GET("/proposals", h.GetProposalReport)
	}
}

// GetProposalReport godoc
// @Summary Proposal report
// @Description Returns proposal counts by status, accepted totals per currency,
// @Description and the average negotiation rounds. Non-master operators see only
// @Description their own proposals.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProposalReportResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports/proposals [get]
func (h *ReportingHandler) GetProposalReport(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	report, err := h.reportingService.GetProposalReport(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "report")
		return
	}
	c.JSON(http.StatusOK, report)
}

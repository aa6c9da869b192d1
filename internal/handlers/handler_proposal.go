package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// ProposalHandler handles proposal lifecycle requests.
type ProposalHandler struct {
	proposalService portssvc.ProposalSvcFacade
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(ps portssvc.ProposalSvcFacade) *ProposalHandler {
	return &ProposalHandler{proposalService: ps}
}

// registerProposalRoutes sets up the proposal routes under the authenticated group.
func registerProposalRoutes(rg *gin.RouterGroup, ps portssvc.ProposalSvcFacade) {
	h := NewProposalHandler(ps)

	proposals := rg.Group("/proposals")
	{
		proposals.POST("", h.CreateProposal)
		proposals.GET("", h.ListProposals)
		proposals.GET("/:proposalID", h.GetProposal)
		proposals.GET("/by-number/:proposalNumber", h.GetProposalByNumber)
		proposals.PUT("/:proposalID", h.UpdateProposal)
		proposals.DELETE("/:proposalID", h.DeleteProposal)

		proposals.POST("/:proposalID/submit-review", h.SubmitForReview)
		proposals.POST("/:proposalID/approve", h.ApproveProposal)
		proposals.POST("/:proposalID/reject-approval", h.RejectApproval)
		proposals.POST("/:proposalID/send", h.SendProposal)
		proposals.POST("/:proposalID/withdraw", h.WithdrawProposal)
		proposals.POST("/:proposalID/expire", h.MarkExpired)
		proposals.POST("/:proposalID/duplicate", h.DuplicateProposal)

		proposals.POST("/:proposalID/view", h.MarkViewed)
		proposals.POST("/:proposalID/accept", h.AcceptProposal)
		proposals.POST("/:proposalID/accept-initial", h.AcceptProposalInitial)
		proposals.POST("/:proposalID/reject", h.RejectProposal)
		proposals.POST("/:proposalID/request-revision", h.RequestRevision)
		proposals.POST("/:proposalID/ask-question", h.AskQuestion)
		proposals.POST("/:proposalID/participants", h.SubmitParticipantsData)
		proposals.POST("/:proposalID/final-confirmation", h.GiveFinalConfirmation)

		proposals.POST("/:proposalID/start-flight-booking", h.StartFlightBooking)
		proposals.POST("/:proposalID/confirm-flight-booked", h.ConfirmFlightBooked)
		proposals.POST("/:proposalID/documents", h.UploadContractDocuments)
		proposals.POST("/:proposalID/attachments", h.AddAttachment)
	}
}

func transitionOK(c *gin.Context, message string, proposal *domain.Proposal) {
	resp := dto.ToProposalResponse(proposal)
	c.JSON(http.StatusOK, dto.TransitionResponse{Success: true, Message: message, Proposal: &resp})
}

// CreateProposal godoc
// @Summary Create proposal
// @Description Creates a new draft proposal against a package request.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposal body dto.CreateProposalRequest true "Proposal"
// @Success 201 {object} dto.ProposalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals [post]
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProposalResponse(proposal))
}

// ListProposals godoc
// @Summary List proposals
// @Description Retrieves a paginated operator view of proposals.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListProposalsResponse
// @Failure 403 {object} ErrorResponse
// @Router /proposals [get]
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListProposalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	resp, err := h.proposalService.ListProposals(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "proposals")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProposal godoc
// @Summary Get proposal
// @Description Retrieves one proposal, enforcing caller visibility.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.ProposalResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals/{proposalID} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.GetProposalByID(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalResponse(proposal))
}

// GetProposalByNumber godoc
// @Summary Get proposal by number
// @Description Retrieves one proposal by its human-readable number.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalNumber path string true "Proposal Number"
// @Success 200 {object} dto.ProposalResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals/by-number/{proposalNumber} [get]
func (h *ProposalHandler) GetProposalByNumber(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.GetProposalByNumber(c.Request.Context(), c.Param("proposalNumber"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalResponse(proposal))
}

// UpdateProposal godoc
// @Summary Update proposal terms
// @Description Edits commercial terms; legal only while the proposal is editable.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param proposal body dto.UpdateProposalRequest true "Changed fields"
// @Success 200 {object} dto.ProposalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID} [put]
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.UpdateProposal(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalResponse(proposal))
}

// DeleteProposal godoc
// @Summary Delete proposal
// @Description Soft-deletes a proposal; accepted proposals are never deletable.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID} [delete]
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.proposalService.DeleteProposal(c.Request.Context(), c.Param("proposalID"), userID); err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitForReview godoc
// @Summary Submit for review
// @Description Routes a draft proposal into internal review.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/submit-review [post]
func (h *ProposalHandler) SubmitForReview(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.SubmitForReview(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal submitted for review", proposal)
}

// ApproveProposal godoc
// @Summary Approve proposal
// @Description Grants internal approval, unlocking send for proposals that require it.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/approve [post]
func (h *ProposalHandler) ApproveProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.ApproveProposal(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal approved", proposal)
}

// RejectApproval godoc
// @Summary Reject approval
// @Description Denies internal approval with a reason.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.RejectProposalRequest true "Reason"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/reject-approval [post]
func (h *ProposalHandler) RejectApproval(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.RejectApproval(c.Request.Context(), c.Param("proposalID"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal approval rejected", proposal)
}

// SendProposal godoc
// @Summary Send proposal
// @Description Delivers the proposal to the customer; sentAt is stamped only once.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.SendProposalRequest false "Email options"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/send [post]
func (h *ProposalHandler) SendProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.SendProposalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}
	proposal, err := h.proposalService.SendProposal(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal sent to customer", proposal)
}

// WithdrawProposal godoc
// @Summary Withdraw proposal
// @Description Withdraws an outstanding proposal.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/withdraw [post]
func (h *ProposalHandler) WithdrawProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}
	proposal, err := h.proposalService.WithdrawProposal(c.Request.Context(), c.Param("proposalID"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal withdrawn", proposal)
}

// MarkExpired godoc
// @Summary Expire proposal
// @Description Expires an outstanding proposal whose validity deadline has passed.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/expire [post]
func (h *ProposalHandler) MarkExpired(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.MarkExpired(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal marked expired", proposal)
}

// DuplicateProposal godoc
// @Summary Duplicate proposal
// @Description Creates a fresh draft copy, optionally adjusting prices.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.DuplicateProposalRequest false "Overrides"
// @Success 201 {object} dto.ProposalResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals/{proposalID}/duplicate [post]
func (h *ProposalHandler) DuplicateProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.DuplicateProposalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}
	proposal, err := h.proposalService.DuplicateProposal(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToProposalResponse(proposal))
}

// MarkViewed godoc
// @Summary Mark proposal viewed
// @Description Stamps viewedAt; an idempotent no-op once already viewed.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals/{proposalID}/view [post]
func (h *ProposalHandler) MarkViewed(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.MarkViewed(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal viewed", proposal)
}

// AcceptProposal godoc
// @Summary Accept proposal
// @Description Direct acceptance: accepts and supplies participant data in one call.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.AcceptProposalRequest true "Participants"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/accept [post]
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.AcceptProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.AcceptProposal(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal accepted", proposal)
}

// AcceptProposalInitial godoc
// @Summary Accept proposal (staged)
// @Description Staged acceptance: accept now, supply participant data later.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.AcceptInitialRequest false "Feedback"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/accept-initial [post]
func (h *ProposalHandler) AcceptProposalInitial(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.AcceptInitialRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}
	proposal, err := h.proposalService.AcceptProposalInitial(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal accepted, awaiting participant data", proposal)
}

// RejectProposal godoc
// @Summary Reject proposal
// @Description Declines the proposal with a reason.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.RejectProposalRequest true "Reason"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/reject [post]
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.RejectProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.RejectProposal(c.Request.Context(), c.Param("proposalID"), req.Reason, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Proposal rejected", proposal)
}

// RequestRevision godoc
// @Summary Request revision
// @Description Sends the proposal back into negotiation with notes.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.RevisionRequest true "Notes"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/request-revision [post]
func (h *ProposalHandler) RequestRevision(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.RequestRevision(c.Request.Context(), c.Param("proposalID"), req.Notes, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Revision requested", proposal)
}

// AskQuestion godoc
// @Summary Ask a question
// @Description Records a customer question, moving the proposal into negotiation.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/ask-question [post]
func (h *ProposalHandler) AskQuestion(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.AskQuestion(c.Request.Context(), c.Param("proposalID"), req.Question, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Question recorded", proposal)
}

// SubmitParticipantsData godoc
// @Summary Submit participant data
// @Description Completes the staged acceptance path with traveler records.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.SubmitParticipantsRequest true "Participants"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/participants [post]
func (h *ProposalHandler) SubmitParticipantsData(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.SubmitParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.SubmitParticipantsData(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Participant data submitted", proposal)
}

// GiveFinalConfirmation godoc
// @Summary Give final confirmation
// @Description Requires explicit terms acceptance; advances to payment_pending and freezes the final amount.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.FinalConfirmationRequest true "Terms acceptance"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/final-confirmation [post]
func (h *ProposalHandler) GiveFinalConfirmation(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.FinalConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.GiveFinalConfirmation(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Final confirmation received", proposal)
}

// StartFlightBooking godoc
// @Summary Start flight booking
// @Description Moves a completed-data proposal into flight booking.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/start-flight-booking [post]
func (h *ProposalHandler) StartFlightBooking(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposal, err := h.proposalService.StartFlightBooking(c.Request.Context(), c.Param("proposalID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Flight booking started", proposal)
}

// ConfirmFlightBooked godoc
// @Summary Confirm flight booked
// @Description Records the booking details and advances to flight_booked.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.FlightBookingRequest true "Booking details"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/confirm-flight-booked [post]
func (h *ProposalHandler) ConfirmFlightBooked(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.FlightBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.ConfirmFlightBooked(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Flight booking confirmed", proposal)
}

// UploadContractDocuments godoc
// @Summary Upload contract documents
// @Description Appends issued documents and advances to documents_uploaded.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.UploadDocumentsRequest true "Documents"
// @Success 200 {object} dto.TransitionResponse
// @Failure 409 {object} ErrorResponse
// @Router /proposals/{proposalID}/documents [post]
func (h *ProposalHandler) UploadContractDocuments(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.UploadDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.UploadContractDocuments(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	transitionOK(c, "Contract documents uploaded", proposal)
}

// AddAttachment godoc
// @Summary Add attachment
// @Description Appends a supporting file without changing the lifecycle status.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param proposalID path string true "Proposal ID"
// @Param body body dto.AttachmentRequest true "Attachment"
// @Success 200 {object} dto.ProposalResponse
// @Failure 404 {object} ErrorResponse
// @Router /proposals/{proposalID}/attachments [post]
func (h *ProposalHandler) AddAttachment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	proposal, err := h.proposalService.AddAttachment(c.Request.Context(), c.Param("proposalID"), req, userID)
	if err != nil {
		respondServiceError(c, err, "proposal")
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalResponse(proposal))
}

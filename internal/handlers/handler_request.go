package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/voyago/travel_proposal_app/internal/core/ports/services"
	"github.com/voyago/travel_proposal_app/internal/dto"
	"github.com/voyago/travel_proposal_app/internal/middleware"
)

// RequestHandler handles package request endpoints.
type RequestHandler struct {
	requestService  portssvc.RequestSvcFacade
	proposalService portssvc.ProposalSvcFacade
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(rs portssvc.RequestSvcFacade, ps portssvc.ProposalSvcFacade) *RequestHandler {
	return &RequestHandler{requestService: rs, proposalService: ps}
}

// registerRequestRoutes sets up the package request routes under the
// authenticated group.
func registerRequestRoutes(rg *gin.RouterGroup, rs portssvc.RequestSvcFacade, ps portssvc.ProposalSvcFacade) {
	h := NewRequestHandler(rs, ps)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListRequests)
		requests.GET("/my", h.ListMyRequests)
		requests.GET("/:requestID", h.GetRequest)
		requests.POST("/:requestID/cancel", h.CancelRequest)
		requests.GET("/:requestID/proposals", h.ListRequestProposals)
	}
}

// CreateRequest godoc
// @Summary Create package request
// @Description Creates a new travel package request for the calling customer.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Request"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	request, err := h.requestService.CreateRequest(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err, "request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

// ListRequests godoc
// @Summary List package requests
// @Description Retrieves a paginated operator view of requests.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListRequestsResponse
// @Failure 403 {object} ErrorResponse
// @Router /requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	var params dto.ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}
	resp, err := h.requestService.ListRequests(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, err, "requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListMyRequests godoc
// @Summary List my requests
// @Description Retrieves the calling customer's own requests.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RequestResponse
// @Router /requests/my [get]
func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	requests, err := h.requestService.ListMyRequests(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponses(requests))
}

// GetRequest godoc
// @Summary Get package request
// @Description Retrieves one request, enforcing caller visibility.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	request, err := h.requestService.GetRequestByID(c.Request.Context(), c.Param("requestID"), userID)
	if err != nil {
		respondServiceError(c, err, "request")
		return
	}
	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// CancelRequest godoc
// @Summary Cancel package request
// @Description Cancels a request; only the owner may cancel and confirmed requests stay put.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID"
// @Success 204 "No Content"
// @Failure 409 {object} ErrorResponse
// @Router /requests/{requestID}/cancel [post]
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if err := h.requestService.CancelRequest(c.Request.Context(), c.Param("requestID"), userID); err != nil {
		respondServiceError(c, err, "request")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRequestProposals godoc
// @Summary List proposals for a request
// @Description Retrieves the proposals attached to a request. Customers see
// @Description only proposals that have been sent to them.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param requestID path string true "Request ID"
// @Success 200 {array} dto.ProposalResponse
// @Failure 404 {object} ErrorResponse
// @Router /requests/{requestID}/proposals [get]
func (h *RequestHandler) ListRequestProposals(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	proposals, err := h.proposalService.ListProposalsByRequest(c.Request.Context(), c.Param("requestID"), userID)
	if err != nil {
		respondServiceError(c, err, "proposals")
		return
	}
	c.JSON(http.StatusOK, dto.ToProposalResponses(proposals))
}

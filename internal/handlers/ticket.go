package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/dto"
	apierrors "github.com/kmazurek/ticket-system-api/internal/errors"
	"github.com/kmazurek/ticket-system-api/internal/middleware"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/query"
	"github.com/kmazurek/ticket-system-api/internal/services"
	"github.com/kmazurek/ticket-system-api/internal/utils"
)

// TicketHandler coordinates ticket HTTP handlers.
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// ListTickets returns the shaped view of the ticket collection: filters
// first, then ordering, then pagination.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	q := query.ParseTicketQuery(c.Request.URL.Query())
	h.respondShapedList(c, q)
}

// AssignedToMe returns the tickets assigned to the requesting user.
func (h *TicketHandler) AssignedToMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	h.respondShapedList(c, query.AssignedToView(userID))
}

// CreatedByMe returns the tickets created by the requesting user.
func (h *TicketHandler) CreatedByMe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	h.respondShapedList(c, query.CreatedByView(userID))
}

// respondShapedList paginates the shaped sequence. A page request outside
// the collection falls back to the full shaped, unpaginated sequence.
func (h *TicketHandler) respondShapedList(c *gin.Context, q query.TicketQuery) {
	params := utils.GetPaginationParams(c)

	tickets, total, err := h.ticketService.List(q, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tickets")
		return
	}

	if !utils.HasPage(total, params) {
		all, _, err := h.ticketService.List(q, utils.PaginationParams{})
		if err != nil {
			apierrors.InternalError(c, "Failed to fetch tickets")
			return
		}
		c.JSON(http.StatusOK, dto.ToTicketDTOs(all))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(dto.ToTicketDTOs(tickets), total, params))
}

// GetTicket returns a single ticket by ID.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// CreateTicket creates a new ticket owned by the requesting user.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	type CreateTicketRequest struct {
		Title        string                `json:"title" binding:"required"`
		Description  string                `json:"description" binding:"required"`
		AssignedToID uint64                `json:"assigned_to_id" binding:"required"`
		Status       models.TicketStatus   `json:"status"`
		Priority     models.TicketPriority `json:"priority"`
	}

	var req CreateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Create(middleware.GetPrincipal(c), services.CreateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		Status:       req.Status,
		Priority:     req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketDTO(*ticket))
}

// UpdateTicket applies a partial update to a ticket.
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTicketRequest struct {
		Title        *string                `json:"title"`
		Description  *string                `json:"description"`
		AssignedToID *uint64                `json:"assigned_to_id"`
		Status       *models.TicketStatus   `json:"status"`
		Priority     *models.TicketPriority `json:"priority"`
	}

	var req UpdateTicketRequest
	if !bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Update(middleware.GetPrincipal(c), id, services.UpdateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		Status:       req.Status,
		Priority:     req.Priority,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketDTO(*ticket))
}

// DeleteTicket removes a ticket and its comments.
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats returns the summary counters over the whole ticket collection.
func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.ticketService.Stats()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/dto"
	apierrors "github.com/kmazurek/ticket-system-api/internal/errors"
	"github.com/kmazurek/ticket-system-api/internal/middleware"
	"github.com/kmazurek/ticket-system-api/internal/services"
	"github.com/kmazurek/ticket-system-api/internal/utils"
)

// CommentHandler coordinates comment HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments returns comments, optionally restricted to one ticket via
// the ticket parameter. A malformed ticket id skips the filter.
func (h *CommentHandler) ListComments(c *gin.Context) {
	var ticketID *uint64
	if raw := c.Query("ticket"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			ticketID = &id
		}
	}

	params := utils.GetPaginationParams(c)

	comments, total, err := h.commentService.List(ticketID, params)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch comments")
		return
	}

	if !utils.HasPage(total, params) {
		all, _, err := h.commentService.List(ticketID, utils.PaginationParams{})
		if err != nil {
			apierrors.InternalError(c, "Failed to fetch comments")
			return
		}
		c.JSON(http.StatusOK, dto.ToCommentDTOs(all))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(dto.ToCommentDTOs(comments), total, params))
}

// GetComment returns a single comment by ID.
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// CreateComment adds a comment authored by the requesting user.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	type CreateCommentRequest struct {
		TicketID uint64 `json:"ticket_id" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}

	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Create(middleware.GetPrincipal(c), services.CreateCommentInput{
		TicketID: req.TicketID,
		Text:     req.Text,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment changes the comment text.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req UpdateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(middleware.GetPrincipal(c), id, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

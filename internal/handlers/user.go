package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmazurek/ticket-system-api/internal/dto"
	"github.com/kmazurek/ticket-system-api/internal/middleware"
	"github.com/kmazurek/ticket-system-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUser registers a new account. Superuser only.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Surname  string `json:"surname" binding:"required"`
		IsStaff  bool   `json:"is_staff"`
	}

	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.CreateUser(middleware.GetPrincipal(c), services.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		IsStaff:  req.IsStaff,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListEmployees returns every user account.
func (h *UserHandler) ListEmployees(c *gin.Context) {
	users, err := h.userService.ListEmployees()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// DeleteUser removes an account. Superuser only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

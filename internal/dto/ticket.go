package dto

import (
	"time"

	"github.com/kmazurek/ticket-system-api/internal/models"
)

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID           uint64                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       models.TicketStatus   `json:"status"`
	Priority     models.TicketPriority `json:"priority"`
	CreatedByID  uint64                `json:"created_by_id"`
	AssignedToID uint64                `json:"assigned_to_id"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	CreatedBy    *UserDTO              `json:"created_by,omitempty"`
	AssignedTo   *UserDTO              `json:"assigned_to,omitempty"`
}

// ToTicketDTO converts a Ticket model to TicketDTO
func ToTicketDTO(ticket models.Ticket) TicketDTO {
	dto := TicketDTO{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Priority:     ticket.Priority,
		CreatedByID:  ticket.CreatedByID,
		AssignedToID: ticket.AssignedToID,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}

	// Include users if preloaded
	if ticket.CreatedBy.ID != 0 {
		creator := ToUserDTO(ticket.CreatedBy)
		dto.CreatedBy = &creator
	}
	if ticket.AssignedTo.ID != 0 {
		assignee := ToUserDTO(ticket.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

// ToTicketDTOs converts a slice of tickets
func ToTicketDTOs(tickets []models.Ticket) []TicketDTO {
	dtos := make([]TicketDTO, len(tickets))
	for i, t := range tickets {
		dtos[i] = ToTicketDTO(t)
	}
	return dtos
}

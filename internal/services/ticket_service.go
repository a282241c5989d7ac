package services

import (
	"errors"
	"fmt"

	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/permissions"
	"github.com/kmazurek/ticket-system-api/internal/query"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrAssigneeNotFound       = errors.New("assignee not found")
	ErrInvalidStatus          = errors.New("invalid ticket status")
	ErrInvalidPriority        = errors.New("invalid ticket priority")
)

// TicketService handles ticket business logic.
type TicketService struct {
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
}

// NewTicketService creates a new TicketService.
func NewTicketService(ticketRepo repository.TicketRepository, userRepo repository.UserRepository) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
	}
}

// CreateTicketInput represents the writable fields of a new ticket. The
// creator is never part of the input; it is always taken from the actor.
type CreateTicketInput struct {
	Title        string
	Description  string
	AssignedToID uint64
	Status       models.TicketStatus
	Priority     models.TicketPriority
}

// Create creates a ticket owned by the acting principal.
func (s *TicketService) Create(actor permissions.Principal, input CreateTicketInput) (*models.Ticket, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	if input.Status == "" {
		input.Status = models.TicketStatusOpen
	}
	if input.Priority == "" {
		input.Priority = models.TicketPriorityLow
	}
	if !models.ValidTicketStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if !models.ValidTicketPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	if _, err := s.userRepo.FindByID(input.AssignedToID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	ticket := &models.Ticket{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		CreatedByID:  actor.ID,
		AssignedToID: input.AssignedToID,
	}

	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return s.Get(ticket.ID)
}

// Get retrieves a ticket with its user relations.
func (s *TicketService) Get(id uint64) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.FindByID(id, "CreatedBy", "AssignedTo")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return ticket, nil
}

// List returns the shaped view of the ticket collection.
func (s *TicketService) List(q query.TicketQuery, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	tickets, total, err := s.ticketRepo.List(q, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, total, nil
}

// UpdateTicketInput carries the optional fields of a PATCH request.
type UpdateTicketInput struct {
	Title        *string
	Description  *string
	Status       *models.TicketStatus
	Priority     *models.TicketPriority
	AssignedToID *uint64
}

// Update applies a partial update after the ownership check, as a single
// read-modify-write against the store. The creator field is immutable.
func (s *TicketService) Update(actor permissions.Principal, id uint64, input UpdateTicketInput) (*models.Ticket, error) {
	ticket, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !permissions.Authorize(actor, ticket, permissions.OpUpdate) {
		if !actor.Authenticated() {
			return nil, ErrAuthenticationRequired
		}
		return nil, ErrPermissionDenied
	}

	if input.Title != nil {
		ticket.Title = *input.Title
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTicketStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !models.ValidTicketPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		ticket.Priority = *input.Priority
	}
	if input.AssignedToID != nil {
		if _, err := s.userRepo.FindByID(*input.AssignedToID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find assignee: %w", err)
		}
		ticket.AssignedToID = *input.AssignedToID
	}

	if err := s.ticketRepo.Update(ticket); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	return s.Get(ticket.ID)
}

// Delete removes a ticket after the ownership check; the store cascades the
// delete to the ticket's comments.
func (s *TicketService) Delete(actor permissions.Principal, id uint64) error {
	ticket, err := s.Get(id)
	if err != nil {
		return err
	}

	if !permissions.Authorize(actor, ticket, permissions.OpDelete) {
		if !actor.Authenticated() {
			return ErrAuthenticationRequired
		}
		return ErrPermissionDenied
	}

	if err := s.ticketRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	return nil
}

// TicketStats summarizes the ticket collection.
type TicketStats struct {
	Total             int64 `json:"total"`
	OpenCount         int64 `json:"open_count"`
	InProgressCount   int64 `json:"in_progress_count"`
	ClosedCount       int64 `json:"closed_count"`
	AvgClosingMinutes int64 `json:"avg_closing_minutes"`
}

// Stats reduces a snapshot of the ticket collection into summary counters.
func (s *TicketService) Stats() (TicketStats, error) {
	tickets, err := s.ticketRepo.FindAll()
	if err != nil {
		return TicketStats{}, fmt.Errorf("failed to load tickets: %w", err)
	}
	return AggregateTicketStats(tickets), nil
}

// AggregateTicketStats computes the per-status counters and the average
// closing time in whole minutes. The reduction is a per-bucket sum, so the
// scan order over the snapshot does not affect the result. With no closed
// tickets the average is 0.
func AggregateTicketStats(tickets []models.Ticket) TicketStats {
	var stats TicketStats
	var closedSeconds float64

	for _, t := range tickets {
		stats.Total++
		switch t.Status {
		case models.TicketStatusOpen:
			stats.OpenCount++
		case models.TicketStatusInProgress:
			stats.InProgressCount++
		case models.TicketStatusClosed:
			stats.ClosedCount++
			closedSeconds += t.UpdatedAt.Sub(t.CreatedAt).Seconds()
		}
	}

	if stats.ClosedCount > 0 {
		avgSeconds := closedSeconds / float64(stats.ClosedCount)
		stats.AvgClosingMinutes = int64(avgSeconds / 60)
	}

	return stats
}

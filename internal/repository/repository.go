package repository

import (
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/query"
	"github.com/kmazurek/ticket-system-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List lists all users
	List() ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete removes a user. Users referenced as ticket creator or assignee
	// are protected; comments by the user keep existing with a nulled author.
	Delete(id uint64) error
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create creates a new ticket
	Create(ticket *models.Ticket) error

	// FindByID finds a ticket by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Ticket, error)

	// List retrieves tickets matching the shaped query. A zero Limit in
	// params disables pagination and returns the full shaped sequence.
	List(q query.TicketQuery, params utils.PaginationParams) ([]models.Ticket, int64, error)

	// FindAll returns a snapshot of the whole ticket collection
	FindAll() ([]models.Ticket, error)

	// Update updates a ticket
	Update(ticket *models.Ticket) error

	// Delete removes a ticket and cascades to its comments
	Delete(id uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// List retrieves comments, newest first, optionally restricted to a
	// ticket. A zero Limit in params disables pagination.
	List(ticketID *uint64, params utils.PaginationParams) ([]models.Comment, int64, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete removes a comment
	Delete(id uint64) error
}

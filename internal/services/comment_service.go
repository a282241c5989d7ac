package services

import (
	"errors"
	"fmt"

	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/permissions"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentService handles comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	ticketRepo  repository.TicketRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, ticketRepo repository.TicketRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		ticketRepo:  ticketRepo,
	}
}

// CreateCommentInput represents the writable fields of a new comment. The
// author is always taken from the actor.
type CreateCommentInput struct {
	TicketID uint64
	Text     string
}

// Create adds a comment authored by the acting principal.
func (s *CommentService) Create(actor permissions.Principal, input CreateCommentInput) (*models.Comment, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthenticationRequired
	}

	if _, err := s.ticketRepo.FindByID(input.TicketID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	authorID := actor.ID
	comment := &models.Comment{
		AuthorID: &authorID,
		TicketID: input.TicketID,
		Text:     input.Text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.Get(comment.ID)
}

// Get retrieves a comment with its author relation.
func (s *CommentService) Get(id uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(id, "Author")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return comment, nil
}

// List returns comments, optionally restricted to one ticket.
func (s *CommentService) List(ticketID *uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	comments, total, err := s.commentRepo.List(ticketID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// Update changes the comment text after the ownership check. A comment whose
// author was deleted can only be edited by a superuser.
func (s *CommentService) Update(actor permissions.Principal, id uint64, text string) (*models.Comment, error) {
	comment, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !permissions.Authorize(actor, comment, permissions.OpUpdate) {
		if !actor.Authenticated() {
			return nil, ErrAuthenticationRequired
		}
		return nil, ErrPermissionDenied
	}

	comment.Text = text

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return s.Get(comment.ID)
}

// Delete removes a comment after the ownership check.
func (s *CommentService) Delete(actor permissions.Principal, id uint64) error {
	comment, err := s.Get(id)
	if err != nil {
		return err
	}

	if !permissions.Authorize(actor, comment, permissions.OpDelete) {
		if !actor.Authenticated() {
			return ErrAuthenticationRequired
		}
		return ErrPermissionDenied
	}

	if err := s.commentRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

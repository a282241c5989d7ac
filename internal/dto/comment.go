package dto

import (
	"time"

	"github.com/kmazurek/ticket-system-api/internal/models"
)

// CommentDTO represents a comment in API responses. Author is null when the
// author account has been deleted.
type CommentDTO struct {
	ID        uint64    `json:"id"`
	AuthorID  *uint64   `json:"author_id"`
	TicketID  uint64    `json:"ticket_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    *UserDTO  `json:"author,omitempty"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		TicketID:  comment.TicketID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.Author != nil && comment.Author.ID != 0 {
		author := ToUserDTO(*comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, cm := range comments {
		dtos[i] = ToCommentDTO(cm)
	}
	return dtos
}

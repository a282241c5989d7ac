package repository

import (
	"github.com/kmazurek/ticket-system-api/internal/database"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/utils"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID with optional preloading
func (r *GormCommentRepository) FindByID(id uint64, preload ...string) (*models.Comment, error) {
	var comment models.Comment
	q := r.db

	for _, p := range preload {
		q = q.Preload(p)
	}

	if err := q.First(&comment, id).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// List retrieves comments, newest first
func (r *GormCommentRepository) List(ticketID *uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	var comments []models.Comment

	base := r.db.Model(&models.Comment{})
	if ticketID != nil {
		base = base.Where("ticket_id = ?", *ticketID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := base.Order("id DESC")
	if params.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(params))
	}

	if err := listQuery.Preload("Author").Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// Update updates a comment
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete removes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

package repository

import (
	"github.com/kmazurek/ticket-system-api/internal/database"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/query"
	"github.com/kmazurek/ticket-system-api/internal/utils"
	"gorm.io/gorm"
)

// GormTicketRepository is a GORM implementation of TicketRepository
type GormTicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &GormTicketRepository{db: db}
}

// Create creates a new ticket
func (r *GormTicketRepository) Create(ticket *models.Ticket) error {
	return r.db.Create(ticket).Error
}

// FindByID finds a ticket by ID with optional preloading
func (r *GormTicketRepository) FindByID(id uint64, preload ...string) (*models.Ticket, error) {
	var ticket models.Ticket
	q := r.db

	for _, p := range preload {
		q = q.Preload(p)
	}

	if err := q.First(&ticket, id).Error; err != nil {
		return nil, err
	}

	return &ticket, nil
}

// List retrieves tickets matching the shaped query: filters first, then
// ordering, then pagination. The total count covers every eligible ticket,
// not just the returned page.
func (r *GormTicketRepository) List(q query.TicketQuery, params utils.PaginationParams) ([]models.Ticket, int64, error) {
	var tickets []models.Ticket

	base := r.db.Model(&models.Ticket{}).Scopes(q.Scope())

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := base.Order(q.Order())
	if params.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(params))
	}

	if err := listQuery.Preload("CreatedBy").Preload("AssignedTo").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

// FindAll returns a snapshot of the whole ticket collection
func (r *GormTicketRepository) FindAll() ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := r.db.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// Update updates a ticket
func (r *GormTicketRepository) Update(ticket *models.Ticket) error {
	return r.db.Save(ticket).Error
}

// Delete removes a ticket and its comments inside a single transaction
func (r *GormTicketRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Ticket{}, id).Error
	})
}

package models

import (
	"time"
)

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	AuthorID  *uint64   `gorm:"index" json:"author_id"`
	TicketID  uint64    `gorm:"not null;index" json:"ticket_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ticket Ticket `gorm:"foreignKey:TicketID" json:"ticket,omitempty"`
}

// OwnerID implements the Owned capability. The author reference is nulled
// when the author account is deleted; such comments report no owner.
func (c Comment) OwnerID() (uint64, bool) {
	if c.AuthorID == nil {
		return 0, false
	}
	return *c.AuthorID, true
}

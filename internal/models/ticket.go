package models

import (
	"time"
)

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityModerate TicketPriority = "MODERATE"
	TicketPriorityUrgent   TicketPriority = "URGENT"
)

// ValidTicketStatus reports whether s is one of the recognized statuses.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// ValidTicketPriority reports whether p is one of the recognized priorities.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityModerate, TicketPriorityUrgent:
		return true
	}
	return false
}

type Ticket struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       TicketStatus   `gorm:"type:varchar(20);not null;default:'OPEN'" json:"status"`
	Priority     TicketPriority `gorm:"type:varchar(20);not null;default:'LOW'" json:"priority"`
	CreatedByID  uint64         `gorm:"not null" json:"created_by_id"`
	AssignedToID uint64         `gorm:"not null" json:"assigned_to_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Relations
	CreatedBy  User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssignedTo User      `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Comments   []Comment `gorm:"foreignKey:TicketID" json:"comments,omitempty"`
}

// OwnerID implements the Owned capability. A ticket is owned by its creator.
func (t Ticket) OwnerID() (uint64, bool) {
	return t.CreatedByID, true
}

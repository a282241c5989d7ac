package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Surname      string    `gorm:"type:varchar(255);not null" json:"surname"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsStaff      bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser  bool      `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	CreatedTickets  []Ticket  `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTickets []Ticket  `gorm:"foreignKey:AssignedToID" json:"-"`
	Comments        []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

package model

import (
	"time"

	"ticket-tracker.com/ticket-tracker/internal/constants"
)

// Ticket is a support request owned by exactly one user. The composite unique
// index on (user_id, title) enforces per-owner title uniqueness at the store,
// so a concurrent create with the same pair cannot slip past validation.
type Ticket struct {
	ID          string                 `gorm:"primaryKey;size:36" json:"id"`
	UserID      string                 `gorm:"size:36;not null;uniqueIndex:idx_owner_title" json:"-"`
	Title       string                 `gorm:"size:255;not null;uniqueIndex:idx_owner_title" json:"title"`
	Description string                 `gorm:"not null" json:"description"`
	Status      constants.TicketStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

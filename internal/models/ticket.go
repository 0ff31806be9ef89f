package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	gorm.Model
	ID           uuid.UUID   `gorm:"type:uuid;primary_key"`
	TicketCode   string      `gorm:"unique;not null"`
	BuyerName    string      `gorm:"not null"`
	BuyerContact string      `gorm:"not null"`
	AgentID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	Agent        *User       `gorm:"foreignKey:AgentID"`
	TicketTypeID *uuid.UUID  `gorm:"type:uuid;index"`
	TicketType   *TicketType `gorm:"foreignKey:TicketTypeID"`
	// ValidUntil is frozen at mint time. A later edit to the ticket type
	// moves it only through the explicit cascade update.
	ValidUntil time.Time `gorm:"not null"`
	Valid      bool      `gorm:"not null;default:true"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

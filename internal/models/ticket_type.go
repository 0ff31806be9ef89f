package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TicketType struct {
	gorm.Model
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	Name           string          `gorm:"unique;not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description    string
	ExpirationDate time.Time `gorm:"not null"`
}

func (ticketType *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if ticketType.ID == uuid.Nil {
		ticketType.ID = uuid.New()
	}
	return
}

package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Wallet struct {
	gorm.Model
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID       `gorm:"type:uuid;unique;not null"`
	VoucherBalance decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	BonusBalance   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

func (wallet *Wallet) BeforeCreate(tx *gorm.DB) (err error) {
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	return
}

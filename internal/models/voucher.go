package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Voucher struct {
	gorm.Model
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherCode string          `gorm:"unique;not null"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Owner       *User           `gorm:"foreignKey:OwnerID"`
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Seller      *User           `gorm:"foreignKey:SellerID"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Processed   bool            `gorm:"not null;default:false"`
}

func (voucher *Voucher) BeforeCreate(tx *gorm.DB) (err error) {
	if voucher.ID == uuid.Nil {
		voucher.ID = uuid.New()
	}
	return
}

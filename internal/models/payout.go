package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PayoutPending  = "pending"
	PayoutApproved = "approved"
	PayoutRejected = "rejected"
)

type PayoutRequest struct {
	gorm.Model
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	PaymentID string          `gorm:"unique;not null"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	User      *User           `gorm:"foreignKey:UserID"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Salary    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status    string          `gorm:"not null;default:'pending'"`
}

func (payoutRequest *PayoutRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if payoutRequest.ID == uuid.Nil {
		payoutRequest.ID = uuid.New()
	}
	return
}

// PayoutSettings is a singleton row; the engine reads the first record.
type PayoutSettings struct {
	gorm.Model
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	MonthlyQuota            int             `gorm:"not null"`
	FullSalary              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PartialSalaryPercentage decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (payoutSettings *PayoutSettings) BeforeCreate(tx *gorm.DB) (err error) {
	if payoutSettings.ID == uuid.Nil {
		payoutSettings.ID = uuid.New()
	}
	return
}

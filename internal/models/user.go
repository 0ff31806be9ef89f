package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "Admin"
	RoleMerchant = "Merchant"
	RoleAgent    = "Agent"
)

type User struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	LoginID     string    `gorm:"unique;not null"`
	Email       string    `gorm:"unique;not null"`
	Password    string    `gorm:"not null"`
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        string  `gorm:"not null"`
	Wallet      *Wallet `gorm:"foreignKey:UserID"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

type Agent struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;unique;not null"`
	User   *User     `gorm:"foreignKey:UserID"`
}

func (agent *Agent) BeforeCreate(tx *gorm.DB) (err error) {
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	return
}

type Merchant struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID uuid.UUID `gorm:"type:uuid;unique;not null"`
	User   *User     `gorm:"foreignKey:UserID"`
}

func (merchant *Merchant) BeforeCreate(tx *gorm.DB) (err error) {
	if merchant.ID == uuid.Nil {
		merchant.ID = uuid.New()
	}
	return
}

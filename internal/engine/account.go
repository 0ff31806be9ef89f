package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

// AccountEngine creates accounts and performs role promotions. A promotion
// swaps the role string and the profile row in one transaction so a user is
// never observed with a stale profile.
type AccountEngine struct {
	db *gorm.DB
}

func NewAccountEngine(db *gorm.DB) *AccountEngine {
	return &AccountEngine{db: db}
}

type RegisterInput struct {
	Email          string
	HashedPassword string
	FirstName      string
	LastName       string
	PhoneNumber    string
}

// Register creates a user with a fresh login id, an empty wallet and an
// agent profile. New accounts always start as agents.
func (e *AccountEngine) Register(input RegisterInput) (*models.User, error) {
	loginID, err := GenerateLoginID(e.db)
	if err != nil {
		return nil, err
	}

	user := models.User{
		LoginID:     loginID,
		Email:       input.Email,
		Password:    input.HashedPassword,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Role:        models.RoleAgent,
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return retryableIfDuplicate(err)
		}
		if err := tx.Create(&models.Wallet{UserID: user.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Agent{UserID: user.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (e *AccountEngine) PromoteToMerchant(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}
		if user.Role != models.RoleAgent {
			return fmt.Errorf("%w: only agents can be promoted to merchant", ErrInvalidStateTransition)
		}

		if err := tx.Model(&user).Update("role", models.RoleMerchant).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Merchant{UserID: user.ID}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.Agent{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (e *AccountEngine) PromoteToAdmin(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, userID)
			}
			return err
		}
		if user.Role == models.RoleAdmin {
			return fmt.Errorf("%w: user is already an admin", ErrInvalidStateTransition)
		}

		if err := tx.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Agent{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.Merchant{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

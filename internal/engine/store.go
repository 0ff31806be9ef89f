package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

// forUpdate adds a row lock on postgres. The sqlite test dialect has no row
// locks; its single writer already serializes the transaction.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func lockWallet(tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := forUpdate(tx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: wallet for user %s", ErrNotFound, userID)
		}
		return nil, err
	}
	return &wallet, nil
}

// lockWalletPair acquires both wallet locks in user-id order so two
// settlements touching the same wallets in opposite order cannot deadlock.
func lockWalletPair(tx *gorm.DB, a, b uuid.UUID) (*models.Wallet, *models.Wallet, error) {
	first, second := a, b
	if b.String() < a.String() {
		first, second = b, a
	}

	firstWallet, err := lockWallet(tx, first)
	if err != nil {
		return nil, nil, err
	}
	secondWallet, err := lockWallet(tx, second)
	if err != nil {
		return nil, nil, err
	}

	if first == a {
		return firstWallet, secondWallet, nil
	}
	return secondWallet, firstWallet, nil
}

// retryableIfDuplicate converts a unique-constraint violation at insert time
// into ErrRetryable: the caller restarts the whole operation with a fresh
// code draw.
func retryableIfDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrRetryable, err)
	}
	return err
}

package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

var (
	agentBonusRate    = decimal.NewFromFloat(0.10)
	merchantBonusRate = decimal.NewFromFloat(0.20)
)

// VoucherEngine creates vouchers between a buyer and a seller and settles
// them atomically, moving wallet balances and crediting bonuses.
type VoucherEngine struct {
	db                *gorm.DB
	settlementLoginID string
}

func NewVoucherEngine(db *gorm.DB, settlementLoginID string) *VoucherEngine {
	return &VoucherEngine{db: db, settlementLoginID: settlementLoginID}
}

// Receipt summarizes a settled voucher for the response payload.
type Receipt struct {
	VoucherCode string          `json:"voucher_code"`
	Amount      decimal.Decimal `json:"amount"`
	Bonus       decimal.Decimal `json:"bonus"`
	BuyerID     string          `json:"buyer_id"`
	SellerID    string          `json:"seller_id"`
}

// Create inserts an unprocessed voucher. An agent buyer names a merchant as
// seller; a merchant buyer always sells back to the configured settlement
// account. No balance moves at creation.
func (e *VoucherEngine) Create(buyer *models.User, sellerLoginID string, amount decimal.Decimal) (*models.Voucher, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	seller, err := e.resolveSeller(buyer, sellerLoginID)
	if err != nil {
		return nil, err
	}

	code, err := GenerateVoucherCode(e.db)
	if err != nil {
		return nil, err
	}

	voucher := models.Voucher{
		VoucherCode: code,
		OwnerID:     buyer.ID,
		SellerID:    seller.ID,
		Amount:      amount,
	}
	if err := e.db.Create(&voucher).Error; err != nil {
		return nil, retryableIfDuplicate(err)
	}
	return &voucher, nil
}

func (e *VoucherEngine) resolveSeller(buyer *models.User, sellerLoginID string) (*models.User, error) {
	switch buyer.Role {
	case models.RoleAgent:
		var seller models.User
		if err := e.db.Where("login_id = ?", sellerLoginID).First(&seller).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidSeller
			}
			return nil, err
		}
		if seller.Role != models.RoleMerchant {
			return nil, ErrInvalidSeller
		}
		return &seller, nil

	case models.RoleMerchant:
		var admin models.User
		if err := e.db.Where("login_id = ?", e.settlementLoginID).First(&admin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSettlementAccount
			}
			return nil, err
		}
		if admin.Role != models.RoleAdmin {
			return nil, ErrSettlementAccount
		}
		return &admin, nil

	default:
		return nil, ErrInvalidRole
	}
}

// Process settles a voucher exactly once. Only the voucher's seller may
// settle it. A merchant seller is debited the face amount; the buyer is
// credited the amount plus a role-based bonus. Everything commits together
// or not at all.
func (e *VoucherEngine) Process(actor *models.User, voucherCode string) (*Receipt, error) {
	var receipt *Receipt

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var voucher models.Voucher
		if err := forUpdate(tx).Where("voucher_code = ?", voucherCode).First(&voucher).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: voucher %s", ErrNotFound, voucherCode)
			}
			return err
		}

		if voucher.SellerID != actor.ID {
			return ErrForbidden
		}
		if voucher.Processed {
			return ErrAlreadyProcessed
		}

		var buyer models.User
		if err := tx.First(&buyer, voucher.OwnerID).Error; err != nil {
			return err
		}

		sellerWallet, buyerWallet, err := lockWalletPair(tx, voucher.SellerID, voucher.OwnerID)
		if err != nil {
			return err
		}

		if actor.Role == models.RoleMerchant {
			if sellerWallet.VoucherBalance.LessThan(voucher.Amount) {
				return &InsufficientFundsError{
					Available: sellerWallet.VoucherBalance,
					Requested: voucher.Amount,
				}
			}
			newBalance := sellerWallet.VoucherBalance.Sub(voucher.Amount)
			if err := tx.Model(sellerWallet).Update("voucher_balance", newBalance).Error; err != nil {
				return err
			}
		}

		bonusRate := merchantBonusRate
		if buyer.Role == models.RoleAgent {
			bonusRate = agentBonusRate
		}
		bonus := voucher.Amount.Mul(bonusRate).Round(2)

		updates := map[string]interface{}{
			"voucher_balance": buyerWallet.VoucherBalance.Add(voucher.Amount),
			"bonus_balance":   buyerWallet.BonusBalance.Add(bonus),
		}
		if err := tx.Model(buyerWallet).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(&voucher).Update("processed", true).Error; err != nil {
			return err
		}

		receipt = &Receipt{
			VoucherCode: voucher.VoucherCode,
			Amount:      voucher.Amount,
			Bonus:       bonus,
			BuyerID:     voucher.OwnerID.String(),
			SellerID:    voucher.SellerID.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"voucher_code": receipt.VoucherCode,
		"amount":       receipt.Amount.StringFixed(2),
	}).Info("voucher settled")

	return receipt, nil
}

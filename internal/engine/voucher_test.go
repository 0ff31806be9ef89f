package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

const settlementLoginID = "ADM-001"

func TestCreateVoucherAgentBuyer(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "100.00", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(agent, merchant.LoginID, mustDecimal(t, "50.00"))
	require.NoError(t, err)
	require.Len(t, voucher.VoucherCode, 10)
	require.False(t, voucher.Processed)
	require.Equal(t, agent.ID, voucher.OwnerID)
	require.Equal(t, merchant.ID, voucher.SellerID)

	// Creation moves no balances.
	requireDecimalEqual(t, "0", walletOf(t, db, agent).VoucherBalance)
	requireDecimalEqual(t, "100.00", walletOf(t, db, merchant).VoucherBalance)
}

func TestCreateVoucherSellerMustBeMerchant(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	otherAgent := createUser(t, db, "AGT-002", "Agent", "0", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	_, err := eng.Create(agent, otherAgent.LoginID, mustDecimal(t, "10.00"))
	require.ErrorIs(t, err, ErrInvalidSeller)

	_, err = eng.Create(agent, "NOPE-000", mustDecimal(t, "10.00"))
	require.ErrorIs(t, err, ErrInvalidSeller)
}

func TestCreateVoucherMerchantBuyerUsesSettlementAccount(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, settlementLoginID, "Admin", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "0", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(merchant, "", mustDecimal(t, "25.00"))
	require.NoError(t, err)
	require.Equal(t, admin.ID, voucher.SellerID)
}

func TestCreateVoucherSettlementAccountMissing(t *testing.T) {
	db := setupDB(t)
	merchant := createUser(t, db, "MER-001", "Merchant", "0", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	_, err := eng.Create(merchant, "", mustDecimal(t, "25.00"))
	require.ErrorIs(t, err, ErrSettlementAccount)
}

func TestCreateVoucherInvalidRoleAndAmount(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, settlementLoginID, "Admin", "0", "0")
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "0", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	_, err := eng.Create(admin, merchant.LoginID, mustDecimal(t, "10.00"))
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = eng.Create(agent, merchant.LoginID, mustDecimal(t, "0"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = eng.Create(agent, merchant.LoginID, mustDecimal(t, "-5.00"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestProcessVoucherConservation(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "100.00", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(agent, merchant.LoginID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	receipt, err := eng.Process(merchant, voucher.VoucherCode)
	require.NoError(t, err)
	requireDecimalEqual(t, "50.00", receipt.Amount)
	requireDecimalEqual(t, "5.00", receipt.Bonus)

	// Seller debit equals buyer credit equals the face amount.
	requireDecimalEqual(t, "50.00", walletOf(t, db, merchant).VoucherBalance)
	requireDecimalEqual(t, "50.00", walletOf(t, db, agent).VoucherBalance)
	// Agent buyers earn a 10% bonus.
	requireDecimalEqual(t, "5.00", walletOf(t, db, agent).BonusBalance)
}

func TestProcessVoucherAtMostOnce(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "100.00", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(agent, merchant.LoginID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	_, err = eng.Process(merchant, voucher.VoucherCode)
	require.NoError(t, err)

	_, err = eng.Process(merchant, voucher.VoucherCode)
	require.ErrorIs(t, err, ErrAlreadyProcessed)

	// The second call changed nothing.
	requireDecimalEqual(t, "50.00", walletOf(t, db, merchant).VoucherBalance)
	requireDecimalEqual(t, "50.00", walletOf(t, db, agent).VoucherBalance)
	requireDecimalEqual(t, "5.00", walletOf(t, db, agent).BonusBalance)
}

func TestProcessVoucherInsufficientFundsAborts(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "10.00", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(agent, merchant.LoginID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	_, err = eng.Process(merchant, voucher.VoucherCode)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	// No partial settlement is observable.
	requireDecimalEqual(t, "10.00", walletOf(t, db, merchant).VoucherBalance)
	requireDecimalEqual(t, "0", walletOf(t, db, agent).VoucherBalance)

	var fresh models.Voucher
	require.NoError(t, db.First(&fresh, voucher.ID).Error)
	require.False(t, fresh.Processed)
}

func TestProcessVoucherOnlySellerMaySettle(t *testing.T) {
	db := setupDB(t)
	agent := createUser(t, db, "AGT-001", "Agent", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "100.00", "0")
	otherMerchant := createUser(t, db, "MER-002", "Merchant", "100.00", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(agent, merchant.LoginID, mustDecimal(t, "50.00"))
	require.NoError(t, err)

	_, err = eng.Process(otherMerchant, voucher.VoucherCode)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = eng.Process(merchant, "UNKNOWNCOD")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProcessVoucherMerchantBuyerBonus(t *testing.T) {
	db := setupDB(t)
	admin := createUser(t, db, settlementLoginID, "Admin", "0", "0")
	merchant := createUser(t, db, "MER-001", "Merchant", "0", "0")

	eng := NewVoucherEngine(db, settlementLoginID)

	voucher, err := eng.Create(merchant, "", mustDecimal(t, "40.00"))
	require.NoError(t, err)

	// Admin sellers are not debited; the buyer is still credited.
	receipt, err := eng.Process(admin, voucher.VoucherCode)
	require.NoError(t, err)
	requireDecimalEqual(t, "8.00", receipt.Bonus)

	requireDecimalEqual(t, "0", walletOf(t, db, admin).VoucherBalance)
	requireDecimalEqual(t, "40.00", walletOf(t, db, merchant).VoucherBalance)
	requireDecimalEqual(t, "8.00", walletOf(t, db, merchant).BonusBalance)
}

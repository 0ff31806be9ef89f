package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

// Per-test in-memory database to avoid cross-test interference.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Agent{},
		&models.Merchant{},
		&models.Wallet{},
		&models.Voucher{},
		&models.TicketType{},
		&models.Ticket{},
		&models.PayoutRequest{},
		&models.PayoutSettings{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, loginID, role string, voucherBalance, bonusBalance string) *models.User {
	t.Helper()
	user := models.User{
		LoginID:  loginID,
		Email:    loginID + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)

	wallet := models.Wallet{
		UserID:         user.ID,
		VoucherBalance: mustDecimal(t, voucherBalance),
		BonusBalance:   mustDecimal(t, bonusBalance),
	}
	require.NoError(t, db.Create(&wallet).Error)
	return &user
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func walletOf(t *testing.T, db *gorm.DB, user *models.User) *models.Wallet {
	t.Helper()
	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	return &wallet
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, mustDecimal(t, want).Equal(got), "want %s, got %s", want, got.String())
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/config"
	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SETTLEMENT_LOGIN_ID", "ADM-001")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	settings := models.PayoutSettings{
		MonthlyQuota:            210,
		FullSalary:              decimal.RequireFromString("1000.00"),
		PartialSalaryPercentage: decimal.RequireFromString("20.0"),
	}
	require.NoError(t, db.Create(&settings).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, db)
	return r, db
}

func httpDo(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func registerUser(t *testing.T, r *gin.Engine, db *gorm.DB, email string) *models.User {
	t.Helper()
	w := httpDo(r, "POST", "/v1/register", "", gin.H{
		"email":      email,
		"password":   "secret123",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	return &user
}

func setWallet(t *testing.T, db *gorm.DB, user *models.User, voucherBalance string) {
	t.Helper()
	err := db.Model(&models.Wallet{}).Where("user_id = ?", user.ID).
		Update("voucher_balance", decimal.RequireFromString(voucherBalance)).Error
	require.NoError(t, err)
}

func walletBalances(t *testing.T, r *gin.Engine, token string) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	w := httpDo(r, "GET", "/v1/wallet", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		VoucherBalance decimal.Decimal `json:"voucher_balance"`
		BonusBalance   decimal.Decimal `json:"bonus_balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.VoucherBalance, resp.BonusBalance
}

func TestRegisterAndLogin(t *testing.T) {
	r, db := setupRouter(t)

	user := registerUser(t, r, db, "ada@example.com")
	require.Equal(t, models.RoleAgent, user.Role)
	require.Regexp(t, `^[A-Z]{3}-[0-9]{3}$`, user.LoginID)

	w := httpDo(r, "POST", "/v1/login", "", gin.H{
		"email_or_login_id": "ada@example.com",
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// Login by login id works too.
	w = httpDo(r, "POST", "/v1/login", "", gin.H{
		"email_or_login_id": user.LoginID,
		"password":          "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "POST", "/v1/login", "", gin.H{
		"email_or_login_id": "ada@example.com",
		"password":          "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEndToEndVoucherSettlement(t *testing.T) {
	r, db := setupRouter(t)

	agent := registerUser(t, r, db, "agent@example.com")
	merchantUser := registerUser(t, r, db, "merchant@example.com")

	accounts := engine.NewAccountEngine(db)
	merchant, err := accounts.PromoteToMerchant(merchantUser.ID)
	require.NoError(t, err)
	setWallet(t, db, merchant, "100.00")

	agentToken := tokenFor(t, agent)
	merchantToken := tokenFor(t, merchant)

	w := httpDo(r, "POST", "/v1/vouchers", agentToken, gin.H{
		"amount": "50.00",
		"seller": merchant.LoginID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Voucher struct {
			VoucherCode string `json:"voucher_code"`
		} `json:"voucher"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Voucher.VoucherCode, 10)

	w = httpDo(r, "POST", "/v1/vouchers/process", merchantToken, gin.H{
		"voucher_code": created.Voucher.VoucherCode,
	})
	require.Equal(t, http.StatusOK, w.Code)

	merchantBalance, _ := walletBalances(t, r, merchantToken)
	agentBalance, agentBonus := walletBalances(t, r, agentToken)
	require.True(t, merchantBalance.Equal(decimal.RequireFromString("50.00")), merchantBalance.String())
	require.True(t, agentBalance.Equal(decimal.RequireFromString("50.00")), agentBalance.String())
	require.True(t, agentBonus.Equal(decimal.RequireFromString("5.00")), agentBonus.String())

	// Settling the same voucher again conflicts and moves nothing.
	w = httpDo(r, "POST", "/v1/vouchers/process", merchantToken, gin.H{
		"voucher_code": created.Voucher.VoucherCode,
	})
	require.Equal(t, http.StatusConflict, w.Code)

	merchantBalance, _ = walletBalances(t, r, merchantToken)
	require.True(t, merchantBalance.Equal(decimal.RequireFromString("50.00")), merchantBalance.String())
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	r, db := setupRouter(t)

	agent := registerUser(t, r, db, "agent@example.com")
	setWallet(t, db, agent, "100.00")
	agentToken := tokenFor(t, agent)

	adminUser := registerUser(t, r, db, "admin@example.com")
	accounts := engine.NewAccountEngine(db)
	admin, err := accounts.PromoteToAdmin(adminUser.ID)
	require.NoError(t, err)
	adminToken := tokenFor(t, admin)

	w := httpDo(r, "POST", "/v1/ticket-types", adminToken, gin.H{
		"name":            "Standard",
		"unit_price":      "10.00",
		"description":     "Standard ticket",
		"expiration_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var typeResp struct {
		TicketType struct {
			ID string `json:"ID"`
		} `json:"ticket_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &typeResp))
	require.NotEmpty(t, typeResp.TicketType.ID)

	w = httpDo(r, "POST", "/v1/tickets", agentToken, gin.H{
		"ticket_type":   typeResp.TicketType.ID,
		"quantity":      3,
		"buyer_name":    "Ada",
		"buyer_contact": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticketsResp struct {
		Tickets []struct {
			TicketCode string `json:"ticket_code"`
		} `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticketsResp))
	require.Len(t, ticketsResp.Tickets, 3)

	agentBalance, _ := walletBalances(t, r, agentToken)
	require.True(t, agentBalance.Equal(decimal.RequireFromString("70.00")), agentBalance.String())

	// Anyone can check validity without a token.
	code := ticketsResp.Tickets[0].TicketCode
	w = httpDo(r, "GET", "/v1/tickets/validate/"+code, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var validity struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &validity))
	require.True(t, validity.Valid)

	// Deleting the type orphans the ticket.
	w = httpDo(r, "DELETE", "/v1/ticket-types/"+typeResp.TicketType.ID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httpDo(r, "GET", "/v1/tickets/validate/"+code, "", nil)
	require.Equal(t, http.StatusGone, w.Code)
}

func TestRoleGuards(t *testing.T) {
	r, db := setupRouter(t)

	agent := registerUser(t, r, db, "agent@example.com")
	agentToken := tokenFor(t, agent)

	w := httpDo(r, "POST", "/v1/ticket-types", agentToken, gin.H{
		"name":            "Standard",
		"unit_price":      "10.00",
		"expiration_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = httpDo(r, "POST", "/v1/ticket-types", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httpDo(r, "GET", "/v1/wallet", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

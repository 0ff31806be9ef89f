package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

type CreateVoucherRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	// Seller is the merchant's login id. Ignored for merchant buyers, whose
	// vouchers always settle against the platform account.
	Seller string `json:"seller"`
}

type ProcessVoucherRequest struct {
	VoucherCode string `json:"voucher_code" binding:"required"`
}

func CreateVoucher(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}
	buyer, ok := currentUser(c, db)
	if !ok {
		return
	}

	vouchers := engine.NewVoucherEngine(db, os.Getenv("SETTLEMENT_LOGIN_ID"))
	voucher, err := vouchers.Create(buyer, req.Seller, req.Amount)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Voucher created successfully.",
		"voucher": gin.H{
			"voucher_code": voucher.VoucherCode,
			"amount":       voucher.Amount,
			"processed":    voucher.Processed,
			"created_at":   voucher.CreatedAt,
		},
	})
}

func ProcessVoucher(c *gin.Context) {
	var req ProcessVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Voucher code is required.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}
	actor, ok := currentUser(c, db)
	if !ok {
		return
	}

	vouchers := engine.NewVoucherEngine(db, os.Getenv("SETTLEMENT_LOGIN_ID"))
	receipt, err := vouchers.Process(actor, req.VoucherCode)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Voucher processed successfully.",
		"receipt": receipt,
	})
}

func SoldVouchers(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var vouchers []models.Voucher
	if err := db.Preload("Owner").Where("seller_id = ?", user.ID).Find(&vouchers).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving vouchers.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": voucherList(vouchers)})
}

func BoughtVouchers(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var vouchers []models.Voucher
	if err := db.Preload("Seller").Where("owner_id = ?", user.ID).Find(&vouchers).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving vouchers.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": voucherList(vouchers)})
}

func voucherList(vouchers []models.Voucher) []gin.H {
	out := make([]gin.H, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, gin.H{
			"id":           v.ID,
			"voucher_code": v.VoucherCode,
			"amount":       v.Amount,
			"processed":    v.Processed,
			"created_at":   v.CreatedAt,
		})
	}
	return out
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

type RequestPayoutRequest struct {
	Amount string `json:"amount" binding:"required"`
}

type ProcessPayoutRequest struct {
	Status string `json:"status" binding:"required"`
}

type PayoutSettingsRequest struct {
	MonthlyQuota            int             `json:"monthly_quota" binding:"required"`
	FullSalary              decimal.Decimal `json:"full_salary" binding:"required"`
	PartialSalaryPercentage decimal.Decimal `json:"partial_salary_percentage" binding:"required"`
}

func GetSalary(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	payouts := engine.NewPayoutEngine(db, appLocation())
	report, err := payouts.ComputeSalary(user)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func RequestPayout(c *gin.Context) {
	var req RequestPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Amount is required.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	payouts := engine.NewPayoutEngine(db, appLocation())
	payout, err := payouts.RequestPayout(user, req.Amount)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Payout request created successfully.",
		"payment_id":   payout.PaymentID,
		"amount":       payout.Amount,
		"salary":       payout.Salary,
		"status":       payout.Status,
		"requested_at": payout.CreatedAt,
	})
}

func ListPayouts(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	query := db.Model(&models.PayoutRequest{})
	if user.Role == models.RoleAdmin {
		if userID := c.Query("user_id"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}
	} else {
		query = query.Where("user_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payouts []models.PayoutRequest
	if err := query.Order("created_at desc").Find(&payouts).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payout requests.")
		return
	}

	out := make([]gin.H, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, gin.H{
			"payment_id":   p.PaymentID,
			"amount":       p.Amount,
			"salary":       p.Salary,
			"status":       p.Status,
			"requested_at": p.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func ProcessPayout(c *gin.Context) {
	paymentID := c.Param("payment_id")

	var req ProcessPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Status is required.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	payouts := engine.NewPayoutEngine(db, appLocation())
	payout, err := payouts.ProcessPayout(paymentID, req.Status)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Payout request " + payout.Status + " successfully.",
		"payment_id": payout.PaymentID,
		"payout_request": gin.H{
			"amount":     payout.Amount,
			"salary":     payout.Salary,
			"status":     payout.Status,
			"updated_at": payout.UpdatedAt,
		},
	})
}

func GetPayoutSettings(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var settings models.PayoutSettings
	if err := db.First(&settings).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Payout settings not found.")
		return
	}
	c.JSON(http.StatusOK, settings)
}

func UpdatePayoutSettings(c *gin.Context) {
	var req PayoutSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}
	if req.MonthlyQuota < 1 || !req.FullSalary.IsPositive() || req.PartialSalaryPercentage.IsNegative() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid payout settings values.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	var settings models.PayoutSettings
	if err := db.First(&settings).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Payout settings not found.")
		return
	}

	settings.MonthlyQuota = req.MonthlyQuota
	settings.FullSalary = req.FullSalary
	settings.PartialSalaryPercentage = req.PartialSalaryPercentage

	if err := db.Save(&settings).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payout settings.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Payout settings updated successfully.",
		"settings": settings,
	})
}

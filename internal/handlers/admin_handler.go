package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

func PromoteToMerchant(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	accounts := engine.NewAccountEngine(db)
	user, err := accounts.PromoteToMerchant(userID)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User " + user.LoginID + " has been promoted to Merchant.",
	})
}

func PromoteToAdmin(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	accounts := engine.NewAccountEngine(db)
	user, err := accounts.PromoteToAdmin(userID)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User " + user.LoginID + " has been promoted to Admin.",
	})
}

func ListAgents(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var agents []models.User
	if err := db.Where("role = ?", models.RoleAgent).Find(&agents).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving agents.")
		return
	}

	out := make([]gin.H, 0, len(agents))
	for _, a := range agents {
		out = append(out, gin.H{
			"id":         a.ID,
			"login_id":   a.LoginID,
			"first_name": a.FirstName,
			"last_name":  a.LastName,
		})
	}
	c.JSON(http.StatusOK, out)
}

func ListMerchants(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	var merchants []models.User
	if err := db.Preload("Wallet").Where("role = ?", models.RoleMerchant).Find(&merchants).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving merchants.")
		return
	}

	out := make([]gin.H, 0, len(merchants))
	for _, m := range merchants {
		entry := gin.H{
			"id":         m.ID,
			"login_id":   m.LoginID,
			"first_name": m.FirstName,
			"last_name":  m.LastName,
		}
		if m.Wallet != nil {
			entry["balance"] = m.Wallet.VoucherBalance
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}

func GetWallet(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var wallet models.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Wallet not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"voucher_balance": wallet.VoucherBalance,
		"bonus_balance":   wallet.BonusBalance,
	})
}

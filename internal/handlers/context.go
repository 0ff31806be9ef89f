package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

func getDB(c *gin.Context) (*gorm.DB, bool) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, false
	}
	return db.(*gorm.DB), true
}

// currentUser loads the principal resolved by the auth middleware.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return nil, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return nil, false
	}

	var user models.User
	if err := db.First(&user, userUUID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not found.")
		return nil, false
	}
	return &user, true
}

func appLocation() *time.Location {
	if tz := os.Getenv("APP_TIMEZONE"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

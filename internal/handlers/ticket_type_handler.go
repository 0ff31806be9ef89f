package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

type TicketTypeRequest struct {
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Description    string          `json:"description"`
	ExpirationDate time.Time       `json:"expiration_date"`
}

func CreateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	tickets := engine.NewTicketEngine(db)
	ticketType, err := tickets.CreateTicketType(engine.TicketTypeInput{
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		Description:    req.Description,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Ticket type created successfully.",
		"ticket_type": ticketType,
	})
}

func ListTicketTypes(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}

	query := db.Model(&models.TicketType{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var ticketTypes []models.TicketType
	if err := query.Find(&ticketTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket types.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket_types": ticketTypes})
}

func UpdateTicketType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket type ID.")
		return
	}

	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	tickets := engine.NewTicketEngine(db)
	ticketType, err := tickets.UpdateTicketType(id, engine.TicketTypeInput{
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		Description:    req.Description,
		ExpirationDate: req.ExpirationDate,
	})
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Successfully updated ticket type.",
		"ticket_type": ticketType,
	})
}

func DeleteTicketType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket type ID.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}

	tickets := engine.NewTicketEngine(db)
	if err := tickets.DeleteTicketType(id); err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

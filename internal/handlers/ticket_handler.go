package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/momohgodsfavour/ticketing-api/internal/engine"
	"github.com/momohgodsfavour/ticketing-api/internal/helpers"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

type CreateTicketsRequest struct {
	TicketTypeID uuid.UUID `json:"ticket_type" binding:"required"`
	Quantity     int       `json:"quantity" binding:"required"`
	BuyerName    string    `json:"buyer_name" binding:"required"`
	BuyerContact string    `json:"buyer_contact" binding:"required"`
}

func CreateTickets(c *gin.Context) {
	var req CreateTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, ok := getDB(c)
	if !ok {
		return
	}
	agent, ok := currentUser(c, db)
	if !ok {
		return
	}

	tickets := engine.NewTicketEngine(db)
	created, totalCost, err := tickets.CreateTickets(agent, req.TicketTypeID, req.Quantity, req.BuyerName, req.BuyerContact)
	if err != nil {
		helpers.RespondWithEngineError(c, err)
		return
	}

	var wallet models.Wallet
	db.Where("user_id = ?", agent.ID).First(&wallet)

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Tickets created successfully.",
		"tickets":         ticketList(created),
		"total_cost":      totalCost,
		"voucher_balance": wallet.VoucherBalance,
		"agent_info": gin.H{
			"login_id": agent.LoginID,
			"name":     agent.FirstName + " " + agent.LastName,
		},
	})
}

func CheckTicketValidity(c *gin.Context) {
	ticketCode := c.Param("code")

	db, ok := getDB(c)
	if !ok {
		return
	}

	tickets := engine.NewTicketEngine(db)
	ticket, valid, err := tickets.CheckValidity(ticketCode)
	if err != nil {
		if errors.Is(err, engine.ErrTicketTypeDeleted) {
			c.JSON(http.StatusGone, gin.H{"error": "Ticket type deleted."})
			return
		}
		helpers.RespondWithEngineError(c, err)
		return
	}

	info := gin.H{
		"ticket_code":   ticket.TicketCode,
		"buyer_name":    ticket.BuyerName,
		"buyer_contact": ticket.BuyerContact,
		"valid_until":   ticket.ValidUntil,
		"created_at":    ticket.CreatedAt,
	}
	if ticket.TicketType != nil {
		info["ticket_type"] = gin.H{
			"id":          ticket.TicketType.ID,
			"name":        ticket.TicketType.Name,
			"description": ticket.TicketType.Description,
		}
	}
	if ticket.Agent != nil {
		info["agent"] = gin.H{
			"name":     ticket.Agent.FirstName + " " + ticket.Agent.LastName,
			"login_id": ticket.Agent.LoginID,
		}
	}

	if valid {
		c.JSON(http.StatusOK, gin.H{"valid": true, "ticket_info": info})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": false, "ticket_info": info, "message": "Ticket is invalid or expired."})
}

func ListAgentTickets(c *gin.Context) {
	db, ok := getDB(c)
	if !ok {
		return
	}
	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	query := db.Model(&models.Ticket{})
	if user.Role != models.RoleAdmin {
		query = query.Where("agent_id = ?", user.ID)
	}

	now := time.Now()
	switch c.Query("period") {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query = query.Where("created_at >= ?", start)
	case "week":
		query = query.Where("created_at >= ?", now.AddDate(0, 0, -7))
	case "month":
		query = query.Where("created_at >= ?", now.AddDate(0, 0, -30))
	default:
		startDate := c.Query("start_date")
		endDate := c.Query("end_date")
		if startDate != "" && endDate != "" {
			start, err1 := time.Parse("2006-01-02", startDate)
			end, err2 := time.Parse("2006-01-02", endDate)
			if err1 != nil || err2 != nil {
				helpers.RespondWithError(c, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
				return
			}
			query = query.Where("created_at >= ? AND created_at < ?", start, end.AddDate(0, 0, 1))
		}
	}

	var tickets []models.Ticket
	if err := query.Order("created_at desc").Find(&tickets).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": ticketList(tickets)})
}

func ticketList(tickets []models.Ticket) []gin.H {
	out := make([]gin.H, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, gin.H{
			"ticket_code":   t.TicketCode,
			"buyer_name":    t.BuyerName,
			"buyer_contact": t.BuyerContact,
			"valid_until":   t.ValidUntil,
			"valid":         t.Valid,
			"created_at":    t.CreatedAt,
		})
	}
	return out
}

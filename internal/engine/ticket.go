package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

// TicketEngine mints tickets against an agent's wallet and manages the
// ticket-type lifecycle, including the cascades onto issued tickets.
type TicketEngine struct {
	db            *gorm.DB
	now           func() time.Time
	newTicketCode func(db *gorm.DB) (string, error)
}

func NewTicketEngine(db *gorm.DB) *TicketEngine {
	return &TicketEngine{
		db:            db,
		now:           time.Now,
		newTicketCode: GenerateTicketCode,
	}
}

type TicketTypeInput struct {
	Name           string
	UnitPrice      decimal.Decimal
	Description    string
	ExpirationDate time.Time
}

func (e *TicketEngine) CreateTicketType(input TicketTypeInput) (*models.TicketType, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !input.UnitPrice.IsPositive() {
		return nil, fmt.Errorf("%w: unit price must be positive", ErrValidation)
	}
	if !input.ExpirationDate.After(e.now()) {
		return nil, fmt.Errorf("%w: expiration date must be in the future", ErrValidation)
	}

	ticketType := models.TicketType{
		Name:           input.Name,
		UnitPrice:      input.UnitPrice,
		Description:    input.Description,
		ExpirationDate: input.ExpirationDate,
	}
	if err := e.db.Create(&ticketType).Error; err != nil {
		return nil, retryableIfDuplicate(err)
	}
	return &ticketType, nil
}

// CreateTickets mints quantity tickets and debits the agent's voucher
// balance in one transaction. A failed mint anywhere in the batch rolls
// back every ticket and the debit.
func (e *TicketEngine) CreateTickets(agent *models.User, ticketTypeID uuid.UUID, quantity int, buyerName, buyerContact string) ([]models.Ticket, decimal.Decimal, error) {
	if quantity < 1 {
		return nil, decimal.Zero, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if buyerName == "" {
		return nil, decimal.Zero, fmt.Errorf("%w: buyer name is required", ErrValidation)
	}

	var ticketType models.TicketType
	if err := e.db.First(&ticketType, ticketTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, fmt.Errorf("%w: ticket type %s", ErrNotFound, ticketTypeID)
		}
		return nil, decimal.Zero, err
	}

	if !e.now().Before(ticketType.ExpirationDate) {
		return nil, decimal.Zero, ErrExpired
	}

	totalCost := ticketType.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	var tickets []models.Ticket
	err := e.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, agent.ID)
		if err != nil {
			return err
		}
		if wallet.VoucherBalance.LessThan(totalCost) {
			return &InsufficientFundsError{
				Available: wallet.VoucherBalance,
				Requested: totalCost,
			}
		}

		for i := 0; i < quantity; i++ {
			code, err := e.newTicketCode(tx)
			if err != nil {
				return err
			}
			ticket := models.Ticket{
				TicketCode:   code,
				BuyerName:    buyerName,
				BuyerContact: buyerContact,
				AgentID:      agent.ID,
				TicketTypeID: &ticketType.ID,
				ValidUntil:   ticketType.ExpirationDate,
				Valid:        true,
			}
			if err := tx.Create(&ticket).Error; err != nil {
				return retryableIfDuplicate(err)
			}
			tickets = append(tickets, ticket)
		}

		newBalance := wallet.VoucherBalance.Sub(totalCost)
		return tx.Model(wallet).Update("voucher_balance", newBalance).Error
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	log.WithFields(log.Fields{
		"agent":      agent.LoginID,
		"quantity":   quantity,
		"total_cost": totalCost.StringFixed(2),
	}).Info("tickets issued")

	return tickets, totalCost, nil
}

// CheckValidity reports whether a ticket is usable right now. A stale
// stored valid flag is corrected in place so later reads agree with the
// answer given here.
func (e *TicketEngine) CheckValidity(ticketCode string) (*models.Ticket, bool, error) {
	var ticket models.Ticket
	err := e.db.Preload("TicketType").Preload("Agent").
		Where("ticket_code = ?", ticketCode).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("%w: ticket %s", ErrNotFound, ticketCode)
		}
		return nil, false, err
	}

	if ticket.TicketTypeID == nil {
		return &ticket, false, ErrTicketTypeDeleted
	}

	valid := ticket.Valid && ticket.ValidUntil.After(e.now())
	if !valid && ticket.Valid {
		if err := e.db.Model(&ticket).Update("valid", false).Error; err != nil {
			return nil, false, err
		}
	}
	return &ticket, valid, nil
}

// UpdateTicketType applies the given fields and re-derives valid_until and
// valid on every issued ticket of that type as one bulk write inside the
// same transaction.
func (e *TicketEngine) UpdateTicketType(id uuid.UUID, input TicketTypeInput) (*models.TicketType, error) {
	var ticketType models.TicketType

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ticketType, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ticket type %s", ErrNotFound, id)
			}
			return err
		}

		if input.Name != "" {
			ticketType.Name = input.Name
		}
		if input.Description != "" {
			ticketType.Description = input.Description
		}
		if input.UnitPrice.IsPositive() {
			ticketType.UnitPrice = input.UnitPrice
		}
		expirationChanged := !input.ExpirationDate.IsZero()
		if expirationChanged {
			ticketType.ExpirationDate = input.ExpirationDate
		}

		if err := tx.Save(&ticketType).Error; err != nil {
			return retryableIfDuplicate(err)
		}

		if expirationChanged {
			updates := map[string]interface{}{
				"valid_until": ticketType.ExpirationDate,
				"valid":       ticketType.ExpirationDate.After(e.now()),
			}
			if err := tx.Model(&models.Ticket{}).
				Where("ticket_type_id = ?", ticketType.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ticketType, nil
}

// DeleteTicketType orphans and invalidates every issued ticket of the type,
// then removes the type, atomically.
func (e *TicketEngine) DeleteTicketType(id uuid.UUID) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		var ticketType models.TicketType
		if err := tx.First(&ticketType, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: ticket type %s", ErrNotFound, id)
			}
			return err
		}

		updates := map[string]interface{}{
			"ticket_type_id": nil,
			"valid":          false,
		}
		if err := tx.Model(&models.Ticket{}).
			Where("ticket_type_id = ?", ticketType.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		return tx.Delete(&ticketType).Error
	})
}

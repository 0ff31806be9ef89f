package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// PayoutEngine computes quota-based salaries and moves bonus balance out of
// the system through admin-approved payout requests.
type PayoutEngine struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewPayoutEngine(db *gorm.DB, loc *time.Location) *PayoutEngine {
	return &PayoutEngine{db: db, loc: loc, now: time.Now}
}

// SalaryReport is the read-only view of the current month's standing.
type SalaryReport struct {
	Salary       decimal.Decimal `json:"salary"`
	TicketsSold  int64           `json:"tickets_sold"`
	MonthlyQuota int             `json:"monthly_quota"`
}

func (e *PayoutEngine) settings() (*models.PayoutSettings, error) {
	var settings models.PayoutSettings
	if err := e.db.First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("payout settings not seeded")
		}
		return nil, err
	}
	return &settings, nil
}

// monthWindow returns [first day of the current month, first day of the
// next month) in the configured timezone. AddDate handles the December
// rollover into January of the next year.
func (e *PayoutEngine) monthWindow() (time.Time, time.Time) {
	now := e.now().In(e.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 1, 0)
}

// ComputeSalary applies the tier rule to the agent's ticket count for the
// current calendar month. Quota halves use real division: an odd quota of
// 211 puts the partial tier at 105.5 sold, not 105.
func (e *PayoutEngine) ComputeSalary(user *models.User) (*SalaryReport, error) {
	settings, err := e.settings()
	if err != nil {
		return nil, err
	}

	start, end := e.monthWindow()

	var sold int64
	err = e.db.Model(&models.Ticket{}).
		Where("agent_id = ? AND created_at >= ? AND created_at < ?", user.ID, start, end).
		Count(&sold).Error
	if err != nil {
		return nil, err
	}

	salary := decimal.Zero
	switch {
	case sold >= int64(settings.MonthlyQuota):
		salary = settings.FullSalary
	case float64(sold) >= float64(settings.MonthlyQuota)/2:
		salary = settings.FullSalary.Mul(settings.PartialSalaryPercentage).Div(oneHundred).Round(2)
	}

	return &SalaryReport{
		Salary:       salary,
		TicketsSold:  sold,
		MonthlyQuota: settings.MonthlyQuota,
	}, nil
}

// RequestPayout records a pending withdrawal of bonus balance. Accepted only
// on the last calendar day of the month; no balance moves until approval.
func (e *PayoutEngine) RequestPayout(user *models.User, rawAmount string) (*models.PayoutRequest, error) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount", ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	now := e.now().In(e.loc)
	if now.Month() == now.AddDate(0, 0, 1).Month() {
		return nil, ErrOutsidePayoutWindow
	}

	var wallet models.Wallet
	if err := e.db.Where("user_id = ?", user.ID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: wallet for user %s", ErrNotFound, user.ID)
		}
		return nil, err
	}
	if amount.GreaterThan(wallet.BonusBalance) {
		return nil, ErrInsufficientBonus
	}

	report, err := e.ComputeSalary(user)
	if err != nil {
		return nil, err
	}

	paymentID, err := GeneratePaymentID(e.db, now)
	if err != nil {
		return nil, err
	}

	payout := models.PayoutRequest{
		PaymentID: paymentID,
		UserID:    user.ID,
		Amount:    amount,
		Salary:    report.Salary,
		Status:    models.PayoutPending,
	}
	if err := e.db.Create(&payout).Error; err != nil {
		return nil, retryableIfDuplicate(err)
	}

	log.WithFields(log.Fields{
		"payment_id": payout.PaymentID,
		"amount":     amount.StringFixed(2),
	}).Info("payout requested")

	return &payout, nil
}

// ProcessPayout moves a pending request to approved or rejected. Approval
// debits the bonus balance exactly once; a request that already left the
// pending state cannot be decided again.
func (e *PayoutEngine) ProcessPayout(paymentID, newStatus string) (*models.PayoutRequest, error) {
	if newStatus != models.PayoutApproved && newStatus != models.PayoutRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrValidation)
	}

	var payout models.PayoutRequest
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Where("payment_id = ?", paymentID).First(&payout).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payout request %s", ErrNotFound, paymentID)
			}
			return err
		}

		if payout.Status != models.PayoutPending {
			return ErrInvalidStateTransition
		}

		if newStatus == models.PayoutApproved {
			wallet, err := lockWallet(tx, payout.UserID)
			if err != nil {
				return err
			}
			if wallet.BonusBalance.LessThan(payout.Amount) {
				return ErrInsufficientBonus
			}
			newBalance := wallet.BonusBalance.Sub(payout.Amount)
			if err := tx.Model(wallet).Update("bonus_balance", newBalance).Error; err != nil {
				return err
			}
		}

		return tx.Model(&payout).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"payment_id": payout.PaymentID,
		"status":     payout.Status,
	}).Info("payout processed")

	return &payout, nil
}

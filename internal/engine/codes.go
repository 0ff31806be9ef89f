package engine

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"

	// The random draw is only a first guess; the store's unique constraint
	// stays the final authority. Give up after this many probe misses.
	maxCodeAttempts = 100
)

func randomString(alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

func generateUnique(db *gorm.DB, model interface{}, column string, draw func() string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		candidate := draw()

		var count int64
		if err := db.Model(model).Where(column+" = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s after %d attempts", column, maxCodeAttempts)
}

// GenerateLoginID returns an unused login id like "KQD-041".
func GenerateLoginID(db *gorm.DB) (string, error) {
	return generateUnique(db, &models.User{}, "login_id", func() string {
		return fmt.Sprintf("%s-%03d", randomString(upperLetters, 3), rand.Intn(1000))
	})
}

// GenerateVoucherCode returns an unused 10 character mixed-case code.
func GenerateVoucherCode(db *gorm.DB) (string, error) {
	return generateUnique(db, &models.Voucher{}, "voucher_code", func() string {
		return randomString(upperLetters+lowerLetters+digits, 10)
	})
}

// GenerateTicketCode returns an unused 8 character uppercase code.
func GenerateTicketCode(db *gorm.DB) (string, error) {
	return generateUnique(db, &models.Ticket{}, "ticket_code", func() string {
		return randomString(upperLetters+digits, 8)
	})
}

// GeneratePaymentID returns an unused id like "PAY20250131XK4D9A".
func GeneratePaymentID(db *gorm.DB, now time.Time) (string, error) {
	return generateUnique(db, &models.PayoutRequest{}, "payment_id", func() string {
		return fmt.Sprintf("PAY%s%s", now.Format("20060102"), randomString(upperLetters+digits, 6))
	})
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"ticketing"`

	Port      string `envconfig:"PORT" default:"8080"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Settlement account credited when merchants sell vouchers back to the
	// platform. Must reference an existing Admin user.
	SettlementLoginID string `envconfig:"SETTLEMENT_LOGIN_ID" required:"true"`
	SettlementEmail   string `envconfig:"SETTLEMENT_EMAIL" default:"settlement@ticketing.local"`

	Timezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	PayoutMonthlyQuota  int    `envconfig:"PAYOUT_MONTHLY_QUOTA" default:"210"`
	PayoutFullSalary    string `envconfig:"PAYOUT_FULL_SALARY" default:"1000.00"`
	PayoutPartialSalary string `envconfig:"PAYOUT_PARTIAL_SALARY_PERCENTAGE" default:"20.0"`
}

func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %v", cfg.Timezone, err)
	}
	if _, err := decimal.NewFromString(cfg.PayoutFullSalary); err != nil {
		return fmt.Errorf("invalid PAYOUT_FULL_SALARY %q: %v", cfg.PayoutFullSalary, err)
	}
	if _, err := decimal.NewFromString(cfg.PayoutPartialSalary); err != nil {
		return fmt.Errorf("invalid PAYOUT_PARTIAL_SALARY_PERCENTAGE %q: %v", cfg.PayoutPartialSalary, err)
	}
	return nil
}

func (cfg *Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedPayoutSettings(db, cfg); err != nil {
		return nil, err
	}
	if err := SeedSettlementAccount(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Agent{},
		&models.Merchant{},
		&models.Wallet{},
		&models.Voucher{},
		&models.TicketType{},
		&models.Ticket{},
		&models.PayoutRequest{},
		&models.PayoutSettings{},
	)
}

func SeedPayoutSettings(db *gorm.DB, cfg *Config) error {
	var count int64
	if err := db.Model(&models.PayoutSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	fullSalary, _ := decimal.NewFromString(cfg.PayoutFullSalary)
	partial, _ := decimal.NewFromString(cfg.PayoutPartialSalary)

	settings := models.PayoutSettings{
		MonthlyQuota:            cfg.PayoutMonthlyQuota,
		FullSalary:              fullSalary,
		PartialSalaryPercentage: partial,
	}
	return db.Create(&settings).Error
}

// SeedSettlementAccount makes sure the configured platform settlement admin
// exists so merchant-created vouchers always have a resolvable seller.
func SeedSettlementAccount(db *gorm.DB, cfg *Config) error {
	var existing models.User
	err := db.Where("login_id = ?", cfg.SettlementLoginID).First(&existing).Error
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return fmt.Errorf("settlement account %s is not an admin", cfg.SettlementLoginID)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// The seeded account is not meant for interactive login.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	log.WithField("login_id", cfg.SettlementLoginID).Info("seeding settlement admin account")

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			LoginID:  cfg.SettlementLoginID,
			Email:    cfg.SettlementEmail,
			Password: string(hashed),
			Role:     models.RoleAdmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		wallet := models.Wallet{UserID: user.ID}
		return tx.Create(&wallet).Error
	})
}

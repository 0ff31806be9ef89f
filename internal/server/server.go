package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/momohgodsfavour/ticketing-api/config"
	"github.com/momohgodsfavour/ticketing-api/internal/handlers"
	"github.com/momohgodsfavour/ticketing-api/internal/middleware"
	"github.com/momohgodsfavour/ticketing-api/internal/models"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	SetupRoutes(r, db)

	log.WithField("port", cfg.Port).Info("server listening")
	return r.Run(":" + cfg.Port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/tickets/validate/:code", handlers.CheckTicketValidity)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/wallet", handlers.GetWallet)
		protected.GET("/ticket-types", handlers.ListTicketTypes)
		protected.GET("/payouts", handlers.ListPayouts)
		protected.GET("/admin/merchants", handlers.ListMerchants)

		vouchers := protected.Group("/vouchers")
		{
			vouchers.POST("", middleware.RequireRoles(models.RoleAgent, models.RoleMerchant), handlers.CreateVoucher)
			vouchers.GET("/sold", middleware.RequireRoles(models.RoleMerchant, models.RoleAdmin), handlers.SoldVouchers)
			vouchers.GET("/bought", middleware.RequireRoles(models.RoleAgent, models.RoleMerchant), handlers.BoughtVouchers)
			vouchers.POST("/process", middleware.RequireRoles(models.RoleMerchant, models.RoleAdmin), handlers.ProcessVoucher)
		}

		tickets := protected.Group("/tickets")
		{
			tickets.POST("", middleware.RequireRoles(models.RoleAgent), handlers.CreateTickets)
			tickets.GET("", middleware.RequireRoles(models.RoleAgent, models.RoleAdmin), handlers.ListAgentTickets)
		}

		payouts := protected.Group("/payouts")
		{
			payouts.GET("/salary", middleware.RequireRoles(models.RoleAgent), handlers.GetSalary)
			payouts.POST("", middleware.RequireRoles(models.RoleAgent), handlers.RequestPayout)
			payouts.PUT("/process/:payment_id", middleware.RequireRoles(models.RoleAdmin), handlers.ProcessPayout)
			payouts.GET("/settings", middleware.RequireRoles(models.RoleAdmin), handlers.GetPayoutSettings)
			payouts.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), handlers.UpdatePayoutSettings)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/promote/merchant/:id", handlers.PromoteToMerchant)
			admin.POST("/promote/admin/:id", handlers.PromoteToAdmin)
			admin.GET("/agents", handlers.ListAgents)
		}

		ticketTypes := protected.Group("/ticket-types")
		ticketTypes.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			ticketTypes.POST("", handlers.CreateTicketType)
			ticketTypes.PUT("/:id", handlers.UpdateTicketType)
			ticketTypes.DELETE("/:id", handlers.DeleteTicketType)
		}
	}
}

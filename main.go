package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"referral-commerce-service/internal/database"
	"referral-commerce-service/internal/handlers"
	"referral-commerce-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	// Init Services
	walletService := services.NewWalletService(db)
	settingsService := services.NewSettingsService(db)
	referralService := services.NewReferralService(db)
	commissionService := services.NewCommissionService(db, walletService, asynqClient)
	withdrawalService := services.NewWithdrawalService(db, walletService, settingsService, asynqClient)
	rechargeService := services.NewRechargeService(db, walletService, asynqClient)
	orderService := services.NewOrderService(db, walletService, referralService, commissionService)
	userService := services.NewUserService(db)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(walletService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	rechargeHandler := handlers.NewRechargeHandler(rechargeService)
	orderHandler := handlers.NewOrderHandler(orderService)
	referralHandler := handlers.NewReferralHandler(referralService, commissionService)

	// Initialize Gin
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Referral Commerce service",
		})
	})

	// User Routes
	r.POST("/users", userHandler.Register)
	r.GET("/users/:userId", userHandler.Get)
	r.PUT("/users/:userId/bank-account", userHandler.SaveBankAccount)

	// Wallet Routes
	r.GET("/wallets/:userId", walletHandler.GetBalance)
	r.GET("/wallets/:userId/transactions", walletHandler.ListTransactions)

	// Withdrawal Routes
	r.POST("/withdrawals", withdrawalHandler.Create)
	r.GET("/withdrawals", withdrawalHandler.List)
	r.GET("/withdrawals/:id", withdrawalHandler.Get)
	r.POST("/withdrawals/:id/approve", withdrawalHandler.Approve)
	r.POST("/withdrawals/:id/reject", withdrawalHandler.Reject)

	// Recharge Routes
	r.POST("/recharges", rechargeHandler.Create)
	r.GET("/recharges", rechargeHandler.List)
	r.POST("/recharges/:id/approve", rechargeHandler.Approve)
	r.POST("/recharges/:id/reject", rechargeHandler.Reject)

	// Order Routes
	r.POST("/orders", orderHandler.Place)
	r.GET("/orders", orderHandler.List)
	r.GET("/orders/:id", orderHandler.Get)
	r.POST("/orders/:id/approve", orderHandler.Approve)
	r.POST("/orders/:id/cancel", orderHandler.Cancel)

	// Referral / Commission Routes
	r.GET("/referrals/:userId/uplines", referralHandler.Uplines)
	r.GET("/referrals/:userId/downlines", referralHandler.Downlines)
	r.GET("/referrals/:userId/team", referralHandler.Team)
	r.GET("/referrals/:userId/earnings", referralHandler.Earnings)
	r.GET("/commissions", referralHandler.ListDistributions)
	r.POST("/commissions/:id/approve", referralHandler.ApproveDistribution)
	r.POST("/commissions/:id/reject", referralHandler.RejectDistribution)

	// Start Cron Schedulers
	ledgerArchiveService := services.NewLedgerArchiveService(db)
	ledgerArchiveService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

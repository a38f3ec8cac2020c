package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"referral-commerce-service/internal/consumers"
	"referral-commerce-service/internal/database"
	"referral-commerce-service/internal/worker"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	database.Connect()
	db := database.DB

	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	processor := consumers.NewNotifyProcessor(db, os.Getenv("NOTIFY_WEBHOOK_URL"))

	zap.L().Info("worker starting", zap.String("redis", redisAddr))
	worker.StartWorker(asynq.RedisClientOpt{Addr: redisAddr}, processor)
}

package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"referral-commerce-service/internal/database"
)

func main() {
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
	database.Migrate()
	database.Seed()

	zap.L().Info("migration and seed completed")
}

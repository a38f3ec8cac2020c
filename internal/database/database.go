package database

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"go.uber.org/zap"

	"referral-commerce-service/internal/models"
)

var DB *gorm.DB

func Connect() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	zap.L().Info("database connection established")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.BankAccount{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.ArchivedWalletTransaction{},
		&models.ReferralTreeEdge{},
		&models.CommissionConfig{},
		&models.CommissionDistribution{},
		&models.WithdrawalRequest{},
		&models.RechargeRequest{},
		&models.Product{},
		&models.Order{},
		&models.OrderTrackingEvent{},
		&models.Setting{},
	)
	if err != nil {
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}
	zap.L().Info("database migration completed")
}

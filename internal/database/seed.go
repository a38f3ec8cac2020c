package database

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"referral-commerce-service/internal/models"
)

// defaultLevelPercents is the out-of-the-box payout table; admins adjust it
// through the commission config rows afterwards.
var defaultLevelPercents = map[int]string{
	1: "10.00",
	2: "5.00",
	3: "3.00",
	4: "2.00",
	5: "1.00",
	6: "0.50",
}

var defaultSettings = map[string]string{
	models.SettingWithdrawCommission: "5",
	models.SettingMaxWithdrawAmount:  "100000",
	models.SettingMinWithdrawAmount:  "100",
	models.SettingMaxPendingRequests: "2",
}

// Seed inserts the commission level table and the engine settings. Existing
// rows are left untouched so re-running the migrator never overwrites
// business-tuned values.
func Seed() {
	for level := 1; level <= models.MaxReferralDepth; level++ {
		percent, _ := decimal.NewFromString(defaultLevelPercents[level])
		cfg := models.CommissionConfig{
			Level:    level,
			Percent:  percent,
			IsActive: true,
		}
		if err := DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&cfg).Error; err != nil {
			zap.L().Error("failed to seed commission config", zap.Int("level", level), zap.Error(err))
		}
	}

	for key, value := range defaultSettings {
		setting := models.Setting{Key: key, Value: value}
		if err := DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			zap.L().Error("failed to seed setting", zap.String("key", key), zap.Error(err))
		}
	}

	zap.L().Info("seed data ensured")
}

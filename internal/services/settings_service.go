package services

import (
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"referral-commerce-service/internal/models"
)

// SettingsService reads business parameters from the settings table, falling
// back to the given default when a key is absent or unparseable.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

func (s *SettingsService) Decimal(key string, fallback decimal.Decimal) decimal.Decimal {
	var setting models.Setting
	if err := s.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	value, err := decimal.NewFromString(setting.Value)
	if err != nil {
		zap.L().Warn("unparseable decimal setting", zap.String("key", key), zap.String("value", setting.Value))
		return fallback
	}
	return value
}

func (s *SettingsService) Int(key string, fallback int) int {
	var setting models.Setting
	if err := s.DB.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	value, err := strconv.Atoi(setting.Value)
	if err != nil {
		zap.L().Warn("unparseable int setting", zap.String("key", key), zap.String("value", setting.Value))
		return fallback
	}
	return value
}

func (s *SettingsService) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return s.DB.Where("setting_key = ?", key).
		Assign(models.Setting{Value: value}).
		FirstOrCreate(&setting).Error
}

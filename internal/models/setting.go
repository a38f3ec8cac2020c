package models

import (
	"time"
)

// Setting keys consumed by the engine.
const (
	SettingWithdrawCommission = "withdraw_commission"
	SettingMaxWithdrawAmount  = "maximum_amount_per_withdraw"
	SettingMinWithdrawAmount  = "minimum_amount_per_withdraw"
	SettingMaxPendingRequests = "max_pending_withdrawals"
)

type Setting struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string    `gorm:"column:setting_key;size:100;not null;uniqueIndex" json:"key"`
	Value     string    `gorm:"column:setting_value;size:255;not null" json:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

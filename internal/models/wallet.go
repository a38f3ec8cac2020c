package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet keeps two counters per user: Balance is spendable, LockedBalance is
// reserved by a pending hold. Both stay >= 0 and change only through a
// ledger-logged mutation in the wallet service.
type Wallet struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId        int             `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	LockedBalance decimal.Decimal `gorm:"column:locked_balance;type:decimal(20,2);default:0.00" json:"locked_balance"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallets"
}

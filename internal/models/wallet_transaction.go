package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EntryCredit = "CREDIT"
	EntryDebit  = "DEBIT"
)

// Ledger entry statuses. PENDING marks a hold that has not been finalized;
// the only mutation ever applied to a ledger row is PENDING -> SUCCESS/FAILED.
const (
	TrxPending = "PENDING"
	TrxSuccess = "SUCCESS"
	TrxFailed  = "FAILED"
)

// Transaction purposes.
const (
	TrxTypeOrderPayment = "ORDER_PAYMENT"
	TrxTypeCommission   = "COMMISSION"
	TrxTypeWithdrawal   = "WITHDRAWAL"
	TrxTypeRecharge     = "RECHARGE"
	TrxTypeAdjustment   = "ADJUSTMENT"
)

// WalletTransaction is the append-only ledger. BalanceBefore/BalanceAfter
// snapshot the spendable balance around the mutation for the audit trail.
type WalletTransaction struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId       int             `gorm:"column:wallet_id;not null;index" json:"wallet_id"`
	UserId         int             `gorm:"column:user_id;not null;index" json:"user_id"`
	TransactionNo  string          `gorm:"column:transaction_no;size:40;not null;index" json:"transaction_no"`
	EntryType      string          `gorm:"column:entry_type;size:10;not null" json:"entry_type"`
	TrxType        string          `gorm:"column:transaction_type;size:40;not null" json:"transaction_type"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	BalanceBefore  decimal.Decimal `gorm:"column:balance_before;type:decimal(20,2);not null" json:"balance_before"`
	BalanceAfter   decimal.Decimal `gorm:"column:balance_after;type:decimal(20,2);not null" json:"balance_after"`
	Description    string          `gorm:"column:description;type:text" json:"description"`
	ReferenceTable string          `gorm:"column:reference_table;size:60" json:"reference_table"`
	ReferenceId    int             `gorm:"column:reference_id;default:0" json:"reference_id"`
	Status         string          `gorm:"column:status;size:10;default:PENDING" json:"status"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// ArchivedWalletTransaction mirrors the ledger schema; terminal rows past the
// retention window are moved here by the nightly archive job.
type ArchivedWalletTransaction struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	WalletId       int             `gorm:"column:wallet_id;not null;index" json:"wallet_id"`
	UserId         int             `gorm:"column:user_id;not null;index" json:"user_id"`
	TransactionNo  string          `gorm:"column:transaction_no;size:40;not null" json:"transaction_no"`
	EntryType      string          `gorm:"column:entry_type;size:10;not null" json:"entry_type"`
	TrxType        string          `gorm:"column:transaction_type;size:40;not null" json:"transaction_type"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	BalanceBefore  decimal.Decimal `gorm:"column:balance_before;type:decimal(20,2);not null" json:"balance_before"`
	BalanceAfter   decimal.Decimal `gorm:"column:balance_after;type:decimal(20,2);not null" json:"balance_after"`
	Description    string          `gorm:"column:description;type:text" json:"description"`
	ReferenceTable string          `gorm:"column:reference_table;size:60" json:"reference_table"`
	ReferenceId    int             `gorm:"column:reference_id;default:0" json:"reference_id"`
	Status         string          `gorm:"column:status;size:10" json:"status"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (ArchivedWalletTransaction) TableName() string {
	return "archived_wallet_transactions"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request review statuses shared by withdrawals and recharges.
const (
	RequestReviewPending = "REVIEW_PENDING"
	RequestApproved      = "APPROVED"
	RequestRejected      = "REJECTED"
)

// WithdrawalRequest wraps a wallet hold pending admin review. Bank details are
// snapshotted at creation so a later profile edit cannot change where an
// approved payout goes. TransactionId points at the PENDING ledger row.
type WithdrawalRequest struct {
	ID              int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId          int             `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	PlatformFee     decimal.Decimal `gorm:"column:platform_fee;type:decimal(20,2);not null" json:"platform_fee"`
	NetAmount       decimal.Decimal `gorm:"column:net_amount;type:decimal(20,2);not null" json:"net_amount"`
	HolderName      string          `gorm:"column:holder_name;size:150" json:"holder_name"`
	AccountNumber   string          `gorm:"column:account_number;size:50" json:"account_number"`
	IfscCode        string          `gorm:"column:ifsc_code;size:20" json:"ifsc_code"`
	BankName        string          `gorm:"column:bank_name;size:150" json:"bank_name"`
	Status          string          `gorm:"column:status;size:20;default:REVIEW_PENDING;index" json:"status"`
	TransactionId   int             `gorm:"column:transaction_id;default:0" json:"transaction_id"`
	PayoutReference string          `gorm:"column:payout_reference;size:40" json:"payout_reference"`
	Comment         string          `gorm:"column:comment;type:text" json:"comment"`
	ReviewedBy      string          `gorm:"column:reviewed_by;size:150" json:"reviewed_by"`
	ReviewedAt      *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}

// RechargeRequest wraps a pending wallet credit backed by a manual proof of
// payment. The ledger row is written only when an admin approves.
type RechargeRequest struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId         int             `gorm:"column:user_id;not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	PaymentMethod  string          `gorm:"column:payment_method;size:40" json:"payment_method"`
	ProofReference string          `gorm:"column:proof_reference;size:255" json:"proof_reference"`
	Status         string          `gorm:"column:status;size:20;default:REVIEW_PENDING;index" json:"status"`
	TransactionId  int             `gorm:"column:transaction_id;default:0" json:"transaction_id"`
	Comment        string          `gorm:"column:comment;type:text" json:"comment"`
	ReviewedBy     string          `gorm:"column:reviewed_by;size:150" json:"reviewed_by"`
	ReviewedAt     *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RechargeRequest) TableName() string {
	return "recharge_requests"
}

package models

import (
	"time"
)

// Activation status values. Signup alone does not make a user
// commission-eligible; the referral chain is built at activation.
const (
	UserUnactivated = "UNACTIVATED"
	UserActivated   = "ACTIVATED"
	UserSuspended   = "SUSPENDED"
)

type User struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string    `gorm:"column:name;size:255;not null" json:"name"`
	Phone            string    `gorm:"column:phone;size:20;uniqueIndex" json:"phone"`
	Email            string    `gorm:"column:email;size:255" json:"email"`
	PasswordHash     string    `gorm:"column:password_hash;size:255" json:"-"`
	ReferralCode     string    `gorm:"column:referral_code;size:20;uniqueIndex" json:"referral_code"`
	ReferredBy       *int      `gorm:"column:referred_by" json:"referred_by"` // set once at signup, immutable
	ActivationStatus string    `gorm:"column:activation_status;size:20;default:UNACTIVATED" json:"activation_status"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BankAccount holds the payout details a user must complete before any
// withdrawal request is accepted.
type BankAccount struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserId        int       `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	HolderName    string    `gorm:"column:holder_name;size:150" json:"holder_name"`
	AccountNumber string    `gorm:"column:account_number;size:50" json:"account_number"`
	IfscCode      string    `gorm:"column:ifsc_code;size:20" json:"ifsc_code"`
	BankName      string    `gorm:"column:bank_name;size:150" json:"bank_name"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Complete reports whether every payout field is filled in.
func (b BankAccount) Complete() bool {
	return b.HolderName != "" && b.AccountNumber != "" && b.IfscCode != "" && b.BankName != ""
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxReferralDepth bounds the ancestor index; no edge carries a level above it.
const MaxReferralDepth = 6

// ReferralTreeEdge maps a downline to one of its uplines with the distance
// between them. For a downline with immediate referrer U there is exactly one
// (U, downline, 1) edge and one edge per ancestor of U up to the depth bound.
type ReferralTreeEdge struct {
	ID         int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UplineId   int       `gorm:"column:upline_id;not null;uniqueIndex:idx_ref_upline_downline;index" json:"upline_id"`
	DownlineId int       `gorm:"column:downline_id;not null;uniqueIndex:idx_ref_upline_downline;index" json:"downline_id"`
	Level      int       `gorm:"column:level;not null" json:"level"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ReferralTreeEdge) TableName() string {
	return "referral_tree"
}

// CommissionConfig holds the payout percentage per level. Read-only during
// distribution; business controls the values, their sum is not bounded.
type CommissionConfig struct {
	ID        int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     int             `gorm:"column:level;not null;uniqueIndex" json:"level"`
	Percent   decimal.Decimal `gorm:"column:percent;type:decimal(5,2);not null" json:"percent"`
	IsActive  bool            `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionConfig) TableName() string {
	return "referral_commission_configs"
}

const (
	DistributionPending  = "PENDING"
	DistributionApproved = "APPROVED"
	DistributionReversed = "REVERSED"
)

// CommissionDistribution records that an upline earned an amount from a
// downline's order at a level. Percent is snapshotted at distribution time and
// never recomputed. Rows are never deleted; the only mutation is the status
// flip applied by admin approval or rejection.
type CommissionDistribution struct {
	ID         int             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderId    int             `gorm:"column:order_id;not null;uniqueIndex:idx_dist_order_upline_level" json:"order_id"`
	UplineId   int             `gorm:"column:upline_id;not null;uniqueIndex:idx_dist_order_upline_level;index" json:"upline_id"`
	DownlineId int             `gorm:"column:downline_id;not null;index" json:"downline_id"`
	Level      int             `gorm:"column:level;not null;uniqueIndex:idx_dist_order_upline_level" json:"level"`
	Percent    decimal.Decimal `gorm:"column:percent;type:decimal(5,2);not null" json:"percent"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Status     string          `gorm:"column:status;size:10;default:PENDING" json:"status"`
	ReviewedBy string          `gorm:"column:reviewed_by;size:150" json:"reviewed_by"`
	ReviewedAt *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CommissionDistribution) TableName() string {
	return "referral_commission_distributions"
}

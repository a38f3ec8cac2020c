package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentWallet = "WALLET"
	PaymentManual = "MANUAL"
)

const (
	OrderPurchase   = "PURCHASE"
	OrderActivation = "ACTIVATION"
)

const (
	OrderPendingPayment = "PENDING_PAYMENT"
	OrderPaid           = "PAID"
	OrderCancelled      = "CANCELLED"
)

// Product is the minimal catalog row an order needs: a priced subject and
// whether buying it activates the account. Catalog management lives elsewhere.
type Product struct {
	ID           int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"column:name;size:255;not null" json:"name"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(20,2);not null" json:"price"`
	IsActivation bool            `gorm:"column:is_activation;default:false" json:"is_activation"`
	IsActive     bool            `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type Order struct {
	ID             int             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo        string          `gorm:"column:order_no;size:40;not null;uniqueIndex" json:"order_no"`
	UserId         int             `gorm:"column:user_id;not null;index" json:"user_id"`
	ProductId      int             `gorm:"column:product_id;not null" json:"product_id"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	PaymentMethod  string          `gorm:"column:payment_method;size:10;not null" json:"payment_method"`
	OrderType      string          `gorm:"column:order_type;size:15;not null" json:"order_type"`
	Status         string          `gorm:"column:status;size:20;default:PENDING_PAYMENT;index" json:"status"`
	ProofReference string          `gorm:"column:proof_reference;size:255" json:"proof_reference"`
	PaidAt         *time.Time      `gorm:"column:paid_at" json:"paid_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderTrackingEvent is written in the same transaction as the order state
// change it records, so an order is never observable without its audit row.
type OrderTrackingEvent struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderId   int       `gorm:"column:order_id;not null;index" json:"order_id"`
	Event     string    `gorm:"column:event;size:60;not null" json:"event"`
	Detail    string    `gorm:"column:detail;type:text" json:"detail"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderTrackingEvent) TableName() string {
	return "order_tracking_events"
}

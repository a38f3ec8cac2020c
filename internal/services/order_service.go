package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

// Tracking events written alongside order state changes.
const (
	EventOrderCreated    = "ORDER_CREATED"
	EventProofSubmitted  = "PROOF_SUBMITTED"
	EventPaymentCaptured = "PAYMENT_CAPTURED"
	EventOrderCancelled  = "ORDER_CANCELLED"
)

// OrderService ties a purchase or activation to payment capture, referral
// linking and commission distribution. Every state change and its tracking
// event commit in one transaction.
type OrderService struct {
	DB         *gorm.DB
	Wallet     *WalletService
	Referral   *ReferralService
	Commission *CommissionService
}

func NewOrderService(db *gorm.DB, wallet *WalletService, referral *ReferralService, commission *CommissionService) *OrderService {
	return &OrderService{DB: db, Wallet: wallet, Referral: referral, Commission: commission}
}

type PlaceOrderDTO struct {
	UserId         int
	ProductId      int
	PaymentMethod  string // models.PaymentWallet | models.PaymentManual
	ProofReference string // required for MANUAL
}

// PlaceOrder creates the order and branches on payment method. WALLET captures
// immediately: a terminal debit, activation handling and commission fan-out in
// one transaction, so a crash between order-paid and commission-distributed is
// impossible. MANUAL records the proof and defers capture to admin approval.
func (s *OrderService) PlaceOrder(data PlaceOrderDTO) (*models.Order, error) {
	var user models.User
	if err := s.DB.First(&user, data.UserId).Error; err != nil {
		return nil, &common.NotFoundError{Entity: "user", ID: data.UserId}
	}

	var product models.Product
	if err := s.DB.Where("id = ? AND is_active = ?", data.ProductId, true).First(&product).Error; err != nil {
		return nil, &common.NotFoundError{Entity: "product", ID: data.ProductId}
	}

	orderType := models.OrderPurchase
	if product.IsActivation {
		orderType = models.OrderActivation
	}

	order := models.Order{
		OrderNo:       common.NewOrderNo(),
		UserId:        user.ID,
		ProductId:     product.ID,
		Amount:        product.Price,
		PaymentMethod: data.PaymentMethod,
		OrderType:     orderType,
	}

	switch data.PaymentMethod {
	case models.PaymentWallet:
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			order.Status = models.OrderPaid
			order.PaidAt = &now
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			if err := s.trackTx(tx, order.ID, EventOrderCreated, "order placed with wallet payment"); err != nil {
				return err
			}

			if _, err := s.Wallet.MutateBalanceTx(tx, MutationParams{
				UserId:         user.ID,
				Amount:         order.Amount,
				EntryType:      models.EntryDebit,
				TrxType:        models.TrxTypeOrderPayment,
				Description:    fmt.Sprintf("Payment for order %s", order.OrderNo),
				ReferenceTable: models.Order{}.TableName(),
				ReferenceId:    order.ID,
				Status:         models.TrxSuccess,
			}); err != nil {
				return err
			}

			return s.captureTx(tx, &order, &user)
		})
		if err != nil {
			return nil, err
		}

	case models.PaymentManual:
		if data.ProofReference == "" {
			return nil, common.NewValidationError("proof of payment is required for manual orders")
		}
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			order.Status = models.OrderPendingPayment
			order.ProofReference = data.ProofReference
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			if err := s.trackTx(tx, order.ID, EventOrderCreated, "order placed, awaiting payment review"); err != nil {
				return err
			}
			return s.trackTx(tx, order.ID, EventProofSubmitted, data.ProofReference)
		})
		if err != nil {
			return nil, err
		}

	default:
		return nil, common.NewValidationError("unknown payment method %q", data.PaymentMethod)
	}

	zap.L().Info("order placed",
		zap.String("order_no", order.OrderNo),
		zap.Int("user_id", user.ID),
		zap.String("payment_method", data.PaymentMethod),
		zap.String("status", order.Status))
	return &order, nil
}

// ApproveManualOrder captures a manually paid order at approval time: the
// order flips to PAID and the same linking/distribution as a wallet capture
// runs, all in one transaction guarded against double approval.
func (s *OrderService) ApproveManualOrder(orderId int, reviewer string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderId).Error; err != nil {
			return &common.NotFoundError{Entity: "order", ID: orderId}
		}
		if order.Status != models.OrderPendingPayment {
			return &common.AlreadyProcessedError{Entity: "order", ID: order.ID, Status: order.Status}
		}

		var user models.User
		if err := tx.First(&user, order.UserId).Error; err != nil {
			return &common.NotFoundError{Entity: "user", ID: order.UserId}
		}

		now := time.Now()
		order.Status = models.OrderPaid
		order.PaidAt = &now
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"status": order.Status, "paid_at": now}).Error; err != nil {
			return err
		}
		if err := s.trackTx(tx, order.ID, EventPaymentCaptured, "manual payment approved by "+reviewer); err != nil {
			return err
		}

		return s.captureTx(tx, &order, &user)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels an order that has not been paid.
func (s *OrderService) CancelOrder(orderId int, reason string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, orderId).Error; err != nil {
			return &common.NotFoundError{Entity: "order", ID: orderId}
		}
		if order.Status != models.OrderPendingPayment {
			return &common.AlreadyProcessedError{Entity: "order", ID: order.ID, Status: order.Status}
		}

		order.Status = models.OrderCancelled
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", order.Status).Error; err != nil {
			return err
		}
		return s.trackTx(tx, order.ID, EventOrderCancelled, reason)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// captureTx runs the post-payment effects: activation orders activate the
// account and insert the buyer into the referral tree, then commissions fan
// out to whatever ancestors the buyer has.
func (s *OrderService) captureTx(tx *gorm.DB, order *models.Order, user *models.User) error {
	if order.OrderType == models.OrderActivation {
		if user.ActivationStatus != models.UserActivated {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
				Update("activation_status", models.UserActivated).Error; err != nil {
				return err
			}
		}
		if user.ReferredBy != nil {
			if err := s.Referral.LinkReferralTx(tx, *user.ReferredBy, user.ID); err != nil {
				return err
			}
		}
	}

	return s.Commission.DistributeTx(tx, order.ID, user.ID, order.Amount)
}

func (s *OrderService) trackTx(tx *gorm.DB, orderId int, event, detail string) error {
	return tx.Create(&models.OrderTrackingEvent{
		OrderId: orderId,
		Event:   event,
		Detail:  detail,
	}).Error
}

// GetOrder returns an order with its tracking trail.
func (s *OrderService) GetOrder(orderId int) (*models.Order, []models.OrderTrackingEvent, error) {
	var order models.Order
	if err := s.DB.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &common.NotFoundError{Entity: "order", ID: orderId}
		}
		return nil, nil, err
	}

	var events []models.OrderTrackingEvent
	if err := s.DB.Where("order_id = ?", orderId).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, nil, err
	}
	return &order, events, nil
}

type ListOrdersDTO struct {
	UserId int
	Status string
	Page   int
	Limit  int
}

func (s *OrderService) List(data ListOrdersDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 50)

	query := s.DB.Model(&models.Order{})
	if data.UserId != 0 {
		query = query.Where("user_id = ?", data.UserId)
	}
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(orders, total, page, limit, "Orders fetched"), nil
}

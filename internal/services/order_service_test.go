package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

func newOrderFixture() (*WalletService, *ReferralService, *OrderService) {
	wallet := NewWalletService(testDB)
	referral := NewReferralService(testDB)
	commission := NewCommissionService(testDB, wallet, nil)
	return wallet, referral, NewOrderService(testDB, wallet, referral, commission)
}

func createTestProduct(t *testing.T, name, price string, isActivation bool) *models.Product {
	t.Helper()
	product := models.Product{
		Name:         name,
		Price:        dec(price),
		IsActivation: isActivation,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(&product).Error)
	return &product
}

// A wallet payment on an activation product must, in one shot: debit the
// buyer, mark the order PAID, activate the account, insert the tree edge and
// fan out the commission rows.
func TestPlaceWalletActivationOrder(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, _, svc := newOrderFixture()
	seedCommissionConfigs(t, map[int]string{1: "10.00"})

	referrer := createTestUser(t, "referrer", models.UserActivated, nil)
	buyer := createTestUser(t, "buyer", models.UserUnactivated, &referrer.ID)
	fundWallet(t, wallet, buyer.ID, "1000.00")

	product := createTestProduct(t, "starter pack", "500.00", true)

	order, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:        buyer.ID,
		ProductId:     product.ID,
		PaymentMethod: models.PaymentWallet,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.Equal(t, models.OrderActivation, order.OrderType)
	require.NotNil(t, order.PaidAt)

	w, _ := wallet.GetWallet(buyer.ID)
	assert.True(t, w.Balance.Equal(dec("500.00")))

	var refreshed models.User
	require.NoError(t, testDB.First(&refreshed, buyer.ID).Error)
	assert.Equal(t, models.UserActivated, refreshed.ActivationStatus)

	var edge models.ReferralTreeEdge
	require.NoError(t, testDB.Where("downline_id = ? AND level = 1", buyer.ID).First(&edge).Error)
	assert.Equal(t, referrer.ID, edge.UplineId)

	var dist models.CommissionDistribution
	require.NoError(t, testDB.Where("order_id = ?", order.ID).First(&dist).Error)
	assert.Equal(t, referrer.ID, dist.UplineId)
	assert.True(t, dist.Amount.Equal(dec("50.00")))
	assert.Equal(t, models.DistributionPending, dist.Status)

	var events []models.OrderTrackingEvent
	require.NoError(t, testDB.Where("order_id = ?", order.ID).Find(&events).Error)
	assert.NotEmpty(t, events)
}

func TestPlaceWalletOrderInsufficientBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, _, svc := newOrderFixture()
	buyer := createTestUser(t, "buyer", models.UserActivated, nil)
	fundWallet(t, wallet, buyer.ID, "100.00")
	product := createTestProduct(t, "pricey", "500.00", false)

	_, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:        buyer.ID,
		ProductId:     product.ID,
		PaymentMethod: models.PaymentWallet,
	})
	var ibe *common.InsufficientBalanceError
	require.ErrorAs(t, err, &ibe)

	// The whole transaction rolled back: no order, no tracking events.
	var count int64
	testDB.Model(&models.Order{}).Where("user_id = ?", buyer.ID).Count(&count)
	assert.Equal(t, int64(0), count)
	testDB.Model(&models.OrderTrackingEvent{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestManualOrderDeferredCapture(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, referral, svc := newOrderFixture()
	seedCommissionConfigs(t, map[int]string{1: "10.00"})

	referrer := createTestUser(t, "referrer", models.UserActivated, nil)
	buyer := createTestUser(t, "buyer", models.UserActivated, nil)
	require.NoError(t, referral.LinkReferral(referrer.ID, buyer.ID))
	product := createTestProduct(t, "bundle", "800.00", false)

	// Proof is mandatory for manual payment.
	_, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:        buyer.ID,
		ProductId:     product.ID,
		PaymentMethod: models.PaymentManual,
	})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)

	order, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:         buyer.ID,
		ProductId:      product.ID,
		PaymentMethod:  models.PaymentManual,
		ProofReference: "UTR-12345",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPendingPayment, order.Status)
	assert.Nil(t, order.PaidAt)

	// No wallet movement and no commission before approval.
	w, _ := wallet.GetWallet(buyer.ID)
	assert.True(t, w.Balance.IsZero())
	var count int64
	testDB.Model(&models.CommissionDistribution{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	approved, err := svc.ApproveManualOrder(order.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, approved.Status)
	require.NotNil(t, approved.PaidAt)

	// Manual money never transits the wallet; only the commission appears.
	w, _ = wallet.GetWallet(buyer.ID)
	assert.True(t, w.Balance.IsZero())

	var dist models.CommissionDistribution
	require.NoError(t, testDB.Where("order_id = ?", order.ID).First(&dist).Error)
	assert.Equal(t, referrer.ID, dist.UplineId)
	assert.True(t, dist.Amount.Equal(dec("80.00")))

	// Approving twice is a conflict and must not re-distribute.
	_, err = svc.ApproveManualOrder(order.ID, "admin")
	var ape *common.AlreadyProcessedError
	require.ErrorAs(t, err, &ape)
	testDB.Model(&models.CommissionDistribution{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCancelOrder(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, svc := newOrderFixture()
	buyer := createTestUser(t, "buyer", models.UserActivated, nil)
	product := createTestProduct(t, "bundle", "800.00", false)

	order, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:         buyer.ID,
		ProductId:      product.ID,
		PaymentMethod:  models.PaymentManual,
		ProofReference: "UTR-99",
	})
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(order.ID, "customer changed their mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// A cancelled order cannot be approved afterwards.
	_, err = svc.ApproveManualOrder(order.ID, "admin")
	var ape *common.AlreadyProcessedError
	require.ErrorAs(t, err, &ape)
}

func TestPlaceOrderUnknownPaymentMethod(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, svc := newOrderFixture()
	buyer := createTestUser(t, "buyer", models.UserActivated, nil)
	product := createTestProduct(t, "bundle", "800.00", false)

	_, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:        buyer.ID,
		ProductId:     product.ID,
		PaymentMethod: "CRYPTO",
	})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestOrderTrackingTrail(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	_, _, svc := newOrderFixture()
	buyer := createTestUser(t, "buyer", models.UserActivated, nil)
	product := createTestProduct(t, "bundle", "800.00", false)

	order, err := svc.PlaceOrder(PlaceOrderDTO{
		UserId:         buyer.ID,
		ProductId:      product.ID,
		PaymentMethod:  models.PaymentManual,
		ProofReference: "UTR-55",
	})
	require.NoError(t, err)

	_, err = svc.ApproveManualOrder(order.ID, "admin")
	require.NoError(t, err)

	_, events, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, EventOrderCreated, events[0].Event)
	assert.Equal(t, EventProofSubmitted, events[1].Event)
	assert.Equal(t, EventPaymentCaptured, events[2].Event)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

func TestComputeWithdrawalFee(t *testing.T) {
	fee, net := ComputeWithdrawalFee(dec("1000.00"), dec("5"))
	assert.True(t, fee.Equal(dec("50.00")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("950.00")), "net = %s", net)

	fee, net = ComputeWithdrawalFee(dec("333.33"), dec("5"))
	assert.True(t, fee.Equal(dec("16.67")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("316.66")), "net = %s", net)

	fee, net = ComputeWithdrawalFee(dec("100.00"), dec("0"))
	assert.True(t, fee.IsZero())
	assert.True(t, net.Equal(dec("100.00")))
}

func saveTestBank(t *testing.T, userId int) {
	t.Helper()
	require.NoError(t, testDB.Create(&models.BankAccount{
		UserId:        userId,
		HolderName:    "Test Holder",
		AccountNumber: "1234567890",
		IfscCode:      "TEST0001",
		BankName:      "Test Bank",
	}).Error)
}

func newWithdrawalFixture() (*WalletService, *WithdrawalService) {
	wallet := NewWalletService(testDB)
	settings := NewSettingsService(testDB)
	return wallet, NewWithdrawalService(testDB, wallet, settings, nil)
}

func TestCreateRequestPreconditions(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()

	var ve *common.ValidationError

	// Unactivated account.
	unactivated := createTestUser(t, "newbie", models.UserUnactivated, nil)
	_, err := svc.CreateRequest(unactivated.ID, dec("200.00"))
	require.ErrorAs(t, err, &ve)

	// Activated but no bank details.
	user := createTestUser(t, "payee", models.UserActivated, nil)
	fundWallet(t, wallet, user.ID, "1000.00")
	_, err = svc.CreateRequest(user.ID, dec("200.00"))
	require.ErrorAs(t, err, &ve)

	saveTestBank(t, user.ID)

	// Below the minimum.
	_, err = svc.CreateRequest(user.ID, dec("50.00"))
	require.ErrorAs(t, err, &ve)

	// Above the maximum.
	_, err = svc.CreateRequest(user.ID, dec("200000.00"))
	require.ErrorAs(t, err, &ve)

	// A failed request leaves no hold behind.
	w, _ := wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("1000.00")))
	assert.True(t, w.LockedBalance.IsZero())
}

func TestCreateRequestInsufficientBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()
	user := createTestUser(t, "payee", models.UserActivated, nil)
	saveTestBank(t, user.ID)
	fundWallet(t, wallet, user.ID, "100.00")

	_, err := svc.CreateRequest(user.ID, dec("200.00"))
	var ibe *common.InsufficientBalanceError
	require.ErrorAs(t, err, &ibe)

	// The request row must have rolled back with the hold.
	var count int64
	testDB.Model(&models.WithdrawalRequest{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestWithdrawalApproveLifecycle(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()
	user := createTestUser(t, "payee", models.UserActivated, nil)
	saveTestBank(t, user.ID)
	fundWallet(t, wallet, user.ID, "1000.00")

	request, err := svc.CreateRequest(user.ID, dec("500.00"))
	require.NoError(t, err)
	assert.Equal(t, models.RequestReviewPending, request.Status)
	assert.True(t, request.PlatformFee.Equal(dec("25.00")))
	assert.True(t, request.NetAmount.Equal(dec("475.00")))
	assert.Equal(t, "Test Holder", request.HolderName)
	require.NotZero(t, request.TransactionId)

	w, _ := wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("500.00")))
	assert.True(t, w.LockedBalance.Equal(dec("500.00")))

	approved, err := svc.Approve(request.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.NotEmpty(t, approved.PayoutReference)

	w, _ = wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("500.00")))
	assert.True(t, w.LockedBalance.IsZero())

	var entry models.WalletTransaction
	require.NoError(t, testDB.First(&entry, request.TransactionId).Error)
	assert.Equal(t, models.TrxSuccess, entry.Status)

	// Double approval is a conflict, not a second payout.
	_, err = svc.Approve(request.ID, "admin")
	var ape *common.AlreadyProcessedError
	require.ErrorAs(t, err, &ape)
}

func TestWithdrawalRejectRestoresBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()
	user := createTestUser(t, "payee", models.UserActivated, nil)
	saveTestBank(t, user.ID)
	fundWallet(t, wallet, user.ID, "1000.00")

	request, err := svc.CreateRequest(user.ID, dec("500.00"))
	require.NoError(t, err)

	rejected, err := svc.Reject(request.ID, "admin", "suspicious activity")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.Equal(t, "suspicious activity", rejected.Comment)

	w, _ := wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("1000.00")))
	assert.True(t, w.LockedBalance.IsZero())

	var entry models.WalletTransaction
	require.NoError(t, testDB.First(&entry, request.TransactionId).Error)
	assert.Equal(t, models.TrxFailed, entry.Status)
}

func TestWithdrawalPendingCap(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()
	user := createTestUser(t, "payee", models.UserActivated, nil)
	saveTestBank(t, user.ID)
	fundWallet(t, wallet, user.ID, "10000.00")

	_, err := svc.CreateRequest(user.ID, dec("200.00"))
	require.NoError(t, err)
	_, err = svc.CreateRequest(user.ID, dec("300.00"))
	require.NoError(t, err)

	_, err = svc.CreateRequest(user.ID, dec("400.00"))
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)

	// Settling one request frees a slot.
	var first models.WithdrawalRequest
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Order("id ASC").First(&first).Error)
	_, err = svc.Reject(first.ID, "admin", "freeing slot")
	require.NoError(t, err)

	_, err = svc.CreateRequest(user.ID, dec("400.00"))
	require.NoError(t, err)
}

func TestWithdrawalCapFromSettings(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet, svc := newWithdrawalFixture()
	require.NoError(t, svc.Settings.Set(models.SettingMaxPendingRequests, "1"))
	require.NoError(t, svc.Settings.Set(models.SettingWithdrawCommission, "10"))

	user := createTestUser(t, "payee", models.UserActivated, nil)
	saveTestBank(t, user.ID)
	fundWallet(t, wallet, user.ID, "10000.00")

	request, err := svc.CreateRequest(user.ID, dec("200.00"))
	require.NoError(t, err)
	assert.True(t, request.PlatformFee.Equal(dec("20.00")))

	_, err = svc.CreateRequest(user.ID, dec("200.00"))
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

func TestRechargeLifecycle(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	svc := NewRechargeService(testDB, wallet, nil)
	user := createTestUser(t, "topper", models.UserActivated, nil)

	request, err := svc.CreateRequest(user.ID, dec("750.00"), "UPI", "UTR-777")
	require.NoError(t, err)
	assert.Equal(t, models.RequestReviewPending, request.Status)

	// Creation is wallet-neutral.
	w, _ := wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.IsZero())

	approved, err := svc.Approve(request.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	require.NotZero(t, approved.TransactionId)

	w, _ = wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("750.00")))

	var entry models.WalletTransaction
	require.NoError(t, testDB.First(&entry, approved.TransactionId).Error)
	assert.Equal(t, models.EntryCredit, entry.EntryType)
	assert.Equal(t, models.TrxSuccess, entry.Status)
	assert.Equal(t, models.TrxTypeRecharge, entry.TrxType)

	// Approving twice must not double-credit.
	_, err = svc.Approve(request.ID, "admin")
	var ape *common.AlreadyProcessedError
	require.ErrorAs(t, err, &ape)

	w, _ = wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.Equal(dec("750.00")))
}

func TestRechargeValidation(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	svc := NewRechargeService(testDB, wallet, nil)
	user := createTestUser(t, "topper", models.UserActivated, nil)

	var ve *common.ValidationError

	_, err := svc.CreateRequest(user.ID, dec("0"), "UPI", "UTR-1")
	require.ErrorAs(t, err, &ve)

	_, err = svc.CreateRequest(user.ID, dec("100.00"), "UPI", "")
	require.ErrorAs(t, err, &ve)

	var ne *common.NotFoundError
	_, err = svc.CreateRequest(999999, dec("100.00"), "UPI", "UTR-2")
	require.ErrorAs(t, err, &ne)
}

func TestRechargeReject(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	wallet := NewWalletService(testDB)
	svc := NewRechargeService(testDB, wallet, nil)
	user := createTestUser(t, "topper", models.UserActivated, nil)

	request, err := svc.CreateRequest(user.ID, dec("750.00"), "UPI", "UTR-778")
	require.NoError(t, err)

	rejected, err := svc.Reject(request.ID, "admin", "proof unreadable")
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)

	w, _ := wallet.GetWallet(user.ID)
	assert.True(t, w.Balance.IsZero())
}

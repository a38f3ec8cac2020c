package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

func TestRegisterIssuesReferralCode(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewUserService(testDB)

	user, err := svc.Register(RegisterUserDTO{Name: "Asha", Phone: "9000000001"})
	require.NoError(t, err)
	assert.Len(t, user.ReferralCode, 8)
	assert.Equal(t, models.UserUnactivated, user.ActivationStatus)
	assert.Nil(t, user.ReferredBy)
}

func TestRegisterWithReferralCode(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewUserService(testDB)

	referrer, err := svc.Register(RegisterUserDTO{Name: "Asha", Phone: "9000000001"})
	require.NoError(t, err)

	referred, err := svc.Register(RegisterUserDTO{
		Name:         "Binod",
		Phone:        "9000000002",
		ReferralCode: referrer.ReferralCode,
	})
	require.NoError(t, err)
	require.NotNil(t, referred.ReferredBy)
	assert.Equal(t, referrer.ID, *referred.ReferredBy)

	// Signup alone creates no tree edge; that happens at activation.
	var count int64
	testDB.Model(&models.ReferralTreeEdge{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Unknown codes are refused, not silently ignored.
	_, err = svc.Register(RegisterUserDTO{
		Name:         "Chitra",
		Phone:        "9000000003",
		ReferralCode: "NOSUCHCD",
	})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSaveBankAccountUpsert(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	svc := NewUserService(testDB)
	user := createTestUser(t, "saver", models.UserActivated, nil)

	_, err := svc.SaveBankAccount(SaveBankAccountDTO{UserId: user.ID, HolderName: "Only Name"})
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)

	account, err := svc.SaveBankAccount(SaveBankAccountDTO{
		UserId:        user.ID,
		HolderName:    "Saver S",
		AccountNumber: "111",
		IfscCode:      "AAA0001",
		BankName:      "First Bank",
	})
	require.NoError(t, err)
	assert.True(t, account.Complete())

	updated, err := svc.SaveBankAccount(SaveBankAccountDTO{
		UserId:        user.ID,
		HolderName:    "Saver S",
		AccountNumber: "222",
		IfscCode:      "AAA0001",
		BankName:      "Second Bank",
	})
	require.NoError(t, err)
	assert.Equal(t, account.ID, updated.ID)

	var count int64
	testDB.Model(&models.BankAccount{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

package services

import (
	"errors"

	"gorm.io/gorm"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

// UserService covers the slice of account handling the engine depends on:
// signup with a one-time referral attribution and bank-detail upkeep.
// Authentication and the rest of the profile live in the identity service.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type RegisterUserDTO struct {
	Name         string
	Phone        string
	Email        string
	PasswordHash string
	ReferralCode string // optional code of the referrer
}

// Register creates a user with a fresh shareable referral code. ReferredBy is
// resolved from the submitted code and set exactly once; no tree edge is
// created here, that happens when the user activates.
func (s *UserService) Register(data RegisterUserDTO) (*models.User, error) {
	if data.Name == "" || data.Phone == "" {
		return nil, common.NewValidationError("name and phone are required")
	}

	user := models.User{
		Name:             data.Name,
		Phone:            data.Phone,
		Email:            data.Email,
		PasswordHash:     data.PasswordHash,
		ReferralCode:     common.GenerateReferralCode(),
		ActivationStatus: models.UserUnactivated,
	}

	if data.ReferralCode != "" {
		var referrer models.User
		err := s.DB.Where("referral_code = ?", data.ReferralCode).First(&referrer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewValidationError("unknown referral code %q", data.ReferralCode)
		}
		if err != nil {
			return nil, err
		}
		user.ReferredBy = &referrer.ID
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Get(userId int) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.NotFoundError{Entity: "user", ID: userId}
		}
		return nil, err
	}
	return &user, nil
}

type SaveBankAccountDTO struct {
	UserId        int
	HolderName    string
	AccountNumber string
	IfscCode      string
	BankName      string
}

// SaveBankAccount upserts the single payout account per user.
func (s *UserService) SaveBankAccount(data SaveBankAccountDTO) (*models.BankAccount, error) {
	if data.HolderName == "" || data.AccountNumber == "" || data.IfscCode == "" || data.BankName == "" {
		return nil, common.NewValidationError("all bank account fields are required")
	}

	account := models.BankAccount{UserId: data.UserId}
	err := s.DB.Where("user_id = ?", data.UserId).
		Assign(models.BankAccount{
			HolderName:    data.HolderName,
			AccountNumber: data.AccountNumber,
			IfscCode:      data.IfscCode,
			BankName:      data.BankName,
		}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

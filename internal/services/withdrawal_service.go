package services

import (
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/internal/worker"
	"referral-commerce-service/pkg/common"
)

// WithdrawalService orchestrates the hold/review/settle cycle around the
// wallet primitives. Every precondition is checked before the hold, so a
// failed request leaves no partial state.
type WithdrawalService struct {
	DB       *gorm.DB
	Wallet   *WalletService
	Settings *SettingsService
	Queue    *asynq.Client
}

func NewWithdrawalService(db *gorm.DB, wallet *WalletService, settings *SettingsService, queue *asynq.Client) *WithdrawalService {
	return &WithdrawalService{DB: db, Wallet: wallet, Settings: settings, Queue: queue}
}

// Fallbacks when the settings table carries no value.
var (
	defaultWithdrawCommission = decimal.NewFromInt(5)
	defaultMaxWithdrawAmount  = decimal.NewFromInt(100000)
	defaultMinWithdrawAmount  = decimal.NewFromInt(100)
)

const defaultMaxPendingRequests = 2

// ComputeWithdrawalFee returns (platformFee, netAmount) for a request.
func ComputeWithdrawalFee(amount, commissionPercent decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	fee := amount.Mul(commissionPercent).Div(oneHundred).Round(2)
	return fee, amount.Sub(fee)
}

// CreateRequest validates, persists the request row and places the hold, all
// in one transaction. Precondition order: account activated, pending-request
// cap, bank details complete, amount within limits. The insufficient-balance
// check happens inside the locked hold; its failure rolls the request row back
// too.
func (s *WithdrawalService) CreateRequest(userId int, amount decimal.Decimal) (*models.WithdrawalRequest, error) {
	var user models.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		return nil, &common.NotFoundError{Entity: "user", ID: userId}
	}
	if user.ActivationStatus != models.UserActivated {
		return nil, common.NewValidationError("account is not activated")
	}

	maxPending := s.Settings.Int(models.SettingMaxPendingRequests, defaultMaxPendingRequests)
	var pending int64
	if err := s.DB.Model(&models.WithdrawalRequest{}).
		Where("user_id = ? AND status = ?", userId, models.RequestReviewPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending >= int64(maxPending) {
		return nil, common.NewValidationError("you already have %d pending withdrawal requests", pending)
	}

	var bank models.BankAccount
	if err := s.DB.Where("user_id = ?", userId).First(&bank).Error; err != nil || !bank.Complete() {
		return nil, common.NewValidationError("bank details are missing or incomplete")
	}

	minAmount := s.Settings.Decimal(models.SettingMinWithdrawAmount, defaultMinWithdrawAmount)
	maxAmount := s.Settings.Decimal(models.SettingMaxWithdrawAmount, defaultMaxWithdrawAmount)
	if amount.LessThan(minAmount) {
		return nil, common.NewValidationError("minimum withdrawable amount is %s", minAmount.StringFixed(2))
	}
	if amount.GreaterThan(maxAmount) {
		return nil, common.NewValidationError("maximum withdrawable amount is %s", maxAmount.StringFixed(2))
	}

	commission := s.Settings.Decimal(models.SettingWithdrawCommission, defaultWithdrawCommission)
	fee, net := ComputeWithdrawalFee(amount, commission)

	request := models.WithdrawalRequest{
		UserId:        userId,
		Amount:        amount,
		PlatformFee:   fee,
		NetAmount:     net,
		HolderName:    bank.HolderName,
		AccountNumber: bank.AccountNumber,
		IfscCode:      bank.IfscCode,
		BankName:      bank.BankName,
		Status:        models.RequestReviewPending,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
		entry, err := s.Wallet.HoldBalanceTx(tx, userId, amount, models.TrxTypeWithdrawal,
			"Withdrawal request hold", models.WithdrawalRequest{}.TableName(), request.ID)
		if err != nil {
			return err
		}
		request.TransactionId = entry.ID
		return tx.Model(&models.WithdrawalRequest{}).Where("id = ?", request.ID).
			Update("transaction_id", entry.ID).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("withdrawal requested",
		zap.Int("user_id", userId),
		zap.Int("request_id", request.ID),
		zap.String("amount", amount.StringFixed(2)))
	return &request, nil
}

// Approve releases the hold (funds leave the wallet), flips the ledger row to
// SUCCESS and the request to APPROVED. A FOR UPDATE read plus the status check
// makes concurrent admin double-clicks safe. The payout instruction is
// enqueued only after the transaction commits.
func (s *WithdrawalService) Approve(requestId int, reviewer string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestId).Error; err != nil {
			return &common.NotFoundError{Entity: "withdrawal request", ID: requestId}
		}
		if request.Status != models.RequestReviewPending {
			return &common.AlreadyProcessedError{Entity: "withdrawal request", ID: request.ID, Status: request.Status}
		}

		if err := s.Wallet.ReleaseHeldBalanceTx(tx, request.UserId, request.Amount, request.TransactionId); err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.RequestApproved
		request.PayoutReference = common.NewPayoutReference()
		request.ReviewedBy = reviewer
		request.ReviewedAt = &now
		return tx.Model(&models.WithdrawalRequest{}).Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":           request.Status,
				"payout_reference": request.PayoutReference,
				"reviewed_by":      reviewer,
				"reviewed_at":      now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.enqueuePayout(&request)
	return &request, nil
}

// Reject returns the held funds to the spendable balance, flips the ledger
// row to FAILED and the request to REJECTED.
func (s *WithdrawalService) Reject(requestId int, reviewer, comment string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestId).Error; err != nil {
			return &common.NotFoundError{Entity: "withdrawal request", ID: requestId}
		}
		if request.Status != models.RequestReviewPending {
			return &common.AlreadyProcessedError{Entity: "withdrawal request", ID: request.ID, Status: request.Status}
		}

		if err := s.Wallet.RollbackHeldBalanceTx(tx, request.UserId, request.Amount, request.TransactionId); err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.RequestRejected
		request.Comment = comment
		request.ReviewedBy = reviewer
		request.ReviewedAt = &now
		return tx.Model(&models.WithdrawalRequest{}).Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":      request.Status,
				"comment":     comment,
				"reviewed_by": reviewer,
				"reviewed_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *WithdrawalService) enqueuePayout(request *models.WithdrawalRequest) {
	if s.Queue == nil {
		return
	}
	task, err := worker.NewWithdrawalPayoutTask(worker.WithdrawalPayoutDTO{
		RequestId:       request.ID,
		UserId:          request.UserId,
		NetAmount:       request.NetAmount.StringFixed(2),
		PayoutReference: request.PayoutReference,
		HolderName:      request.HolderName,
		AccountNumber:   request.AccountNumber,
		IfscCode:        request.IfscCode,
		BankName:        request.BankName,
	})
	if err != nil {
		zap.L().Error("failed to build payout task", zap.Int("request_id", request.ID), zap.Error(err))
		return
	}
	if _, err := s.Queue.Enqueue(task, asynq.Queue("critical")); err != nil {
		// The request is already approved and settled; delivery is retried by
		// the operator, never by re-running the approval.
		zap.L().Error("failed to enqueue payout task", zap.Int("request_id", request.ID), zap.Error(err))
	}
}

type ListWithdrawalsDTO struct {
	UserId int
	Status string
	From   string
	To     string
	Page   int
	Limit  int
}

func (s *WithdrawalService) List(data ListWithdrawalsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 50)

	query := s.DB.Model(&models.WithdrawalRequest{})
	if data.UserId != 0 {
		query = query.Where("user_id = ?", data.UserId)
	}
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}
	if data.From != "" && data.To != "" {
		query = query.Where("created_at BETWEEN ? AND ?", data.From, data.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var requests []models.WithdrawalRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(requests, total, page, limit, "Withdrawal requests fetched"), nil
}

// Get returns one request or NotFoundError.
func (s *WithdrawalService) Get(requestId int) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	if err := s.DB.First(&request, requestId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.NotFoundError{Entity: "withdrawal request", ID: requestId}
		}
		return nil, err
	}
	return &request, nil
}

package services

import (
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

// RechargeService handles manual-proof top-ups. Creation touches no wallet
// state; the credit happens in the same transaction as the approval.
type RechargeService struct {
	DB     *gorm.DB
	Wallet *WalletService
	Queue  *asynq.Client
}

func NewRechargeService(db *gorm.DB, wallet *WalletService, queue *asynq.Client) *RechargeService {
	return &RechargeService{DB: db, Wallet: wallet, Queue: queue}
}

func (s *RechargeService) CreateRequest(userId int, amount decimal.Decimal, paymentMethod, proofReference string) (*models.RechargeRequest, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, common.NewValidationError("recharge amount must be positive")
	}
	if proofReference == "" {
		return nil, common.NewValidationError("proof of payment is required")
	}

	var user models.User
	if err := s.DB.First(&user, userId).Error; err != nil {
		return nil, &common.NotFoundError{Entity: "user", ID: userId}
	}

	request := models.RechargeRequest{
		UserId:         userId,
		Amount:         amount,
		PaymentMethod:  paymentMethod,
		ProofReference: proofReference,
		Status:         models.RequestReviewPending,
	}
	if err := s.DB.Create(&request).Error; err != nil {
		return nil, err
	}

	zap.L().Info("recharge requested",
		zap.Int("user_id", userId),
		zap.Int("request_id", request.ID),
		zap.String("amount", amount.StringFixed(2)))
	return &request, nil
}

// Approve credits the wallet and flips the request in one transaction; the
// status guard under FOR UPDATE keeps a double approval from double-crediting.
func (s *RechargeService) Approve(requestId int, reviewer string) (*models.RechargeRequest, error) {
	var request models.RechargeRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestId).Error; err != nil {
			return &common.NotFoundError{Entity: "recharge request", ID: requestId}
		}
		if request.Status != models.RequestReviewPending {
			return &common.AlreadyProcessedError{Entity: "recharge request", ID: request.ID, Status: request.Status}
		}

		entry, err := s.Wallet.MutateBalanceTx(tx, MutationParams{
			UserId:         request.UserId,
			Amount:         request.Amount,
			EntryType:      models.EntryCredit,
			TrxType:        models.TrxTypeRecharge,
			Description:    "Wallet recharge",
			ReferenceTable: models.RechargeRequest{}.TableName(),
			ReferenceId:    request.ID,
			Status:         models.TrxSuccess,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.RequestApproved
		request.TransactionId = entry.ID
		request.ReviewedBy = reviewer
		request.ReviewedAt = &now
		return tx.Model(&models.RechargeRequest{}).Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":         request.Status,
				"transaction_id": entry.ID,
				"reviewed_by":    reviewer,
				"reviewed_at":    now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		if task, err := worker.NewRechargeApprovedTask(worker.RechargeApprovedDTO{
			RequestId: request.ID,
			UserId:    request.UserId,
			Amount:    request.Amount.StringFixed(2),
		}); err == nil {
			if _, err := s.Queue.Enqueue(task); err != nil {
				zap.L().Error("failed to enqueue recharge notification", zap.Int("request_id", request.ID), zap.Error(err))
			}
		}
	}
	return &request, nil
}

// Reject flips the request with no wallet effect.
func (s *RechargeService) Reject(requestId int, reviewer, comment string) (*models.RechargeRequest, error) {
	var request models.RechargeRequest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, requestId).Error; err != nil {
			return &common.NotFoundError{Entity: "recharge request", ID: requestId}
		}
		if request.Status != models.RequestReviewPending {
			return &common.AlreadyProcessedError{Entity: "recharge request", ID: request.ID, Status: request.Status}
		}

		now := time.Now()
		request.Status = models.RequestRejected
		request.Comment = comment
		request.ReviewedBy = reviewer
		request.ReviewedAt = &now
		return tx.Model(&models.RechargeRequest{}).Where("id = ?", request.ID).
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

type ListRechargesDTO struct {
	UserId int
	Status string
	Page   int
	Limit  int
}

func (s *RechargeService) List(data ListRechargesDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 50)

	query := s.DB.Model(&models.RechargeRequest{})
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

	var requests []models.RechargeRequest
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(requests, total, page, limit, "Recharge requests fetched"), nil
}

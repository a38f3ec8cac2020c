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

var oneHundred = decimal.NewFromInt(100)

// CommissionService fans a paid order out to the buyer's uplines and settles
// the resulting distribution rows through admin review.
type CommissionService struct {
	DB     *gorm.DB
	Wallet *WalletService
	Queue  *asynq.Client
}

func NewCommissionService(db *gorm.DB, wallet *WalletService, queue *asynq.Client) *CommissionService {
	return &CommissionService{DB: db, Wallet: wallet, Queue: queue}
}

// DistributeTx writes one PENDING distribution row per ancestor level of the
// buyer that has an active config row. Levels with no ancestor are skipped.
// The unique (order_id, upline_id, level) key makes re-invocation for an
// already-distributed order a safe no-op rather than a double pay. Callers
// must invoke this inside the same transaction as the order's payment capture.
func (s *CommissionService) DistributeTx(tx *gorm.DB, orderId, buyerId int, orderAmount decimal.Decimal) error {
	var configs []models.CommissionConfig
	if err := tx.Where("is_active = ? AND level <= ?", true, models.MaxReferralDepth).
		Order("level ASC").Find(&configs).Error; err != nil {
		return err
	}
	if len(configs) == 0 {
		return nil
	}

	var ancestors []models.ReferralTreeEdge
	if err := tx.Where("downline_id = ?", buyerId).Find(&ancestors).Error; err != nil {
		return err
	}
	uplineByLevel := make(map[int]int, len(ancestors))
	for _, a := range ancestors {
		uplineByLevel[a.Level] = a.UplineId
	}

	var rows []models.CommissionDistribution
	for _, cfg := range configs {
		uplineId, ok := uplineByLevel[cfg.Level]
		if !ok {
			continue
		}
		amount := orderAmount.Mul(cfg.Percent).Div(oneHundred).Round(2)
		rows = append(rows, models.CommissionDistribution{
			OrderId:    orderId,
			UplineId:   uplineId,
			DownlineId: buyerId,
			Level:      cfg.Level,
			Percent:    cfg.Percent,
			Amount:     amount,
			Status:     models.DistributionPending,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return err
	}

	zap.L().Info("commission distributed",
		zap.Int("order_id", orderId),
		zap.Int("buyer_id", buyerId),
		zap.Int("levels", len(rows)))
	return nil
}

// Approve flips a distribution PENDING -> APPROVED and credits the upline's
// wallet in the same transaction. The FOR UPDATE read plus status check makes
// concurrent approval clicks safe: the loser gets AlreadyProcessedError.
func (s *CommissionService) Approve(distributionId int, reviewer string) (*models.CommissionDistribution, error) {
	var dist models.CommissionDistribution
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dist, distributionId).Error; err != nil {
			return &common.NotFoundError{Entity: "commission distribution", ID: distributionId}
		}
		if dist.Status != models.DistributionPending {
			return &common.AlreadyProcessedError{Entity: "commission distribution", ID: dist.ID, Status: dist.Status}
		}

		if _, err := s.Wallet.MutateBalanceTx(tx, MutationParams{
			UserId:         dist.UplineId,
			Amount:         dist.Amount,
			EntryType:      models.EntryCredit,
			TrxType:        models.TrxTypeCommission,
			Description:    "Referral commission",
			ReferenceTable: models.CommissionDistribution{}.TableName(),
			ReferenceId:    dist.ID,
			Status:         models.TrxSuccess,
		}); err != nil {
			return err
		}

		now := time.Now()
		dist.Status = models.DistributionApproved
		dist.ReviewedBy = reviewer
		dist.ReviewedAt = &now
		return tx.Model(&models.CommissionDistribution{}).Where("id = ?", dist.ID).
			Updates(map[string]interface{}{
				"status":      dist.Status,
				"reviewed_by": reviewer,
				"reviewed_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		if task, err := worker.NewCommissionPaidTask(worker.CommissionPaidDTO{
			DistributionId: dist.ID,
			UplineId:       dist.UplineId,
			Level:          dist.Level,
			Amount:         dist.Amount.StringFixed(2),
		}); err == nil {
			if _, err := s.Queue.Enqueue(task, asynq.Queue("low")); err != nil {
				zap.L().Error("failed to enqueue commission notification", zap.Int("distribution_id", dist.ID), zap.Error(err))
			}
		}
	}
	return &dist, nil
}

// Reject flips a distribution PENDING -> REVERSED with no wallet effect.
func (s *CommissionService) Reject(distributionId int, reviewer string) (*models.CommissionDistribution, error) {
	var dist models.CommissionDistribution
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&dist, distributionId).Error; err != nil {
			return &common.NotFoundError{Entity: "commission distribution", ID: distributionId}
		}
		if dist.Status != models.DistributionPending {
			return &common.AlreadyProcessedError{Entity: "commission distribution", ID: dist.ID, Status: dist.Status}
		}

		now := time.Now()
		dist.Status = models.DistributionReversed
		dist.ReviewedBy = reviewer
		dist.ReviewedAt = &now
		return tx.Model(&models.CommissionDistribution{}).Where("id = ?", dist.ID).
			Updates(map[string]interface{}{
				"status":      dist.Status,
				"reviewed_by": reviewer,
				"reviewed_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

type ListDistributionsDTO struct {
	UplineId int
	OrderId  int
	Status   string
	Page     int
	Limit    int
}

func (s *CommissionService) ListDistributions(data ListDistributionsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 50)

	query := s.DB.Model(&models.CommissionDistribution{})
	if data.UplineId != 0 {
		query = query.Where("upline_id = ?", data.UplineId)
	}
	if data.OrderId != 0 {
		query = query.Where("order_id = ?", data.OrderId)
	}
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var rows []models.CommissionDistribution
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(rows, total, page, limit, "Distributions fetched"), nil
}

type EarningsSummary struct {
	Pending  decimal.Decimal `json:"pending"`
	Approved decimal.Decimal `json:"approved"`
	Reversed decimal.Decimal `json:"reversed"`
}

// Earnings sums a user's distributions per status.
func (s *CommissionService) Earnings(userId int) (*EarningsSummary, error) {
	type row struct {
		Status string
		Total  decimal.Decimal
	}
	var rows []row
	if err := s.DB.Model(&models.CommissionDistribution{}).
		Select("status, COALESCE(SUM(amount), 0) as total").
		Where("upline_id = ?", userId).
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := EarningsSummary{
		Pending:  decimal.Zero,
		Approved: decimal.Zero,
		Reversed: decimal.Zero,
	}
	for _, r := range rows {
		switch r.Status {
		case models.DistributionPending:
			summary.Pending = r.Total
		case models.DistributionApproved:
			summary.Approved = r.Total
		case models.DistributionReversed:
			summary.Reversed = r.Total
		}
	}
	return &summary, nil
}

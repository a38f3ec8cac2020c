package consumers

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/internal/worker"
	"referral-commerce-service/pkg/common"
)

// NotifyProcessor handles post-commit tasks. Delivery lives outside the
// engine's correctness boundary: wallet state is already settled when these
// run, and failures are retried by asynq without touching balances.
type NotifyProcessor struct {
	DB         *gorm.DB
	WebhookURL string
}

func NewNotifyProcessor(db *gorm.DB, webhookURL string) *NotifyProcessor {
	return &NotifyProcessor{DB: db, WebhookURL: webhookURL}
}

func (p *NotifyProcessor) ProcessWithdrawalPayout(data worker.WithdrawalPayoutDTO) error {
	// A payout instruction only goes out for a request that is still APPROVED
	// in the store; a stale or replayed task is dropped, not retried.
	var request models.WithdrawalRequest
	if err := p.DB.First(&request, data.RequestId).Error; err != nil {
		zap.L().Warn("payout task for unknown request, dropping", zap.Int("request_id", data.RequestId))
		return nil
	}
	if request.Status != models.RequestApproved {
		zap.L().Warn("payout task for non-approved request, dropping",
			zap.Int("request_id", data.RequestId),
			zap.String("status", request.Status))
		return nil
	}

	zap.L().Info("dispatching withdrawal payout",
		zap.Int("request_id", data.RequestId),
		zap.String("payout_reference", data.PayoutReference),
		zap.String("net_amount", data.NetAmount))
	return p.post("withdrawal.payout", data)
}

func (p *NotifyProcessor) ProcessRechargeApproved(data worker.RechargeApprovedDTO) error {
	return p.post("recharge.approved", data)
}

func (p *NotifyProcessor) ProcessCommissionPaid(data worker.CommissionPaidDTO) error {
	return p.post("commission.paid", data)
}

func (p *NotifyProcessor) post(event string, payload interface{}) error {
	if p.WebhookURL == "" {
		zap.L().Debug("no webhook configured, dropping notification", zap.String("event", event))
		return nil
	}
	_, err := common.Post(p.WebhookURL, map[string]interface{}{
		"event": event,
		"data":  payload,
	}, nil)
	if err != nil {
		zap.L().Error("webhook delivery failed", zap.String("event", event), zap.Error(err))
	}
	return err
}

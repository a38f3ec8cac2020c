package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Processor is implemented by the consumers package; the worker only parses
// payloads and routes them.
type Processor interface {
	ProcessWithdrawalPayout(WithdrawalPayoutDTO) error
	ProcessRechargeApproved(RechargeApprovedDTO) error
	ProcessCommissionPaid(CommissionPaidDTO) error
}

type Worker struct {
	Processor Processor
}

func NewWorker(processor Processor) *Worker {
	return &Worker{Processor: processor}
}

func (w *Worker) HandleWithdrawalPayout(ctx context.Context, t *asynq.Task) error {
	var p WithdrawalPayoutDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessWithdrawalPayout(p)
}

func (w *Worker) HandleRechargeApproved(ctx context.Context, t *asynq.Task) error {
	var p RechargeApprovedDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessRechargeApproved(p)
}

func (w *Worker) HandleCommissionPaid(ctx context.Context, t *asynq.Task) error {
	var p CommissionPaidDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessCommissionPaid(p)
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor Processor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeWithdrawalPayout, worker.HandleWithdrawalPayout)
	mux.HandleFunc(TypeRechargeApproved, worker.HandleRechargeApproved)
	mux.HandleFunc(TypeCommissionPaid, worker.HandleCommissionPaid)

	if err := srv.Run(mux); err != nil {
		zap.L().Fatal("could not run worker server", zap.Error(err))
	}
}

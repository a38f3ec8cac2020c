package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task types dispatched after a state transition has committed. The consumers
// only notify and correlate; they never mutate wallet state.
const (
	TypeWithdrawalPayout = "withdrawal-payout"
	TypeRechargeApproved = "recharge-approved"
	TypeCommissionPaid   = "commission-paid"
)

type WithdrawalPayoutDTO struct {
	RequestId       int    `json:"requestId"`
	UserId          int    `json:"userId"`
	NetAmount       string `json:"netAmount"`
	PayoutReference string `json:"payoutReference"`
	HolderName      string `json:"holderName"`
	AccountNumber   string `json:"accountNumber"`
	IfscCode        string `json:"ifscCode"`
	BankName        string `json:"bankName"`
}

type RechargeApprovedDTO struct {
	RequestId int    `json:"requestId"`
	UserId    int    `json:"userId"`
	Amount    string `json:"amount"`
}

type CommissionPaidDTO struct {
	DistributionId int    `json:"distributionId"`
	UplineId       int    `json:"uplineId"`
	Level          int    `json:"level"`
	Amount         string `json:"amount"`
}

func NewWithdrawalPayoutTask(payload WithdrawalPayoutDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeWithdrawalPayout, data), nil
}

func NewRechargeApprovedTask(payload RechargeApprovedDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRechargeApproved, data), nil
}

func NewCommissionPaidTask(payload CommissionPaidDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCommissionPaid, data), nil
}

package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

// WalletService owns every mutation of the wallet counters. Nothing else in
// the codebase touches balance or locked_balance, which is what keeps the
// ledger an exact mirror of the wallet state.
type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

type MutationParams struct {
	UserId         int
	Amount         decimal.Decimal
	EntryType      string // models.EntryCredit | models.EntryDebit
	TrxType        string
	Description    string
	ReferenceTable string
	ReferenceId    int
	Status         string // models.TrxPending | models.TrxSuccess | models.TrxFailed
}

// MutateBalance runs the mutation in its own transaction.
func (s *WalletService) MutateBalance(p MutationParams) (*models.WalletTransaction, error) {
	var entry *models.WalletTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = s.MutateBalanceTx(tx, p)
		return err
	})
	return entry, err
}

// MutateBalanceTx applies one balance mutation and its ledger entry inside the
// caller's transaction:
//
//  1. the wallet row is locked FOR UPDATE, serializing concurrent mutations on
//     the same user;
//  2. a missing wallet is created with zero balances;
//  3. CREDIT adds to balance. DEBIT with PENDING status moves the amount into
//     locked_balance (a hold); DEBIT with a terminal status spends from
//     balance directly. Either debit fails when balance < amount, checked
//     under the same lock;
//  4. one ledger row is appended with the pre/post balance snapshot.
//
// Any error rolls back both the counter change and the ledger insert.
func (s *WalletService) MutateBalanceTx(tx *gorm.DB, p MutationParams) (*models.WalletTransaction, error) {
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, common.NewValidationError("mutation amount must be positive")
	}
	if p.EntryType != models.EntryCredit && p.EntryType != models.EntryDebit {
		return nil, common.NewValidationError("unknown entry type %q", p.EntryType)
	}

	wallet, err := s.lockWallet(tx, p.UserId)
	if err != nil {
		return nil, err
	}

	balanceBefore := wallet.Balance
	updates := map[string]interface{}{}

	switch p.EntryType {
	case models.EntryCredit:
		wallet.Balance = wallet.Balance.Add(p.Amount)
		updates["balance"] = wallet.Balance
	case models.EntryDebit:
		if wallet.Balance.LessThan(p.Amount) {
			return nil, &common.InsufficientBalanceError{Available: wallet.Balance, Requested: p.Amount}
		}
		wallet.Balance = wallet.Balance.Sub(p.Amount)
		updates["balance"] = wallet.Balance
		if p.Status == models.TrxPending {
			// A hold: funds stay in the wallet total, reserved for review.
			wallet.LockedBalance = wallet.LockedBalance.Add(p.Amount)
			updates["locked_balance"] = wallet.LockedBalance
		}
	}

	if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	entry := models.WalletTransaction{
		WalletId:       wallet.ID,
		UserId:         p.UserId,
		TransactionNo:  common.GenerateTrxNo(),
		EntryType:      p.EntryType,
		TrxType:        p.TrxType,
		Amount:         p.Amount,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   wallet.Balance,
		Description:    p.Description,
		ReferenceTable: p.ReferenceTable,
		ReferenceId:    p.ReferenceId,
		Status:         p.Status,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	zap.L().Debug("wallet mutated",
		zap.Int("user_id", p.UserId),
		zap.String("entry_type", p.EntryType),
		zap.String("trx_type", p.TrxType),
		zap.String("amount", p.Amount.StringFixed(2)))

	return &entry, nil
}

// HoldBalance reserves amount from the user's spendable balance pending
// review. The ledger row stays PENDING until released or rolled back.
func (s *WalletService) HoldBalanceTx(tx *gorm.DB, userId int, amount decimal.Decimal, trxType, description, refTable string, refId int) (*models.WalletTransaction, error) {
	return s.MutateBalanceTx(tx, MutationParams{
		UserId:         userId,
		Amount:         amount,
		EntryType:      models.EntryDebit,
		TrxType:        trxType,
		Description:    description,
		ReferenceTable: refTable,
		ReferenceId:    refId,
		Status:         models.TrxPending,
	})
}

// ReleaseHeldBalanceTx finalizes a hold: the reserved amount leaves the wallet
// and the PENDING ledger row flips to SUCCESS. The status guard makes a
// concurrent release/rollback pair impossible: the second caller gets
// AlreadyProcessedError and no second effect.
func (s *WalletService) ReleaseHeldBalanceTx(tx *gorm.DB, userId int, amount decimal.Decimal, transactionId int) error {
	wallet, err := s.lockWallet(tx, userId)
	if err != nil {
		return err
	}
	if wallet.LockedBalance.LessThan(amount) {
		return common.NewValidationError("locked balance %s below release amount %s",
			wallet.LockedBalance.StringFixed(2), amount.StringFixed(2))
	}

	if err := s.finalizeLedgerEntry(tx, transactionId, models.TrxSuccess); err != nil {
		return err
	}

	return tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		Update("locked_balance", wallet.LockedBalance.Sub(amount)).Error
}

// RollbackHeldBalanceTx undoes a hold: the reserved amount moves back to the
// spendable balance and the PENDING ledger row flips to FAILED.
func (s *WalletService) RollbackHeldBalanceTx(tx *gorm.DB, userId int, amount decimal.Decimal, transactionId int) error {
	wallet, err := s.lockWallet(tx, userId)
	if err != nil {
		return err
	}
	if wallet.LockedBalance.LessThan(amount) {
		return common.NewValidationError("locked balance %s below rollback amount %s",
			wallet.LockedBalance.StringFixed(2), amount.StringFixed(2))
	}

	if err := s.finalizeLedgerEntry(tx, transactionId, models.TrxFailed); err != nil {
		return err
	}

	return tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"locked_balance": wallet.LockedBalance.Sub(amount),
			"balance":        wallet.Balance.Add(amount),
		}).Error
}

// finalizeLedgerEntry flips a PENDING ledger row to a terminal status. Zero
// rows affected means the hold was already finalized by a concurrent caller.
func (s *WalletService) finalizeLedgerEntry(tx *gorm.DB, transactionId int, status string) error {
	res := tx.Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", transactionId, models.TrxPending).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var entry models.WalletTransaction
		if err := tx.First(&entry, transactionId).Error; err != nil {
			return &common.NotFoundError{Entity: "wallet transaction", ID: transactionId}
		}
		return &common.AlreadyProcessedError{Entity: "wallet transaction", ID: transactionId, Status: entry.Status}
	}
	return nil
}

// lockWallet fetches the wallet row FOR UPDATE, creating it lazily with zero
// balances when the user has none yet.
func (s *WalletService) lockWallet(tx *gorm.DB, userId int) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{
			UserId:        userId,
			Balance:       decimal.Zero,
			LockedBalance: decimal.Zero,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetWallet returns the user's wallet, creating it lazily.
func (s *WalletService) GetWallet(userId int) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.Where("user_id = ?", userId).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserId: userId, Balance: decimal.Zero, LockedBalance: decimal.Zero}
		if err := s.DB.Create(&wallet).Error; err != nil {
			return nil, err
		}
		return &wallet, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

type ListTransactionsDTO struct {
	UserId int
	Status string
	Page   int
	Limit  int
}

func (s *WalletService) ListTransactions(data ListTransactionsDTO) (common.PaginationResult, error) {
	page, limit, offset := common.NormalizePage(data.Page, data.Limit, 50)

	query := s.DB.Model(&models.WalletTransaction{}).Where("user_id = ?", data.UserId)
	if data.Status != "" {
		query = query.Where("status = ?", data.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var entries []models.WalletTransaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(entries, total, page, limit, "Transactions fetched"), nil
}

package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"referral-commerce-service/internal/models"
)

// ledgerRetention is how long terminal ledger rows stay in the hot table.
const ledgerRetention = 180 * 24 * time.Hour

// LedgerArchiveService moves old terminal-status ledger rows into the archive
// table. PENDING rows are never archived; an open hold must stay visible to
// the release/rollback path.
type LedgerArchiveService struct {
	DB *gorm.DB
}

func NewLedgerArchiveService(db *gorm.DB) *LedgerArchiveService {
	return &LedgerArchiveService{DB: db}
}

func (s *LedgerArchiveService) Archive() {
	cutoff := time.Now().Add(-ledgerRetention)

	var old []models.WalletTransaction
	if err := s.DB.Where("created_at < ? AND status <> ?", cutoff, models.TrxPending).
		Find(&old).Error; err != nil {
		zap.L().Error("failed to find archivable ledger rows", zap.Error(err))
		return
	}
	if len(old) == 0 {
		return
	}

	archived := make([]models.ArchivedWalletTransaction, 0, len(old))
	ids := make([]int, 0, len(old))
	for _, entry := range old {
		archived = append(archived, models.ArchivedWalletTransaction{
			WalletId:       entry.WalletId,
			UserId:         entry.UserId,
			TransactionNo:  entry.TransactionNo,
			EntryType:      entry.EntryType,
			TrxType:        entry.TrxType,
			Amount:         entry.Amount,
			BalanceBefore:  entry.BalanceBefore,
			BalanceAfter:   entry.BalanceAfter,
			Description:    entry.Description,
			ReferenceTable: entry.ReferenceTable,
			ReferenceId:    entry.ReferenceId,
			Status:         entry.Status,
			CreatedAt:      entry.CreatedAt,
			UpdatedAt:      entry.UpdatedAt,
		})
		ids = append(ids, entry.ID)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		return tx.Delete(&models.WalletTransaction{}, ids).Error
	})
	if err != nil {
		zap.L().Error("ledger archive failed", zap.Error(err))
		return
	}
	zap.L().Info("ledger rows archived", zap.Int("count", len(old)))
}

// StartScheduler registers the nightly archive run.
func (s *LedgerArchiveService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("0 0 * * *", s.Archive)
	if err != nil {
		zap.L().Error("failed to schedule ledger archive", zap.Error(err))
		return
	}
	c.Start()
	zap.L().Info("ledger archive scheduler started (daily at 00:00)")
}

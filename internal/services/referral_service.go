package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-commerce-service/internal/models"
	"referral-commerce-service/pkg/common"
)

// ReferralService maintains the ancestor index. Edges are created when a user
// activates, not at signup, so a referred-but-never-activated user contributes
// no commission chain.
type ReferralService struct {
	DB *gorm.DB
}

func NewReferralService(db *gorm.DB) *ReferralService {
	return &ReferralService{DB: db}
}

// LinkReferral runs the tree insertion in its own transaction.
func (s *ReferralService) LinkReferral(uplineId, downlineId int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.LinkReferralTx(tx, uplineId, downlineId)
	})
}

// LinkReferralTx inserts the (upline, downline, 1) edge and, for every
// ancestor of the upline within the depth bound, the corresponding
// level+1 edge. Calling it again for the same pair is a no-op; linking a
// downline that already has a different level-1 upline is a validation error.
// The unique (upline, downline) key absorbs concurrent retries.
func (s *ReferralService) LinkReferralTx(tx *gorm.DB, uplineId, downlineId int) error {
	if uplineId == downlineId {
		return common.NewValidationError("a user cannot refer themselves")
	}

	var existing models.ReferralTreeEdge
	err := tx.Where("downline_id = ? AND level = 1", downlineId).First(&existing).Error
	if err == nil {
		if existing.UplineId == uplineId {
			return nil // already linked, tolerate the retry
		}
		return common.NewValidationError("user %d is already referred by user %d", downlineId, existing.UplineId)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	edges := []models.ReferralTreeEdge{
		{UplineId: uplineId, DownlineId: downlineId, Level: 1},
	}

	var ancestors []models.ReferralTreeEdge
	if err := tx.Where("downline_id = ? AND level <= ?", uplineId, models.MaxReferralDepth-1).
		Order("level ASC").Find(&ancestors).Error; err != nil {
		return err
	}
	for _, a := range ancestors {
		edges = append(edges, models.ReferralTreeEdge{
			UplineId:   a.UplineId,
			DownlineId: downlineId,
			Level:      a.Level + 1,
		})
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return err
	}

	zap.L().Info("referral linked",
		zap.Int("upline_id", uplineId),
		zap.Int("downline_id", downlineId),
		zap.Int("edges", len(edges)))
	return nil
}

// Uplines returns every ancestor of the user with its level, nearest first.
func (s *ReferralService) Uplines(userId int) ([]models.ReferralTreeEdge, error) {
	var edges []models.ReferralTreeEdge
	err := s.DB.Where("downline_id = ?", userId).Order("level ASC").Find(&edges).Error
	return edges, err
}

// Downlines returns the user's descendants, optionally filtered to one level.
func (s *ReferralService) Downlines(userId, level int) ([]models.ReferralTreeEdge, error) {
	query := s.DB.Where("upline_id = ?", userId)
	if level > 0 {
		query = query.Where("level = ?", level)
	}
	var edges []models.ReferralTreeEdge
	err := query.Order("level ASC, downline_id ASC").Find(&edges).Error
	return edges, err
}

type TeamSummary struct {
	TotalDownlines int64                     `json:"totalDownlines"`
	PerLevel       map[int]int64             `json:"perLevel"`
	DirectReferral []models.ReferralTreeEdge `json:"directReferrals"`
}

// TeamSummary reports the size of a user's network per level plus the direct
// referrals, the shape every member-facing team screen needs.
func (s *ReferralService) TeamSummary(userId int) (*TeamSummary, error) {
	type levelCount struct {
		Level int
		Total int64
	}
	var counts []levelCount
	if err := s.DB.Model(&models.ReferralTreeEdge{}).
		Select("level, COUNT(*) as total").
		Where("upline_id = ?", userId).
		Group("level").Scan(&counts).Error; err != nil {
		return nil, err
	}

	summary := TeamSummary{PerLevel: make(map[int]int64)}
	for _, c := range counts {
		summary.PerLevel[c.Level] = c.Total
		summary.TotalDownlines += c.Total
	}

	direct, err := s.Downlines(userId, 1)
	if err != nil {
		return nil, err
	}
	summary.DirectReferral = direct

	return &summary, nil
}

package repo

import (
	"context"

	"github.com/dushixiang/argus/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewRiskSnapshotRepo(db *gorm.DB) *RiskSnapshotRepo {
	return &RiskSnapshotRepo{
		Repository: orz.NewRepository[models.RiskSnapshot, string](db),
	}
}

type RiskSnapshotRepo struct {
	orz.Repository[models.RiskSnapshot, string]
}

// snapshotUpdateColumns 冲突时覆盖的列，ID 和 account_login 保持不变
var snapshotUpdateColumns = []string{
	"timestamp",
	"win_ratio",
	"profit_factor",
	"max_drawdown",
	"stop_loss_used",
	"take_profit_used",
	"hft_count",
	"max_layering",
	"risk_score",
	"risk_signals",
	"last_trade_at",
	"updated_at",
}

// UpsertBatch 按 account_login 批量写入快照，已存在则原地覆盖
func (r RiskSnapshotRepo) UpsertBatch(ctx context.Context, snapshots []models.RiskSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	db := r.GetDB(ctx)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_login"}},
		DoUpdates: clause.AssignmentColumns(snapshotUpdateColumns),
	}).Create(&snapshots).Error
}

// FindByAccountLogin 获取账户的最新快照
func (r RiskSnapshotRepo) FindByAccountLogin(ctx context.Context, login int64) (m models.RiskSnapshot, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("account_login = ?", login).
		First(&m).Error
	return m, err
}

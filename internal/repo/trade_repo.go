package repo

import (
	"context"

	"github.com/dushixiang/argus/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{
		Repository: orz.NewRepository[models.Trade, string](db),
	}
}

type TradeRepo struct {
	orz.Repository[models.Trade, string]
}

// FindRecentClosed 获取单个账户最近平仓的交易，按平仓时间倒序
func (r TradeRepo) FindRecentClosed(ctx context.Context, login int64, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("trading_account_login = ?", login).
		Order("closed_at DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// FindRecentClosedByLogins 获取多个账户合并后的最近平仓交易，按平仓时间倒序
func (r TradeRepo) FindRecentClosedByLogins(ctx context.Context, logins []int64, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("trading_account_login IN ?", logins).
		Order("closed_at DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

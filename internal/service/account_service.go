package service

import (
	"context"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AccountService 账户与交易窗口读取服务，
// 账户和交易由外部系统写入，这里只读
type AccountService struct {
	logger      *zap.Logger
	accountRepo *repo.AccountRepo
	tradeRepo   *repo.TradeRepo
}

func NewAccountService(logger *zap.Logger, db *gorm.DB) *AccountService {
	return &AccountService{
		logger:      logger,
		accountRepo: repo.NewAccountRepo(db),
		tradeRepo:   repo.NewTradeRepo(db),
	}
}

// ListAccounts 列出所有账户
func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.FindAll(ctx)
}

// FindByLogin 按登录号查找账户
func (s *AccountService) FindByLogin(ctx context.Context, login int64) (models.Account, error) {
	return s.accountRepo.FindById(ctx, login)
}

// FindByUserId 查找用户名下的账户
func (s *AccountService) FindByUserId(ctx context.Context, userId int64) ([]models.Account, error) {
	return s.accountRepo.FindByUserId(ctx, userId)
}

// FindByChallengeId 查找挑战名下的账户
func (s *AccountService) FindByChallengeId(ctx context.Context, challengeId int64) ([]models.Account, error) {
	return s.accountRepo.FindByChallengeId(ctx, challengeId)
}

// RecentClosedTrades 获取账户最近平仓的 windowSize 笔交易，按平仓时间倒序
func (s *AccountService) RecentClosedTrades(ctx context.Context, login int64, windowSize int) ([]models.Trade, error) {
	return s.tradeRepo.FindRecentClosed(ctx, login, windowSize)
}

// RecentClosedTradesForLogins 获取多个账户合并后的最近 windowSize 笔交易
func (s *AccountService) RecentClosedTradesForLogins(ctx context.Context, logins []int64, windowSize int) ([]models.Trade, error) {
	if len(logins) == 0 {
		return nil, nil
	}
	return s.tradeRepo.FindRecentClosedByLogins(ctx, logins, windowSize)
}

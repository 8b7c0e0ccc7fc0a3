package service

import (
	"context"
	"errors"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/risk"
	"github.com/dushixiang/argus/internal/xe"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RiskReport 对外暴露的风险报告
type RiskReport struct {
	TradingAccountLogin int64     `json:"trading_account_login"`
	RiskSignals         []string  `json:"risk_signals"`
	RiskScore           float64   `json:"risk_score"`
	LastTradeAt         time.Time `json:"last_trade_at"`
}

// ReportService 风险报告查询服务。
// 账户报告读取已存储的快照；用户/挑战报告把名下所有账户的
// 近期交易合并后即时计算，不落库
type ReportService struct {
	logger          *zap.Logger
	accountService  *AccountService
	snapshotService *SnapshotService
	configService   *RiskConfigService
}

func NewReportService(
	logger *zap.Logger,
	accountService *AccountService,
	snapshotService *SnapshotService,
	configService *RiskConfigService,
) *ReportService {
	return &ReportService{
		logger:          logger,
		accountService:  accountService,
		snapshotService: snapshotService,
		configService:   configService,
	}
}

// GetAccountReport 获取账户的最新风险报告，
// 区分账户不存在和账户尚未产生快照两种情况
func (s *ReportService) GetAccountReport(ctx context.Context, login int64) (*RiskReport, error) {
	snapshot, err := s.snapshotService.FindByAccountLogin(ctx, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if _, aerr := s.accountService.FindByLogin(ctx, login); aerr != nil {
				if errors.Is(aerr, gorm.ErrRecordNotFound) {
					return nil, xe.ErrAccountNotFound
				}
				return nil, aerr
			}
			return nil, xe.ErrNoRiskSnapshot
		}
		return nil, err
	}

	return &RiskReport{
		TradingAccountLogin: login,
		RiskSignals:         snapshot.RiskSignals,
		RiskScore:           snapshot.RiskScore,
		LastTradeAt:         snapshot.LastTradeAt,
	}, nil
}

// GetUserReport 即时计算用户维度的合并风险报告
func (s *ReportService) GetUserReport(ctx context.Context, userId int64) (*RiskReport, error) {
	accounts, err := s.accountService.FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, xe.ErrUserNotFound
	}
	return s.computeAggregate(ctx, userId, accounts)
}

// GetChallengeReport 即时计算挑战维度的合并风险报告
func (s *ReportService) GetChallengeReport(ctx context.Context, challengeId int64) (*RiskReport, error) {
	accounts, err := s.accountService.FindByChallengeId(ctx, challengeId)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, xe.ErrChallengeNotFound
	}
	return s.computeAggregate(ctx, challengeId, accounts)
}

func (s *ReportService) computeAggregate(ctx context.Context, subject int64, accounts []models.Account) (*RiskReport, error) {
	conf, err := s.configService.GetRiskConfig(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateRiskConfig(conf); err != nil {
		return nil, err
	}

	logins := make([]int64, 0, len(accounts))
	for i := range accounts {
		logins = append(logins, accounts[i].Login)
	}

	trades, err := s.accountService.RecentClosedTradesForLogins(ctx, logins, conf.WindowSize)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, xe.ErrNoTradesFound
	}

	metrics, err := risk.Calculate(trades, conf.InitialBalance, time.Duration(conf.HFTDurationSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	return &RiskReport{
		TradingAccountLogin: subject,
		RiskSignals: risk.Signals(metrics, risk.Thresholds{
			WinRatio:   conf.WinRatioThreshold,
			Drawdown:   conf.DrawdownThreshold,
			StopLoss:   conf.StopLossThreshold,
			TakeProfit: conf.TakeProfitThreshold,
		}),
		RiskScore:   risk.Score(metrics),
		LastTradeAt: metrics.LastTradeAt,
	}, nil
}

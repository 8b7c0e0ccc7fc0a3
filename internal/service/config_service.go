package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dushixiang/argus/internal/models"
	"github.com/dushixiang/argus/internal/repo"
	"github.com/dushixiang/argus/internal/xe"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRiskConfig 默认风控参数
var DefaultRiskConfig = models.RiskConfig{
	ID:                  "00000000-0000-0000-0000-000000000000",
	WindowSize:          100,
	InitialBalance:      100000,
	HFTDurationSeconds:  60,
	WinRatioThreshold:   0.3,
	DrawdownThreshold:   0.5,
	StopLossThreshold:   0.5,
	TakeProfitThreshold: 0.3,
	RiskThreshold:       80,
	BatchSize:           500,
}

// RiskConfigService 风控运行参数管理，
// 参数存储为数据库单行记录，每轮计算开始时读取一次快照
type RiskConfigService struct {
	logger         *zap.Logger
	riskConfigRepo *repo.RiskConfigRepo
}

func NewRiskConfigService(logger *zap.Logger, db *gorm.DB) *RiskConfigService {
	return &RiskConfigService{
		logger:         logger,
		riskConfigRepo: repo.NewRiskConfigRepo(db),
	}
}

// Initialize 数据库中没有配置时写入默认配置
func (s *RiskConfigService) Initialize(ctx context.Context) error {
	count, err := s.riskConfigRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count risk config: %w", err)
	}
	if count > 0 {
		return nil
	}

	conf := DefaultRiskConfig
	if conf.ID == "" {
		conf.ID = uuid.NewString()
	}
	if err := s.riskConfigRepo.Create(ctx, &conf); err != nil {
		return fmt.Errorf("failed to create default risk config: %w", err)
	}
	s.logger.Info("default risk config created",
		zap.Int("window_size", conf.WindowSize),
		zap.Float64("risk_threshold", conf.RiskThreshold))
	return nil
}

// GetRiskConfig 读取当前配置
func (s *RiskConfigService) GetRiskConfig(ctx context.Context) (models.RiskConfig, error) {
	return s.riskConfigRepo.FindOne(ctx)
}

// RiskConfigUpdate 配置的部分更新请求，为空的字段保持不变
type RiskConfigUpdate struct {
	WindowSize          *int     `json:"window_size" validate:"omitempty,gt=0"`
	InitialBalance      *float64 `json:"initial_balance" validate:"omitempty,gt=0"`
	HFTDurationSeconds  *int     `json:"hft_duration_seconds" validate:"omitempty,gt=0"`
	WinRatioThreshold   *float64 `json:"win_ratio_threshold" validate:"omitempty,gte=0,lte=1"`
	DrawdownThreshold   *float64 `json:"drawdown_threshold" validate:"omitempty,gte=0,lte=1"`
	StopLossThreshold   *float64 `json:"stop_loss_threshold" validate:"omitempty,gte=0,lte=1"`
	TakeProfitThreshold *float64 `json:"take_profit_threshold" validate:"omitempty,gte=0,lte=1"`
	RiskThreshold       *float64 `json:"risk_threshold" validate:"omitempty,gte=0,lte=100"`
	BatchSize           *int     `json:"batch_size" validate:"omitempty,gt=0"`
}

// UpdateRiskConfig 应用部分更新并落库，下一轮计算生效
func (s *RiskConfigService) UpdateRiskConfig(ctx context.Context, update RiskConfigUpdate) (models.RiskConfig, error) {
	conf, err := s.riskConfigRepo.FindOne(ctx)
	if err != nil {
		return conf, fmt.Errorf("failed to load risk config: %w", err)
	}

	if update.WindowSize != nil {
		conf.WindowSize = *update.WindowSize
	}
	if update.InitialBalance != nil {
		conf.InitialBalance = *update.InitialBalance
	}
	if update.HFTDurationSeconds != nil {
		conf.HFTDurationSeconds = *update.HFTDurationSeconds
	}
	if update.WinRatioThreshold != nil {
		conf.WinRatioThreshold = *update.WinRatioThreshold
	}
	if update.DrawdownThreshold != nil {
		conf.DrawdownThreshold = *update.DrawdownThreshold
	}
	if update.StopLossThreshold != nil {
		conf.StopLossThreshold = *update.StopLossThreshold
	}
	if update.TakeProfitThreshold != nil {
		conf.TakeProfitThreshold = *update.TakeProfitThreshold
	}
	if update.RiskThreshold != nil {
		conf.RiskThreshold = *update.RiskThreshold
	}
	if update.BatchSize != nil {
		conf.BatchSize = *update.BatchSize
	}

	if err := ValidateRiskConfig(conf); err != nil {
		return conf, err
	}

	conf.UpdatedAt = time.Now()
	if err := s.riskConfigRepo.Save(ctx, &conf); err != nil {
		return conf, fmt.Errorf("failed to save risk config: %w", err)
	}

	s.logger.Info("risk config updated",
		zap.Int("window_size", conf.WindowSize),
		zap.Float64("initial_balance", conf.InitialBalance),
		zap.Int("hft_duration_seconds", conf.HFTDurationSeconds),
		zap.Float64("risk_threshold", conf.RiskThreshold),
		zap.Int("batch_size", conf.BatchSize))
	return conf, nil
}

// ValidateRiskConfig 配置无效时整轮计算不可信，必须中止
func ValidateRiskConfig(conf models.RiskConfig) error {
	if conf.WindowSize <= 0 {
		return fmt.Errorf("%w: window_size must be positive, got %d", xe.ErrInvalidRiskConfig, conf.WindowSize)
	}
	if conf.InitialBalance <= 0 {
		return fmt.Errorf("%w: initial_balance must be positive, got %f", xe.ErrInvalidRiskConfig, conf.InitialBalance)
	}
	if conf.HFTDurationSeconds <= 0 {
		return fmt.Errorf("%w: hft_duration_seconds must be positive, got %d", xe.ErrInvalidRiskConfig, conf.HFTDurationSeconds)
	}
	if conf.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", xe.ErrInvalidRiskConfig, conf.BatchSize)
	}
	return nil
}

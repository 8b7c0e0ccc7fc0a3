package models

import (
	"time"
)

// RiskConfig 风控运行参数，数据库单行配置，可通过管理接口在运行期修改，
// 流水线每轮触发时读取一次快照，运行中不感知变更
type RiskConfig struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// WindowSize 滚动窗口内的最近平仓交易数
	WindowSize int `gorm:"not null" json:"window_size"`
	// InitialBalance 回撤计算起始余额
	InitialBalance float64 `gorm:"type:decimal(20,8)" json:"initial_balance"`
	// HFTDurationSeconds 持仓低于该秒数记为高频交易
	HFTDurationSeconds int `gorm:"column:hft_duration_seconds" json:"hft_duration_seconds"`

	WinRatioThreshold   float64 `gorm:"type:decimal(10,4)" json:"win_ratio_threshold"`
	DrawdownThreshold   float64 `gorm:"type:decimal(10,4)" json:"drawdown_threshold"`
	StopLossThreshold   float64 `gorm:"type:decimal(10,4)" json:"stop_loss_threshold"`
	TakeProfitThreshold float64 `gorm:"type:decimal(10,4)" json:"take_profit_threshold"`

	// RiskThreshold 评分超过该值触发外部警报
	RiskThreshold float64 `gorm:"type:decimal(10,4)" json:"risk_threshold"`
	// BatchSize 每累积多少个账户提交一次
	BatchSize int `gorm:"not null" json:"batch_size"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (RiskConfig) TableName() string {
	return "risk_config"
}

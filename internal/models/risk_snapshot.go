package models

import (
	"time"

	"gorm.io/datatypes"
)

// RiskSnapshot 账户最新风控快照，每个账户至多一条记录，
// 每轮计算按 account_login 原地覆盖（见 repo.RiskSnapshotRepo.UpsertBatch）
type RiskSnapshot struct {
	ID             string                      `gorm:"primaryKey;size:26" json:"id"`
	AccountLogin   int64                       `gorm:"uniqueIndex;not null" json:"account_login"`
	Timestamp      time.Time                   `gorm:"not null" json:"timestamp"` // 本次计算时间
	WinRatio       float64                     `gorm:"type:decimal(10,4)" json:"win_ratio"`
	ProfitFactor   float64                     `gorm:"type:decimal(20,8)" json:"profit_factor"`
	MaxDrawdown    float64                     `gorm:"type:decimal(10,4)" json:"max_drawdown"`
	StopLossUsed   float64                     `gorm:"type:decimal(10,4)" json:"stop_loss_used"`
	TakeProfitUsed float64                     `gorm:"type:decimal(10,4)" json:"take_profit_used"`
	HFTCount       int                         `gorm:"type:int;column:hft_count" json:"hft_count"`
	MaxLayering    int                         `gorm:"type:int" json:"max_layering"`
	RiskScore      float64                     `gorm:"type:decimal(10,4);index" json:"risk_score"`
	RiskSignals    datatypes.JSONSlice[string] `gorm:"type:json" json:"risk_signals"`
	LastTradeAt    time.Time                   `json:"last_trade_at"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (RiskSnapshot) TableName() string {
	return "risk_snapshots"
}

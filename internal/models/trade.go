package models

import (
	"time"
)

// Action 交易方向
type Action int

const (
	ActionBuy Action = iota
	ActionSell
)

// Trade 已平仓交易记录，由交易执行系统写入，风控流水线只读
type Trade struct {
	Identifier          string    `gorm:"primaryKey;size:64" json:"identifier"`
	Action              Action    `gorm:"type:int;not null" json:"action"` // 0=买入 1=卖出
	Reason              int       `gorm:"type:int" json:"reason"`          // 平仓原因
	OpenPrice           float64   `gorm:"type:decimal(20,8);not null" json:"open_price"`
	ClosePrice          float64   `gorm:"type:decimal(20,8);not null" json:"close_price"`
	Commission          float64   `gorm:"type:decimal(20,8)" json:"commission"`
	LotSize             float64   `gorm:"type:decimal(20,8);not null" json:"lot_size"`
	OpenedAt            time.Time `gorm:"not null" json:"opened_at"`
	ClosedAt            time.Time `gorm:"not null;index:idx_trades_login_closed,priority:2" json:"closed_at"`
	Pips                float64   `gorm:"type:decimal(20,8)" json:"pips"`
	PriceSL             *float64  `gorm:"type:decimal(20,8)" json:"price_sl,omitempty"` // 止损价，为空表示未设置
	PriceTP             *float64  `gorm:"type:decimal(20,8)" json:"price_tp,omitempty"` // 止盈价，为空表示未设置
	Profit              float64   `gorm:"type:decimal(20,8);not null" json:"profit"`
	Swap                float64   `gorm:"type:decimal(20,8)" json:"swap"`
	Symbol              string    `gorm:"size:20;not null" json:"symbol"`
	ContractSize        float64   `gorm:"type:decimal(20,8)" json:"contract_size"`
	ProfitRate          float64   `gorm:"type:decimal(10,4)" json:"profit_rate"`
	Platform            int       `gorm:"type:int" json:"platform"`
	TradingAccountLogin int64     `gorm:"not null;index:idx_trades_login_closed,priority:1" json:"trading_account_login"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Trade) TableName() string {
	return "trades"
}

// Duration 持仓时长
func (t Trade) Duration() time.Duration {
	return t.ClosedAt.Sub(t.OpenedAt)
}

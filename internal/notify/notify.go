package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Alert 风险警报载荷，字段与外部接收端约定一致
type Alert struct {
	TradingAccountLogin int64      `json:"trading_account_login"`
	RiskSignals         []string   `json:"risk_signals"`
	RiskScore           float64    `json:"risk_score"`
	LastTradeAt         *time.Time `json:"last_trade_at"` // ISO8601，无交易时为 null
}

// Channel 单个警报通道
type Channel interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// Dispatcher 将警报分发到所有已配置通道。
// 投递尽力而为：任一通道失败只记录日志，绝不影响快照写入
type Dispatcher struct {
	logger   *zap.Logger
	channels []Channel
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	active := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	return &Dispatcher{logger: logger, channels: active}
}

// Dispatch 发送警报，返回是否所有通道均投递成功
func (d *Dispatcher) Dispatch(ctx context.Context, alert Alert) bool {
	ok := true
	for _, ch := range d.channels {
		if err := ch.Notify(ctx, alert); err != nil {
			ok = false
			d.logger.Error("alert delivery failed",
				zap.String("channel", ch.Name()),
				zap.Int64("account_login", alert.TradingAccountLogin),
				zap.Float64("risk_score", alert.RiskScore),
				zap.Error(err))
			continue
		}
		d.logger.Info("alert delivered",
			zap.String("channel", ch.Name()),
			zap.Int64("account_login", alert.TradingAccountLogin),
			zap.Float64("risk_score", alert.RiskScore))
	}
	return ok
}

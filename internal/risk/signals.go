package risk

// 风险信号，输出顺序固定为下方枚举顺序
const (
	SignalLowWinRatio        = "low_win_ratio"
	SignalHighDrawdown       = "high_drawdown"
	SignalHFT                = "hft_signal"
	SignalLowStopLossUsage   = "low_stop_loss_usage"
	SignalLowTakeProfitUsage = "low_take_profit_usage"
)

// Thresholds 信号判定阈值，来自运行配置
type Thresholds struct {
	WinRatio   float64
	Drawdown   float64
	StopLoss   float64
	TakeProfit float64
}

// Signals 根据原始指标与阈值生成风险信号，各信号独立判定
func Signals(m *Metrics, t Thresholds) []string {
	signals := make([]string, 0, 5)

	if m.WinRatio < t.WinRatio {
		signals = append(signals, SignalLowWinRatio)
	}
	if m.MaxDrawdown > t.Drawdown {
		signals = append(signals, SignalHighDrawdown)
	}
	if m.HFTCount > 0 {
		signals = append(signals, SignalHFT)
	}
	if m.StopLossUsed < t.StopLoss {
		signals = append(signals, SignalLowStopLossUsage)
	}
	if m.TakeProfitUsed < t.TakeProfit {
		signals = append(signals, SignalLowTakeProfitUsage)
	}

	return signals
}

package risk

import "math"

// 各指标权重。权重总和为 1.15 而非 1.0，
// 为保持既有评分口径不做归一化
const (
	weightWinRatio       = 0.15
	weightProfitFactor   = 0.15
	weightMaxDrawdown    = 0.20
	weightStopLossUsed   = 0.15
	weightTakeProfitUsed = 0.15
	weightHFTCount       = 0.15
	weightMaxLayering    = 0.20
)

// MaxProfitFactor 无亏损交易时盈亏比的持久化哨兵值。
// +Inf 无法序列化为 JSON，取值需能存入 decimal(20,8) 列
const MaxProfitFactor = 1e9

// Score 将七项原始指标归一化到 0-100 后加权求和，结果截断在 [0,100]
func Score(m *Metrics) float64 {
	normWinRatio := capAt100(m.WinRatio * 100)

	normProfitFactor := 100.0
	if !math.IsInf(m.ProfitFactor, 1) {
		normProfitFactor = capAt100(m.ProfitFactor * 10)
	}

	normDrawdown := m.MaxDrawdown * 100
	normStopLoss := m.StopLossUsed * 100
	normTakeProfit := m.TakeProfitUsed * 100
	normHFT := capAt100(float64(m.HFTCount) * 10)
	normLayering := capAt100(float64(m.MaxLayering) * 20)

	score := normWinRatio*weightWinRatio +
		normProfitFactor*weightProfitFactor +
		normDrawdown*weightMaxDrawdown +
		normStopLoss*weightStopLossUsed +
		normTakeProfit*weightTakeProfitUsed +
		normHFT*weightHFTCount +
		normLayering*weightMaxLayering

	return capAt100(score)
}

func capAt100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}

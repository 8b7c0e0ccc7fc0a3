package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dushixiang/argus/internal/models"
)

var (
	// ErrEmptyWindow 交易窗口为空，该账户本轮跳过
	ErrEmptyWindow = errors.New("trade window is empty")
)

// Metrics 单个账户在滚动窗口上的七项原始指标
type Metrics struct {
	WinRatio       float64   // 盈利交易占比 [0,1]
	ProfitFactor   float64   // 总盈利/总亏损，无亏损时为 +Inf
	MaxDrawdown    float64   // 最大回撤 [0,1]
	StopLossUsed   float64   // 设置止损的交易占比 [0,1]
	TakeProfitUsed float64   // 设置止盈的交易占比 [0,1]
	HFTCount       int       // 持仓时长低于阈值的交易数
	MaxLayering    int       // 最大同时持仓数
	LastTradeAt    time.Time // 窗口内最近一次平仓时间
}

// Calculate 对一个账户的交易窗口计算全部指标。
// 窗口为空返回 ErrEmptyWindow；存在 opened_at 晚于 closed_at 的
// 非法交易时整个账户本轮作废并返回错误。
func Calculate(trades []models.Trade, initialBalance float64, hftDuration time.Duration) (*Metrics, error) {
	if len(trades) == 0 {
		return nil, ErrEmptyWindow
	}

	for i := range trades {
		if trades[i].OpenedAt.After(trades[i].ClosedAt) {
			return nil, fmt.Errorf("trade %s opened after closed (opened_at=%s closed_at=%s)",
				trades[i].Identifier, trades[i].OpenedAt.Format(time.RFC3339), trades[i].ClosedAt.Format(time.RFC3339))
		}
	}

	total := len(trades)

	// 胜率与盈亏比
	var wins int
	var totalProfit, totalLoss float64
	for i := range trades {
		profit := trades[i].Profit
		if profit > 0 {
			wins++
			totalProfit += profit
		} else if profit < 0 {
			totalLoss += -profit
		}
	}
	winRatio := float64(wins) / float64(total)

	profitFactor := math.Inf(1)
	if totalLoss > 0 {
		profitFactor = totalProfit / totalLoss
	}

	// 最大回撤：按平仓时间升序回放余额，跟踪峰值
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ClosedAt.Before(ordered[j].ClosedAt)
	})

	balance := initialBalance
	peak := balance
	maxDrawdown := 0.0
	for i := range ordered {
		balance += ordered[i].Profit
		if balance > peak {
			peak = balance
		}
		if peak > 0 {
			drawdown := (peak - balance) / peak
			if drawdown > 1 {
				drawdown = 1
			}
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	// 止损/止盈使用率与高频交易计数
	var slUsed, tpUsed, hftCount int
	for i := range trades {
		if trades[i].PriceSL != nil {
			slUsed++
		}
		if trades[i].PriceTP != nil {
			tpUsed++
		}
		if trades[i].Duration() < hftDuration {
			hftCount++
		}
	}

	// 最大同时持仓数：开平仓事件扫描，
	// 同一时间点先平后开，避免首尾相接的交易被重复计数
	maxLayering := sweepMaxLayering(trades)

	lastTradeAt := trades[0].ClosedAt
	for i := range trades {
		if trades[i].ClosedAt.After(lastTradeAt) {
			lastTradeAt = trades[i].ClosedAt
		}
	}

	return &Metrics{
		WinRatio:       winRatio,
		ProfitFactor:   profitFactor,
		MaxDrawdown:    maxDrawdown,
		StopLossUsed:   float64(slUsed) / float64(total),
		TakeProfitUsed: float64(tpUsed) / float64(total),
		HFTCount:       hftCount,
		MaxLayering:    maxLayering,
		LastTradeAt:    lastTradeAt,
	}, nil
}

type layerEvent struct {
	at    time.Time
	delta int // 开仓 +1，平仓 -1
}

func sweepMaxLayering(trades []models.Trade) int {
	events := make([]layerEvent, 0, len(trades)*2)
	for i := range trades {
		events = append(events, layerEvent{at: trades[i].OpenedAt, delta: +1})
		events = append(events, layerEvent{at: trades[i].ClosedAt, delta: -1})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at.Equal(events[j].at) {
			return events[i].delta < events[j].delta
		}
		return events[i].at.Before(events[j].at)
	})

	var open, maxOpen int
	for _, e := range events {
		open += e.delta
		if open > maxOpen {
			maxOpen = open
		}
	}
	return maxOpen
}
